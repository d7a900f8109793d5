package shoppinglist_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"foodgram.io/backend/internal/shoppinglist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pancakes = []shoppinglist.Item{
		{Name: "Flour", MeasurementUnit: "g", Amount: 200},
		{Name: "Egg", MeasurementUnit: "pc", Amount: 2},
	}
	crepes = []shoppinglist.Item{
		{Name: "Flour", MeasurementUnit: "g", Amount: 300},
		{Name: "Milk", MeasurementUnit: "ml", Amount: 100},
	}
)

func cart(recipes ...[]shoppinglist.Item) []shoppinglist.Item {
	var items []shoppinglist.Item
	for _, recipe := range recipes {
		items = append(items, recipe...)
	}
	return items
}

func TestAggregate(t *testing.T) {
	t.Run("SumsAndSortsByName", func(t *testing.T) {
		lines, err := shoppinglist.Aggregate(cart(pancakes, crepes))
		require.NoError(t, err)
		assert.Equal(t, []shoppinglist.Line{
			{Name: "Egg", MeasurementUnit: "pc", Amount: 2},
			{Name: "Flour", MeasurementUnit: "g", Amount: 500},
			{Name: "Milk", MeasurementUnit: "ml", Amount: 100},
		}, lines)
	})

	t.Run("IndependentOfOrder", func(t *testing.T) {
		forward, err := shoppinglist.Aggregate(cart(pancakes, crepes))
		require.NoError(t, err)
		backward, err := shoppinglist.Aggregate(cart(crepes, pancakes))
		require.NoError(t, err)
		assert.Equal(t, forward, backward)
	})

	t.Run("EmptyCart", func(t *testing.T) {
		lines, err := shoppinglist.Aggregate(nil)
		require.NoError(t, err)
		assert.Empty(t, lines)
	})

	t.Run("SameNameDifferentUnit", func(t *testing.T) {
		lines, err := shoppinglist.Aggregate([]shoppinglist.Item{
			{Name: "Sugar", MeasurementUnit: "tbsp", Amount: 1},
			{Name: "Sugar", MeasurementUnit: "g", Amount: 50},
			{Name: "Sugar", MeasurementUnit: "g", Amount: 25},
		})
		require.NoError(t, err)
		assert.Equal(t, []shoppinglist.Line{
			{Name: "Sugar", MeasurementUnit: "g", Amount: 75},
			{Name: "Sugar", MeasurementUnit: "tbsp", Amount: 1},
		}, lines)
	})

	t.Run("CaseSensitiveOrder", func(t *testing.T) {
		lines, err := shoppinglist.Aggregate([]shoppinglist.Item{
			{Name: "apple", MeasurementUnit: "pc", Amount: 1},
			{Name: "Banana", MeasurementUnit: "pc", Amount: 1},
		})
		require.NoError(t, err)
		assert.Equal(t, "Banana", lines[0].Name)
		assert.Equal(t, "apple", lines[1].Name)
	})

	t.Run("DoesNotMutateInput", func(t *testing.T) {
		items := cart(crepes, pancakes)
		snapshot := append([]shoppinglist.Item(nil), items...)
		_, err := shoppinglist.Aggregate(items)
		require.NoError(t, err)
		assert.Equal(t, snapshot, items)
	})

	t.Run("RejectsNonPositiveTotals", func(t *testing.T) {
		_, err := shoppinglist.Aggregate([]shoppinglist.Item{
			{Name: "Salt", MeasurementUnit: "g", Amount: 0},
		})
		var integrity *shoppinglist.IntegrityError
		require.ErrorAs(t, err, &integrity)
		assert.Equal(t, "Salt", integrity.Name)
	})
}

func TestFormat(t *testing.T) {
	now := time.Date(2024, 11, 21, 13, 50, 0, 0, time.UTC)

	t.Run("Lines", func(t *testing.T) {
		lines, err := shoppinglist.Aggregate(cart(pancakes, crepes))
		require.NoError(t, err)
		expected := strings.Join([]string{
			"== Ваш список покупок ==\n",
			"Egg                  (pc)           2",
			"Flour                (g)          500",
			"Milk                 (ml)         100",
			"Список создан: 21-11-2024 13:50",
		}, "\n")
		assert.Equal(t, expected, shoppinglist.Format(lines, now))
	})

	t.Run("EmptyCart", func(t *testing.T) {
		assert.Equal(t, "== Ваш список покупок ==\n\nСписок создан: 21-11-2024 13:50", shoppinglist.Format(nil, now))
	})

	t.Run("StableAcrossRuns", func(t *testing.T) {
		first, err := shoppinglist.Aggregate(cart(pancakes, crepes))
		require.NoError(t, err)
		second, err := shoppinglist.Aggregate(cart(pancakes, crepes))
		require.NoError(t, err)
		var a, b bytes.Buffer
		require.NoError(t, shoppinglist.Render(&a, first, now))
		require.NoError(t, shoppinglist.Render(&b, second, now.Add(time.Hour)))
		trim := func(s string) string {
			return s[:strings.LastIndex(s, "\n")]
		}
		assert.Equal(t, trim(a.String()), trim(b.String()))
	})
}
