package catalog_test

import (
	"context"
	"strings"
	"testing"

	"foodgram.io/backend/internal/catalog"
	"foodgram.io/backend/internal/data"
	"foodgram.io/backend/internal/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dump = `[
	{"name": "абрикосовое варенье", "measurement_unit": "г"},
	{"name": "ананас", "measurement_unit": "г"},
	{"name": "ананас", "measurement_unit": "г"},
	{"name": "ананас", "measurement_unit": "шт."},
	{"name": "", "measurement_unit": "г"}
]`

func TestDecode(t *testing.T) {
	records, err := catalog.Decode(strings.NewReader(dump))
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, catalog.IngredientRecord{Name: "ананас", MeasurementUnit: "шт."}, records[3])

	_, err = catalog.Decode(strings.NewReader(`{"name": "salt"}`))
	assert.Error(t, err)
}

func TestLoadIngredients(t *testing.T) {
	ctx := context.Background()
	ingredients := test.NewMemoryIngredients()
	records, err := catalog.Decode(strings.NewReader(dump))
	require.NoError(t, err)

	report := catalog.LoadIngredients(ctx, ingredients, records)
	assert.Equal(t, catalog.Report{Created: 3, Existing: 1, Failed: 1}, report)

	all, err := data.ListAll(ctx, func(ctx context.Context, params data.QueryParams) (data.QueryResults[data.IngredientDTO], error) {
		return ingredients.List(ctx, data.GLOBAL_ACCOUNT, params)
	})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	again := catalog.LoadIngredients(ctx, ingredients, records)
	assert.Equal(t, catalog.Report{Existing: 4, Failed: 1}, again)
}
