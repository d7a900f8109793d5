package shoppinglist

import (
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Item is one ingredient requirement of one recipe in a cart.
type Item struct {
	Name            string
	MeasurementUnit string
	Amount          int
}

// Line is the total requirement of an ingredient across a cart.
type Line struct {
	Name            string
	MeasurementUnit string
	Amount          int
}

type IntegrityError struct {
	Name            string
	MeasurementUnit string
	Amount          int
}

func (ie *IntegrityError) Error() string {
	return fmt.Sprintf("ingredient %s (%s) sums to a non positive amount: %d", ie.Name, ie.MeasurementUnit, ie.Amount)
}

type key struct {
	name string
	unit string
}

// Aggregate groups items by name and measurement unit, sums their amounts and
// orders the result by name. The input is never modified.
func Aggregate(items []Item) ([]Line, error) {
	groups := make(map[key]*Line, len(items))
	for _, item := range items {
		k := key{name: item.Name, unit: item.MeasurementUnit}
		line, ok := groups[k]
		if !ok {
			line = &Line{Name: item.Name, MeasurementUnit: item.MeasurementUnit}
			groups[k] = line
		}
		line.Amount += item.Amount
	}
	lines := make([]Line, 0, len(groups))
	for _, line := range maps.Values(groups) {
		if line.Amount <= 0 {
			return nil, &IntegrityError{
				Name:            line.Name,
				MeasurementUnit: line.MeasurementUnit,
				Amount:          line.Amount,
			}
		}
		lines = append(lines, *line)
	}
	slices.SortFunc(lines, func(a, b Line) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.MeasurementUnit, b.MeasurementUnit)
	})
	return lines, nil
}
