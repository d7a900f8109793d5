// Package catalog seeds the site wide ingredient catalog from a JSON dump of
// [{"name": ..., "measurement_unit": ...}] records.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"foodgram.io/backend/internal/data"
	"foodgram.io/backend/internal/exceptions"
	"foodgram.io/backend/internal/validation"
	"github.com/rs/zerolog/log"
)

type IngredientRecord struct {
	Name            string `json:"name" validate:"required,max=128"`
	MeasurementUnit string `json:"measurement_unit" validate:"required,max=64"`
}

type Report struct {
	Created  int
	Existing int
	Failed   int
}

func Decode(reader io.Reader) ([]IngredientRecord, error) {
	var records []IngredientRecord
	if err := json.NewDecoder(reader).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode ingredients: %w", err)
	}
	return records, nil
}

// LoadIngredients creates every record that is not already in the catalog.
// A bad record is logged and counted, it does not stop the load.
func LoadIngredients(ctx context.Context, ingredients data.IngredientRepository, records []IngredientRecord) Report {
	var report Report
	for _, record := range records {
		logger := log.With().Str("name", record.Name).Str("unit", record.MeasurementUnit).Logger()
		if err := validation.Struct(record); err != nil {
			logger.Warn().Err(err).Msg("skipping invalid ingredient")
			report.Failed++
			continue
		}
		_, err := ingredients.Create(ctx, data.GLOBAL_ACCOUNT, data.IngredientInputDTO{
			Name:            &record.Name,
			MeasurementUnit: &record.MeasurementUnit,
		})
		switch {
		case err == nil:
			logger.Debug().Msg("ingredient added")
			report.Created++
		case exceptions.IsConflict(err):
			logger.Debug().Msg("ingredient already exists")
			report.Existing++
		default:
			logger.Error().Err(err).Msg("failed to load ingredient")
			report.Failed++
		}
	}
	return report
}
