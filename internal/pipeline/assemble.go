package pipeline

import (
	"fmt"

	"tasador/server/internal/features"
	"tasador/server/internal/models"
)

// AssembleOptions controls the optional parts of a result.
type AssembleOptions struct {
	Currency    string
	Diagnostics bool
}

// Assemble builds the response for a successful prediction.
func Assemble(record models.PropertyRecord, price float64, vector features.Vector, meta models.RequestMeta, opts AssembleOptions) models.PredictionResult {
	result := models.PredictionResult{
		Price:    price,
		Currency: opts.Currency,
		Label:    Label(record),
	}
	if opts.Diagnostics {
		result.ActiveFeatures = vector.Active()
		result.Origin = meta.Origin
	}
	return result
}

// Label describes the property as "{property_type} en {l2}".
func Label(record models.PropertyRecord) string {
	kind := "Propiedad"
	if record.PropertyType != nil && *record.PropertyType != "" {
		kind = *record.PropertyType
	}
	location := ""
	if record.L2 != nil {
		location = *record.L2
	}
	return fmt.Sprintf("%s en %s", kind, location)
}
