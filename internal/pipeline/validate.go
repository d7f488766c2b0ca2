package pipeline

import (
	"strings"

	"github.com/paulmach/orb"

	"tasador/server/internal/apperr"
	"tasador/server/internal/models"
)

// wgs84 bounds valid longitude/latitude pairs.
var wgs84 = orb.Bound{Min: orb.Point{-180, -90}, Max: orb.Point{180, 90}}

// Validate checks record against the fields variant requires and returns the
// record restricted to that variant. Category labels are free-form and are
// not checked against any known set.
func Validate(record models.PropertyRecord, variant models.SchemaVariant) (models.PropertyRecord, error) {
	var missing []string
	for _, field := range variant.RequiredFields() {
		if !record.Has(field) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return models.PropertyRecord{}, apperr.Validationf("missing required fields: %s", strings.Join(missing, ", "))
	}

	record = record.Restrict(variant)

	if record.Lat != nil && record.Lon != nil {
		if !wgs84.Contains(orb.Point{*record.Lon, *record.Lat}) {
			return models.PropertyRecord{}, apperr.Validationf("coordinates (%v, %v) are out of range", *record.Lat, *record.Lon)
		}
	}

	for _, f := range record.NumericFields() {
		if f.Name == models.FieldLat || f.Name == models.FieldLon {
			continue
		}
		if f.Value < 0 {
			return models.PropertyRecord{}, apperr.Validationf("%s must not be negative", f.Name)
		}
	}

	return record, nil
}
