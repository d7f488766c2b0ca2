package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasador/server/internal/apperr"
	"tasador/server/internal/models"
)

func fullRecord() models.PropertyRecord {
	return models.PropertyRecord{
		Lat:            ptr(-34.6037),
		Lon:            ptr(-58.3816),
		L2:             ptr("Capital Federal"),
		PropertyType:   ptr("Departamento"),
		Rooms:          ptr(3),
		Bedrooms:       ptr(2),
		Bathrooms:      ptr(1),
		SurfaceTotal:   ptr(80.0),
		SurfaceCovered: ptr(70.0),
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		variant models.SchemaVariant
		mutate  func(r *models.PropertyRecord)
		wantErr string
	}{
		{name: "full record", variant: models.VariantFull, mutate: func(r *models.PropertyRecord) {}},
		{name: "full record on reduced schema", variant: models.VariantReduced, mutate: func(r *models.PropertyRecord) {}},
		{
			name:    "missing coordinates",
			variant: models.VariantFull,
			mutate:  func(r *models.PropertyRecord) { r.Lat, r.Lon = nil, nil },
			wantErr: "missing required fields: lat, lon",
		},
		{
			name:    "reduced ignores coordinates",
			variant: models.VariantReduced,
			mutate:  func(r *models.PropertyRecord) { r.Lat, r.Lon, r.PropertyType, r.Rooms = nil, nil, nil, nil },
		},
		{
			name:    "reduced missing surface",
			variant: models.VariantReduced,
			mutate:  func(r *models.PropertyRecord) { r.SurfaceCovered = nil },
			wantErr: "missing required fields: surface_covered",
		},
		{
			name:    "latitude out of range",
			variant: models.VariantFull,
			mutate:  func(r *models.PropertyRecord) { r.Lat = ptr(-134.6) },
			wantErr: "out of range",
		},
		{
			name:    "negative surface",
			variant: models.VariantFull,
			mutate:  func(r *models.PropertyRecord) { r.SurfaceTotal = ptr(-1.0) },
			wantErr: "surface_total must not be negative",
		},
		{
			name:    "negative bedrooms",
			variant: models.VariantReduced,
			mutate:  func(r *models.PropertyRecord) { r.Bedrooms = ptr(-2) },
			wantErr: "bedrooms must not be negative",
		},
		{
			name:    "empty label is accepted",
			variant: models.VariantFull,
			mutate:  func(r *models.PropertyRecord) { r.L2 = ptr("") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := fullRecord()
			tt.mutate(&record)

			_, err := Validate(record, tt.variant)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindValidation))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_ReducedDropsExtraFields(t *testing.T) {
	record, err := Validate(fullRecord(), models.VariantReduced)
	require.NoError(t, err)
	assert.Nil(t, record.Lat)
	assert.Nil(t, record.PropertyType)
	assert.Nil(t, record.Rooms)
	assert.NotNil(t, record.L2)
}

func TestValidate_OutOfRangeCoordinatesIgnoredWhenReduced(t *testing.T) {
	record := fullRecord()
	record.Lat = ptr(500.0)
	_, err := Validate(record, models.VariantReduced)
	assert.NoError(t, err)
}
