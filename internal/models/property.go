package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Request field names. Numeric fields double as feature column names and
// categorical fields prefix their one-hot columns.
const (
	FieldLat            = "lat"
	FieldLon            = "lon"
	FieldL2             = "l2"
	FieldPropertyType   = "property_type"
	FieldRooms          = "rooms"
	FieldBedrooms       = "bedrooms"
	FieldBathrooms      = "bathrooms"
	FieldSurfaceTotal   = "surface_total"
	FieldSurfaceCovered = "surface_covered"
)

// PropertyRecord is the loosely typed property description sent by clients.
// Every field is a pointer so presence can be checked per schema variant.
type PropertyRecord struct {
	Lat            *float64 `json:"lat"`
	Lon            *float64 `json:"lon"`
	L2             *string  `json:"l2"`
	PropertyType   *string  `json:"property_type"`
	Rooms          *int     `json:"rooms"`
	Bedrooms       *int     `json:"bedrooms"`
	Bathrooms      *int     `json:"bathrooms"`
	SurfaceTotal   *float64 `json:"surface_total"`
	SurfaceCovered *float64 `json:"surface_covered"`
}

// UnmarshalJSON decodes counts through float64 so integer-valued numbers such
// as 2.0 are accepted. Fractional counts are rejected.
func (r *PropertyRecord) UnmarshalJSON(data []byte) error {
	type plain PropertyRecord
	aux := struct {
		*plain
		Rooms     *float64 `json:"rooms"`
		Bedrooms  *float64 `json:"bedrooms"`
		Bathrooms *float64 `json:"bathrooms"`
	}{plain: (*plain)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	if r.Rooms, err = toCount(FieldRooms, aux.Rooms); err != nil {
		return err
	}
	if r.Bedrooms, err = toCount(FieldBedrooms, aux.Bedrooms); err != nil {
		return err
	}
	if r.Bathrooms, err = toCount(FieldBathrooms, aux.Bathrooms); err != nil {
		return err
	}
	return nil
}

func toCount(name string, v *float64) (*int, error) {
	if v == nil {
		return nil, nil
	}
	if *v != math.Trunc(*v) || math.Abs(*v) > math.MaxInt32 {
		return nil, fmt.Errorf("%s must be an integer, got %v", name, *v)
	}
	n := int(*v)
	return &n, nil
}

// NumericField is a passthrough value written to the column of the same name.
type NumericField struct {
	Name  string
	Value float64
}

// CategoricalField is a free-form label expanded into a one-hot column.
type CategoricalField struct {
	Name  string
	Value string
}

// NumericFields returns the numeric fields present in the record, in declaration order.
func (r PropertyRecord) NumericFields() []NumericField {
	var fields []NumericField
	addFloat := func(name string, v *float64) {
		if v != nil {
			fields = append(fields, NumericField{Name: name, Value: *v})
		}
	}
	addInt := func(name string, v *int) {
		if v != nil {
			fields = append(fields, NumericField{Name: name, Value: float64(*v)})
		}
	}

	addFloat(FieldLat, r.Lat)
	addFloat(FieldLon, r.Lon)
	addInt(FieldRooms, r.Rooms)
	addInt(FieldBedrooms, r.Bedrooms)
	addInt(FieldBathrooms, r.Bathrooms)
	addFloat(FieldSurfaceTotal, r.SurfaceTotal)
	addFloat(FieldSurfaceCovered, r.SurfaceCovered)
	return fields
}

// CategoricalFields returns the categorical fields present in the record.
func (r PropertyRecord) CategoricalFields() []CategoricalField {
	var fields []CategoricalField
	if r.L2 != nil {
		fields = append(fields, CategoricalField{Name: FieldL2, Value: *r.L2})
	}
	if r.PropertyType != nil {
		fields = append(fields, CategoricalField{Name: FieldPropertyType, Value: *r.PropertyType})
	}
	return fields
}

// Has reports whether the named field is set.
func (r PropertyRecord) Has(field string) bool {
	switch field {
	case FieldLat:
		return r.Lat != nil
	case FieldLon:
		return r.Lon != nil
	case FieldL2:
		return r.L2 != nil
	case FieldPropertyType:
		return r.PropertyType != nil
	case FieldRooms:
		return r.Rooms != nil
	case FieldBedrooms:
		return r.Bedrooms != nil
	case FieldBathrooms:
		return r.Bathrooms != nil
	case FieldSurfaceTotal:
		return r.SurfaceTotal != nil
	case FieldSurfaceCovered:
		return r.SurfaceCovered != nil
	}
	return false
}

// Restrict returns a copy holding only the fields declared by variant.
func (r PropertyRecord) Restrict(variant SchemaVariant) PropertyRecord {
	if variant == VariantFull {
		return r
	}
	return PropertyRecord{
		L2:             r.L2,
		Bedrooms:       r.Bedrooms,
		Bathrooms:      r.Bathrooms,
		SurfaceTotal:   r.SurfaceTotal,
		SurfaceCovered: r.SurfaceCovered,
	}
}

// SchemaVariant selects which request schema revision the boundary accepts.
type SchemaVariant string

const (
	// VariantFull is the nine-field schema including coordinates and property type.
	VariantFull SchemaVariant = "full"
	// VariantReduced is the five-field schema.
	VariantReduced SchemaVariant = "reduced"
)

var variantFields = map[SchemaVariant][]string{
	VariantFull: {
		FieldLat, FieldLon, FieldL2, FieldPropertyType, FieldRooms,
		FieldBedrooms, FieldBathrooms, FieldSurfaceTotal, FieldSurfaceCovered,
	},
	VariantReduced: {
		FieldL2, FieldBedrooms, FieldBathrooms, FieldSurfaceTotal, FieldSurfaceCovered,
	},
}

// ParseSchemaVariant accepts "full" or "reduced", case-insensitively.
func ParseSchemaVariant(s string) (SchemaVariant, error) {
	v := SchemaVariant(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := variantFields[v]; !ok {
		return "", fmt.Errorf("unknown schema variant %q", s)
	}
	return v, nil
}

// RequiredFields lists the fields a request must carry under this variant.
func (v SchemaVariant) RequiredFields() []string {
	fields := variantFields[v]
	out := make([]string, len(fields))
	copy(out, fields)
	return out
}
