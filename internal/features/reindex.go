package features

import (
	"tasador/server/internal/apperr"
	"tasador/server/internal/models"
)

// Frame is a single-row table produced by expanding a record without
// reference to any schema: numeric fields keep their names and every
// categorical field becomes a one-hot column for the value it carries.
type Frame struct {
	columns []string
	values  map[string]float64
}

// Expand turns record into a frame of its own columns.
func Expand(record models.PropertyRecord) Frame {
	f := Frame{values: make(map[string]float64)}
	for _, field := range record.NumericFields() {
		f.set(field.Name, field.Value)
	}
	for _, field := range record.CategoricalFields() {
		f.set(OneHot{Field: field.Name, Value: field.Value}.Column(), 1)
	}
	return f
}

func (f *Frame) set(name string, value float64) {
	if _, ok := f.values[name]; !ok {
		f.columns = append(f.columns, name)
	}
	f.values[name] = value
}

// Columns returns the expanded column names in insertion order.
func (f Frame) Columns() []string {
	out := make([]string, len(f.columns))
	copy(out, f.columns)
	return out
}

// Reindex projects the frame onto schema. Columns missing from the frame are
// zero and frame columns the schema does not declare are dropped.
func Reindex(f Frame, schema Schema) (Vector, error) {
	if schema.Len() == 0 {
		return Vector{}, apperr.Configuration("reindex", errEmptySchema)
	}

	v := newVector(schema)
	for i, name := range schema.names {
		if value, ok := f.values[name]; ok {
			v.values[i] = value
		}
	}
	return v, nil
}
