package features

import (
	"errors"

	"tasador/server/internal/apperr"
	"tasador/server/internal/models"
)

// OneHot is the expansion of a categorical field into its indicator column.
type OneHot struct {
	Field string
	Value string
}

// Column returns the indicator column name, "{Field}_{Value}".
func (o OneHot) Column() string {
	return o.Field + "_" + o.Value
}

var errEmptySchema = errors.New("feature schema is empty")

// Align builds the feature row for record against schema.
//
// Every column starts at zero. Numeric fields are copied into the column of
// the same name when the schema declares it. Each categorical field sets its
// one-hot column to 1 if that column exists; a category the estimator never
// saw matches no column and leaves its whole group at zero.
func Align(record models.PropertyRecord, schema Schema) (Vector, error) {
	if schema.Len() == 0 {
		return Vector{}, apperr.Configuration("align", errEmptySchema)
	}

	v := newVector(schema)
	for _, f := range record.NumericFields() {
		if i, ok := schema.Index(f.Name); ok {
			v.values[i] = f.Value
		}
	}
	for _, f := range record.CategoricalFields() {
		col := OneHot{Field: f.Name, Value: f.Value}.Column()
		if i, ok := schema.Index(col); ok {
			v.values[i] = 1
		}
	}
	return v, nil
}
