package features

import "math"

// Vector is one aligned row: exactly one value per schema column, in schema order.
type Vector struct {
	schema Schema
	values []float64
}

func newVector(schema Schema) Vector {
	return Vector{schema: schema, values: make([]float64, schema.Len())}
}

// Len returns the number of columns.
func (v Vector) Len() int {
	return len(v.values)
}

// Columns returns the column names in order.
func (v Vector) Columns() []string {
	return v.schema.Names()
}

// Values returns a copy of the row.
func (v Vector) Values() []float64 {
	out := make([]float64, len(v.values))
	copy(out, v.values)
	return out
}

// Get returns the value of the named column.
func (v Vector) Get(name string) (float64, bool) {
	i, ok := v.schema.Index(name)
	if !ok {
		return 0, false
	}
	return v.values[i], true
}

// Active returns the names of non-zero columns in schema order.
func (v Vector) Active() []string {
	active := make([]string, 0, len(v.values))
	for i, value := range v.values {
		if value != 0 {
			active = append(active, v.schema.names[i])
		}
	}
	return active
}

// Equal reports whether both vectors have the same columns and bit-identical values.
func (v Vector) Equal(other Vector) bool {
	if len(v.values) != len(other.values) {
		return false
	}
	for i := range v.values {
		if v.schema.names[i] != other.schema.names[i] {
			return false
		}
		if math.Float64bits(v.values[i]) != math.Float64bits(other.values[i]) {
			return false
		}
	}
	return true
}
