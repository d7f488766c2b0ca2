package features

import (
	"errors"
	"fmt"

	"tasador/server/internal/apperr"
)

// Schema is the ordered, immutable list of feature names an estimator was
// trained on. It fixes both the dimensionality and the column order.
type Schema struct {
	names []string
	index map[string]int
}

// NewSchema validates names and builds the column index.
// An empty list or a repeated name is a configuration error.
func NewSchema(names []string) (Schema, error) {
	if len(names) == 0 {
		return Schema{}, apperr.Configuration("feature schema", errors.New("no feature names"))
	}

	index := make(map[string]int, len(names))
	owned := make([]string, len(names))
	for i, name := range names {
		if _, dup := index[name]; dup {
			return Schema{}, apperr.Configuration("feature schema", fmt.Errorf("duplicate feature name %q", name))
		}
		index[name] = i
		owned[i] = name
	}

	return Schema{names: owned, index: index}, nil
}

// Len returns the number of columns.
func (s Schema) Len() int {
	return len(s.names)
}

// Names returns a copy of the column names in order.
func (s Schema) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Index returns the position of the named column.
func (s Schema) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Has reports whether the schema declares the named column.
func (s Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}
