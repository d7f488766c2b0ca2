package artifact

import "fmt"

// Estimator kinds accepted in an artifact bundle.
const (
	KindLinear       = "linear"
	KindTreeEnsemble = "tree_ensemble"
)

// Estimator is a fitted regression model. Implementations are read-only after
// loading and safe for concurrent use.
type Estimator interface {
	// Predict returns the raw prediction for a single aligned row.
	Predict(row []float64) (float64, error)
	// Kind names the estimator family.
	Kind() string
	// NumFeatures is the row length the estimator was trained on.
	NumFeatures() int
}

// ShapeError reports a row whose length differs from the trained dimensionality.
type ShapeError struct {
	Expected int
	Got      int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("feature shape mismatch, expected: %d, got %d", e.Expected, e.Got)
}

func checkShape(row []float64, n int) error {
	if len(row) != n {
		return &ShapeError{Expected: n, Got: len(row)}
	}
	return nil
}
