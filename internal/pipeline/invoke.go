package pipeline

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"tasador/server/internal/apperr"
	"tasador/server/internal/artifact"
	"tasador/server/internal/features"
)

// DefaultPriceFloor is the lowest price ever returned.
const DefaultPriceFloor = 5000.0

// Invoke runs the estimator on a single aligned row, rounds to cents and
// applies the safety floor. Any estimator failure, including a panic, becomes an
// inference error carrying the original message.
func Invoke(estimator artifact.Estimator, vector features.Vector, floor float64) (price float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			price, err = 0, apperr.Inference("predict", fmt.Errorf("%v", r))
		}
	}()

	raw, err := estimator.Predict(vector.Values())
	if err != nil {
		return 0, apperr.Inference("predict", err)
	}
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0, apperr.Inference("predict", fmt.Errorf("estimator returned %v", raw))
	}

	return ApplyFloor(Round(raw), floor), nil
}

// ApplyFloor substitutes floor, rounded up to cents, for any price below it.
// A floor with sub-cent precision never lets a rounded price slip under it.
func ApplyFloor(price, floor float64) float64 {
	minimum, _ := decimal.NewFromFloat(floor).RoundCeil(2).Float64()
	if price < minimum {
		return minimum
	}
	return price
}

// Round rounds half away from zero to two decimal places.
func Round(v float64) float64 {
	rounded, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return rounded
}
