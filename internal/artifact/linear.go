package artifact

import (
	"fmt"
	"math"
)

// Target transforms applied to the regressor output.
const (
	TargetIdentity = ""
	TargetLog1p    = "log1p"
)

// Imputer replaces missing (NaN) inputs with the per-column statistic learned at fit time.
type Imputer struct {
	Statistics []float64 `json:"statistics"`
}

// StandardScaler centres and scales every column.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// LinearPipeline is imputation, scaling and a linear regressor applied in
// that order. The pipeline owns all preprocessing, so rows arrive raw.
type LinearPipeline struct {
	Imputer         *Imputer        `json:"imputer,omitempty"`
	Scaler          *StandardScaler `json:"scaler,omitempty"`
	Coef            []float64       `json:"coef"`
	Intercept       float64         `json:"intercept"`
	TargetTransform string          `json:"target_transform,omitempty"`
}

func (p *LinearPipeline) Kind() string {
	return KindLinear
}

func (p *LinearPipeline) NumFeatures() int {
	return len(p.Coef)
}

func (p *LinearPipeline) validate(n int) error {
	if p.Imputer != nil && len(p.Imputer.Statistics) != n {
		return fmt.Errorf("imputer has %d statistics for %d features", len(p.Imputer.Statistics), n)
	}
	if p.Scaler != nil && (len(p.Scaler.Mean) != n || len(p.Scaler.Scale) != n) {
		return fmt.Errorf("scaler has %d means and %d scales for %d features", len(p.Scaler.Mean), len(p.Scaler.Scale), n)
	}
	switch p.TargetTransform {
	case TargetIdentity, TargetLog1p:
	default:
		return fmt.Errorf("unsupported target transform %q", p.TargetTransform)
	}
	return nil
}

func (p *LinearPipeline) Predict(row []float64) (float64, error) {
	if err := checkShape(row, len(p.Coef)); err != nil {
		return 0, err
	}

	y := p.Intercept
	for i, x := range row {
		if math.IsNaN(x) {
			if p.Imputer == nil {
				return 0, fmt.Errorf("input contains NaN at column %d", i)
			}
			x = p.Imputer.Statistics[i]
		}
		if p.Scaler != nil {
			scale := p.Scaler.Scale[i]
			if scale == 0 {
				scale = 1
			}
			x = (x - p.Scaler.Mean[i]) / scale
		}
		y += p.Coef[i] * x
	}

	if p.TargetTransform == TargetLog1p {
		y = math.Expm1(y)
	}
	return y, nil
}
