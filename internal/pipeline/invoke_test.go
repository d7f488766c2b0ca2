package pipeline

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"tasador/server/internal/apperr"
	"tasador/server/internal/features"
	"tasador/server/internal/models"
)

// constEstimator always predicts the same value.
type constEstimator float64

func (c constEstimator) Predict([]float64) (float64, error) { return float64(c), nil }
func (c constEstimator) Kind() string                       { return "const" }
func (c constEstimator) NumFeatures() int                   { return 1 }

type panicEstimator struct{}

func (panicEstimator) Predict([]float64) (float64, error) { panic("index out of range [7] with length 6") }
func (panicEstimator) Kind() string                       { return "panic" }
func (panicEstimator) NumFeatures() int                   { return 1 }

func singleColumnVector(t *testing.T) features.Vector {
	t.Helper()
	schema, err := features.NewSchema([]string{"bedrooms"})
	require.NoError(t, err)
	v, err := features.Align(models.PropertyRecord{Bedrooms: ptr(2)}, schema)
	require.NoError(t, err)
	return v
}

func TestInvoke_Rounding(t *testing.T) {
	price, err := Invoke(constEstimator(123456.789), singleColumnVector(t), DefaultPriceFloor)
	require.NoError(t, err)
	assert.Equal(t, 123456.79, price)
}

func TestInvoke_SafetyFloor(t *testing.T) {
	tests := []struct {
		name  string
		raw   float64
		floor float64
		want  float64
	}{
		{name: "negative extrapolation", raw: -25000, floor: DefaultPriceFloor, want: 5000},
		{name: "just below", raw: 4999.999, floor: DefaultPriceFloor, want: 5000},
		{name: "at floor", raw: 5000, floor: DefaultPriceFloor, want: 5000},
		{name: "above", raw: 5000.004, floor: DefaultPriceFloor, want: 5000},
		{name: "typical", raw: 98765.4321, floor: DefaultPriceFloor, want: 98765.43},
		{name: "sub-cent floor", raw: 100, floor: 5000.004, want: 5000.01},
		{name: "raw rounds under sub-cent floor", raw: 5000.003, floor: 5000.004, want: 5000.01},
		{name: "raw above sub-cent floor", raw: 5000.02, floor: 5000.004, want: 5000.02},
		{name: "zero floor", raw: -3, floor: 0, want: 0},
	}

	v := singleColumnVector(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, err := Invoke(constEstimator(tt.raw), v, tt.floor)
			require.NoError(t, err)
			assert.Equal(t, tt.want, price)
			assert.GreaterOrEqual(t, price, tt.floor)
		})
	}
}

func TestInvoke_FloorProperty(t *testing.T) {
	v := singleColumnVector(t)
	rapid.Check(t, func(t *rapid.T) {
		raw := rapid.Float64Range(-1e9, 1e9).Draw(t, "raw")
		price, err := Invoke(constEstimator(raw), v, DefaultPriceFloor)
		if err != nil {
			t.Fatalf("invoke: %v", err)
		}
		if price < DefaultPriceFloor {
			t.Fatalf("price %v below floor for raw %v", price, raw)
		}
	})
}

func TestInvoke_ArbitraryFloorProperty(t *testing.T) {
	v := singleColumnVector(t)
	rapid.Check(t, func(t *rapid.T) {
		raw := rapid.Float64Range(-1e6, 1e6).Draw(t, "raw")
		floor := rapid.Float64Range(0, 1e6).Draw(t, "floor")
		price, err := Invoke(constEstimator(raw), v, floor)
		if err != nil {
			t.Fatalf("invoke: %v", err)
		}
		if price < floor {
			t.Fatalf("price %v below floor %v for raw %v", price, floor, raw)
		}
	})
}

func TestInvoke_EstimatorError(t *testing.T) {
	est := &MockEstimator{}
	est.On("Predict", mock.Anything).Return(0.0, errors.New("feature_names mismatch"))

	_, err := Invoke(est, singleColumnVector(t), DefaultPriceFloor)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInference))
	assert.Contains(t, err.Error(), "feature_names mismatch")
}

func TestInvoke_RecoversPanic(t *testing.T) {
	price, err := Invoke(panicEstimator{}, singleColumnVector(t), DefaultPriceFloor)
	require.Error(t, err)
	assert.Zero(t, price)
	assert.True(t, apperr.Is(err, apperr.KindInference))
	assert.Contains(t, err.Error(), "index out of range")
}

func TestInvoke_NonFinite(t *testing.T) {
	for _, raw := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := Invoke(constEstimator(raw), singleColumnVector(t), DefaultPriceFloor)
		assert.True(t, apperr.Is(err, apperr.KindInference))
	}
}

func TestRound(t *testing.T) {
	assert.Equal(t, 123456.79, Round(123456.789))
	assert.Equal(t, 0.13, Round(0.125))
	assert.Equal(t, 100.0, Round(99.999))
	assert.Equal(t, 5000.0, Round(5000))
}

func TestAssemble(t *testing.T) {
	schema, err := features.NewSchema([]string{"rooms", "property_type_Casa"})
	require.NoError(t, err)
	record := models.PropertyRecord{
		L2:           ptr("Bs.As. G.B.A. Zona Sur"),
		PropertyType: ptr("Casa"),
		Rooms:        ptr(4),
	}
	v, err := features.Align(record, schema)
	require.NoError(t, err)

	result := Assemble(record, 150000, v, models.RequestMeta{Origin: "192.0.2.10"}, AssembleOptions{Currency: "USD", Diagnostics: true})
	assert.Equal(t, models.PredictionResult{
		Price:          150000,
		Currency:       "USD",
		Label:          "Casa en Bs.As. G.B.A. Zona Sur",
		ActiveFeatures: []string{"rooms", "property_type_Casa"},
		Origin:         "192.0.2.10",
	}, result)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "PH en Capital Federal", Label(models.PropertyRecord{L2: ptr("Capital Federal"), PropertyType: ptr("PH")}))
	assert.Equal(t, "Propiedad en Capital Federal", Label(models.PropertyRecord{L2: ptr("Capital Federal")}))
	assert.Equal(t, "Propiedad en Capital Federal", Label(models.PropertyRecord{L2: ptr("Capital Federal"), PropertyType: ptr("")}))
}
