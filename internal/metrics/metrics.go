package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tasador/server/internal/apperr"
	"tasador/server/internal/models"
)

const namespace = "price_predictor"

// Metrics holds the service collectors on a private registry.
type Metrics struct {
	registry      *prometheus.Registry
	predictions   *prometheus.CounterVec
	prices        prometheus.Histogram
	latency       prometheus.Histogram
	modelLoaded   prometheus.Gauge
	modelFeatures prometheus.Gauge
}

// New registers all collectors, including the Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Prediction requests by outcome.",
		}, []string{"outcome"}),
		prices: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "predicted_price",
			Help:      "Distribution of served prices.",
			Buckets:   prometheus.ExponentialBuckets(5000, 2, 12),
		}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prediction_duration_seconds",
			Help:      "Time spent in the prediction pipeline.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		modelLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "model_loaded",
			Help:      "1 when a model artifact is loaded.",
		}),
		modelFeatures: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "model_features",
			Help:      "Number of features in the loaded schema.",
		}),
	}

	m.registry.MustRegister(
		m.predictions,
		m.prices,
		m.latency,
		m.modelLoaded,
		m.modelFeatures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// SetModel records the readiness state.
func (m *Metrics) SetModel(loaded bool, features int) {
	if loaded {
		m.modelLoaded.Set(1)
	} else {
		m.modelLoaded.Set(0)
	}
	m.modelFeatures.Set(float64(features))
}

// Observe is an event handler updating the prediction collectors.
func (m *Metrics) Observe(event models.PredictionEvent) error {
	m.predictions.WithLabelValues(event.Outcome).Inc()
	m.latency.Observe(event.Duration.Seconds())
	if event.Outcome == string(apperr.KindNone) {
		m.prices.Observe(event.Price)
	}
	return nil
}
