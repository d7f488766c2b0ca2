package pipeline

import (
	"time"

	"github.com/sirupsen/logrus"

	"tasador/server/internal/apperr"
	"tasador/server/internal/artifact"
	"tasador/server/internal/features"
	"tasador/server/internal/models"
)

// Options are the per-process prediction settings.
type Options struct {
	Variant     models.SchemaVariant
	PriceFloor  float64
	Currency    string
	Diagnostics bool
}

// EventSink receives one diagnostic event per request. Push must not block.
type EventSink interface {
	Push(event models.PredictionEvent) error
}

// Predictor is the process-wide prediction context. It is built once at
// startup and shared read-only by every request; a nil model means the
// service stays unavailable for the life of the process.
type Predictor struct {
	model  *artifact.Model
	opts   Options
	sink   EventSink
	logger *logrus.Logger
	now    func() time.Time
}

// NewPredictor creates the prediction context. sink may be nil.
func NewPredictor(model *artifact.Model, opts Options, sink EventSink, logger *logrus.Logger) *Predictor {
	if logger == nil {
		logger = logrus.New()
	}
	if opts.Variant == "" {
		opts.Variant = models.VariantFull
	}
	if opts.Currency == "" {
		opts.Currency = "USD"
	}
	return &Predictor{
		model:  model,
		opts:   opts,
		sink:   sink,
		logger: logger,
		now:    time.Now,
	}
}

// Ready reports whether a model is loaded.
func (p *Predictor) Ready() bool {
	return p.model != nil
}

// Model returns the loaded model, or nil when unavailable.
func (p *Predictor) Model() *artifact.Model {
	return p.model
}

// Variant returns the request schema the predictor validates against.
func (p *Predictor) Variant() models.SchemaVariant {
	return p.opts.Variant
}

// Predict runs validation, alignment, inference and assembly for one request.
// When no model is loaded it fails with apperr.ErrUnavailable before touching
// the record.
func (p *Predictor) Predict(record models.PropertyRecord, meta models.RequestMeta) (*models.PredictionResult, error) {
	start := p.now()

	result, vector, err := p.predict(record, meta)

	event := models.PredictionEvent{
		RequestID: meta.RequestID,
		Outcome:   string(apperr.KindOf(err)),
		Duration:  p.now().Sub(start),
		At:        start,
	}
	if err != nil {
		event.Error = err.Error()
	} else {
		event.Price = result.Price
		event.ActiveFeatures = vector.Active()
	}
	p.emit(event)

	if err != nil {
		return nil, err
	}
	return result, nil
}

func (p *Predictor) predict(record models.PropertyRecord, meta models.RequestMeta) (*models.PredictionResult, features.Vector, error) {
	if !p.Ready() {
		return nil, features.Vector{}, apperr.ErrUnavailable
	}

	record, err := Validate(record, p.opts.Variant)
	if err != nil {
		return nil, features.Vector{}, err
	}

	vector, err := features.Align(record, p.model.Schema)
	if err != nil {
		return nil, features.Vector{}, err
	}

	price, err := Invoke(p.model.Estimator, vector, p.opts.PriceFloor)
	if err != nil {
		return nil, vector, err
	}

	result := Assemble(record, price, vector, meta, AssembleOptions{
		Currency:    p.opts.Currency,
		Diagnostics: p.opts.Diagnostics,
	})
	return &result, vector, nil
}

func (p *Predictor) emit(event models.PredictionEvent) {
	if p.sink == nil {
		return
	}
	if err := p.sink.Push(event); err != nil {
		p.logger.WithError(err).WithField("request_id", event.RequestID).Warn("Dropped prediction event")
	}
}
