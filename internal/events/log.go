package events

import (
	"github.com/sirupsen/logrus"

	"tasador/server/internal/apperr"
	"tasador/server/internal/models"
)

// LogHandler writes each event as a structured log entry. Successful
// predictions are logged at debug level with the active features.
func LogHandler(logger *logrus.Logger) Handler {
	return func(event models.PredictionEvent) error {
		entry := logger.WithFields(logrus.Fields{
			"request_id":  event.RequestID,
			"outcome":     event.Outcome,
			"duration_ms": float64(event.Duration.Microseconds()) / 1000,
		})

		switch apperr.Kind(event.Outcome) {
		case apperr.KindNone:
			entry.WithFields(logrus.Fields{
				"price":           event.Price,
				"active_features": event.ActiveFeatures,
			}).Debug("Prediction served")
		case apperr.KindValidation:
			entry.WithField("error", event.Error).Info("Prediction rejected")
		default:
			entry.WithField("error", event.Error).Error("Prediction failed")
		}
		return nil
	}
}
