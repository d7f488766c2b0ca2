package api

import (
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"tasador/server/internal/apperr"
	"tasador/server/internal/models"
	"tasador/server/internal/pipeline"
)

// LoadHistory lists recorded artifact loads.
type LoadHistory interface {
	RecentLoads(limit int) ([]models.ArtifactLoad, error)
}

type Handler struct {
	predictor *pipeline.Predictor
	history   LoadHistory
	logger    *logrus.Logger
}

// NewHandler wires the HTTP handlers. history may be nil when the registry is disabled.
func NewHandler(predictor *pipeline.Predictor, history LoadHistory, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		predictor: predictor,
		history:   history,
		logger:    logger,
	}
}

// HealthCheck always answers 200 and reports whether a model is loaded
func (h *Handler) HealthCheck(c *gin.Context) {
	status := models.HealthStatus{
		Status:      "ok",
		ModelLoaded: h.predictor.Ready(),
	}
	if model := h.predictor.Model(); model != nil {
		status.Features = model.Schema.Len()
		status.ModelKind = model.Kind()
	}

	c.JSON(http.StatusOK, status)
}

// Predict runs the prediction pipeline for a JSON property description
func (h *Handler) Predict(c *gin.Context) {
	var record models.PropertyRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		h.writeError(c, apperr.Validation("invalid request body", err))
		return
	}

	meta := models.RequestMeta{
		RequestID: requestID(c),
		Origin:    c.ClientIP(),
	}

	result, err := h.predictor.Predict(record, meta)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetArtifactLoads lists recent artifact load attempts
func (h *Handler) GetArtifactLoads(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		limit = 10
	}

	if h.history == nil {
		c.JSON(http.StatusOK, []models.ArtifactLoad{})
		return
	}

	loads, err := h.history.RecentLoads(limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get artifact loads")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Detail: "Failed to get artifact loads"})
		return
	}

	c.JSON(http.StatusOK, loads)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status, detail := http.StatusInternalServerError, ""

	switch kind {
	case apperr.KindValidation:
		status, detail = http.StatusUnprocessableEntity, err.Error()
	case apperr.KindUnavailable:
		detail = "Model not available"
	case apperr.KindInference:
		detail = fmt.Sprintf("Prediction failed: %v", err)
	case apperr.KindConfiguration:
		detail = fmt.Sprintf("Model misconfigured: %v", err)
	default:
		h.logger.WithError(err).WithField("request_id", requestID(c)).Error("Unexpected prediction error")
		detail = "Internal error"
	}

	c.JSON(status, models.ErrorResponse{Detail: detail})
}
