package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"tasador/server/config"
	"tasador/server/internal/api"
	"tasador/server/internal/artifact"
	"tasador/server/internal/database"
	"tasador/server/internal/events"
	"tasador/server/internal/metrics"
	"tasador/server/internal/models"
	"tasador/server/internal/pipeline"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	logger := cfg.NewLogger()
	logger.SetOutput(os.Stdout)

	m := metrics.New()

	// Diagnostic events are handled off the request path
	queue := events.NewQueue(cfg.Events.BufferSize, logger)
	queue.Subscribe(events.LogHandler(logger))
	queue.Subscribe(m.Observe)
	queue.Start()
	defer queue.Close()

	var registry *database.Database
	if cfg.Registry.Path != "" {
		registry, err = openRegistry(cfg.Registry.Path, logger)
		if err != nil {
			logger.WithError(err).Error("Artifact registry disabled")
			registry = nil
		} else {
			defer registry.Close()
		}
	}

	// The model is loaded exactly once. On failure the service keeps running
	// and reports model_loaded=false on the health endpoint.
	artifactPath := cfg.ArtifactPath()
	logger.Infof("Loading model artifact from: %s", artifactPath)
	model, err := artifact.Load(artifactPath, logger)
	if err != nil {
		logger.WithError(err).Error("Model artifact unavailable, serving in degraded mode")
		model = nil
	}
	recordLoad(registry, artifactPath, model, err, logger)

	if model != nil {
		m.SetModel(true, model.Schema.Len())
	} else {
		m.SetModel(false, 0)
	}

	predictor := pipeline.NewPredictor(model, pipeline.Options{
		Variant:     cfg.Variant(),
		PriceFloor:  cfg.Prediction.PriceFloor,
		Currency:    cfg.Prediction.Currency,
		Diagnostics: cfg.Prediction.DebugFeatures,
	}, queue, logger)

	var history api.LoadHistory
	if registry != nil {
		history = registry
	}
	handler := api.NewHandler(predictor, history, logger)

	gin.SetMode(gin.ReleaseMode)
	router, err := api.NewRouter(cfg.Server.TrustedProxies, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create router")
	}
	api.SetupRoutes(router, handler, m.Handler(), cfg.Server.AllowedOrigins, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.WithFields(logrus.Fields{
			"port":         cfg.Server.Port,
			"model_loaded": predictor.Ready(),
			"variant":      predictor.Variant(),
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Graceful shutdown failed")
	}
}

func openRegistry(path string, logger *logrus.Logger) (*database.Database, error) {
	logger.Infof("Using artifact registry at: %s", path)

	db, err := database.NewDatabase(path)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func recordLoad(registry *database.Database, path string, model *artifact.Model, loadErr error, logger *logrus.Logger) {
	if registry == nil {
		return
	}

	load := &models.ArtifactLoad{Path: path, Status: models.LoadStatusLoaded}
	if loadErr != nil {
		load.Status = models.LoadStatusFailed
		load.Error = loadErr.Error()
	} else {
		load.SHA256 = model.Digest
		load.Kind = model.Kind()
		load.FeatureCount = model.Schema.Len()

		previous, err := registry.LastSuccessfulLoad()
		if err != nil {
			logger.WithError(err).Warn("Failed to read previous artifact load")
		} else if previous != nil && previous.SHA256 != model.Digest {
			logger.WithFields(logrus.Fields{
				"previous_sha256": previous.SHA256,
				"previous_at":     previous.LoadedAt,
				"sha256":          model.Digest,
			}).Info("Model artifact changed since last successful load")
		}
	}

	if err := registry.RecordLoad(load); err != nil {
		logger.WithError(err).Error("Failed to record artifact load")
	}
}
