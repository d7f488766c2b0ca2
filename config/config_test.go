package config

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasador/server/internal/models"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "5250", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 5000.0, cfg.Prediction.PriceFloor)
	assert.Equal(t, "USD", cfg.Prediction.Currency)
	assert.True(t, cfg.Prediction.DebugFeatures)
	assert.Equal(t, models.VariantFull, cfg.Variant())
	assert.Empty(t, cfg.Registry.Path)
	assert.Empty(t, cfg.Server.TrustedProxies)
	assert.Equal(t, 256, cfg.Events.BufferSize)
	assert.Equal(t, filepath.Join(".", "model", "xgb_price_predictor_v1.json"), cfg.ArtifactPath())
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("LAMBDA_TASK_ROOT", "/var/task")
	t.Setenv("MODEL_PATH", "model/linear.json")
	t.Setenv("PRICE_FLOOR", "7500.5")
	t.Setenv("SCHEMA_VARIANT", "reduced")
	t.Setenv("DEBUG_FEATURES", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1,10.0.0.2")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "/var/task/model/linear.json", cfg.ArtifactPath())
	assert.Equal(t, 7500.5, cfg.Prediction.PriceFloor)
	assert.Equal(t, models.VariantReduced, cfg.Variant())
	assert.False(t, cfg.Prediction.DebugFeatures)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.Server.TrustedProxies)

	logger := cfg.NewLogger()
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}

func TestLoadConfig_AbsoluteModelPath(t *testing.T) {
	t.Setenv("LAMBDA_TASK_ROOT", "/var/task")
	t.Setenv("MODEL_PATH", "/opt/models/xgb.json")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/opt/models/xgb.json", cfg.ArtifactPath())
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "negative floor", key: "PRICE_FLOOR", value: "-1"},
		{name: "floor not a number", key: "PRICE_FLOOR", value: "cheap"},
		{name: "unknown variant", key: "SCHEMA_VARIANT", value: "v3"},
		{name: "bad log level", key: "LOG_LEVEL", value: "loud"},
		{name: "bad log format", key: "LOG_FORMAT", value: "xml"},
		{name: "empty buffer", key: "EVENT_BUFFER_SIZE", value: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
