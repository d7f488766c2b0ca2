package config

import (
	"fmt"
	"path/filepath"

	"github.com/caarlos0/env/v6"
	"github.com/sirupsen/logrus"

	"tasador/server/internal/models"
)

type Config struct {
	Server struct {
		// Port the HTTP server listens on
		Port string `env:"SERVER_PORT" envDefault:"5250"`

		// Origins allowed by CORS, "*" allows all
		AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

		// Proxies whose X-Forwarded-For is trusted, empty trusts none
		TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
	}

	Model struct {
		// Base directory relative model paths are resolved against
		TaskRoot string `env:"LAMBDA_TASK_ROOT" envDefault:"."`

		// Location of the artifact bundle
		Path string `env:"MODEL_PATH" envDefault:"model/xgb_price_predictor_v1.json"`
	}

	Prediction struct {
		// Lowest price ever returned
		PriceFloor float64 `env:"PRICE_FLOOR" envDefault:"5000"`

		Currency string `env:"CURRENCY" envDefault:"USD"`

		// Request schema revision, "full" or "reduced"
		SchemaVariant string `env:"SCHEMA_VARIANT" envDefault:"full"`

		// Attach active features and origin to responses
		DebugFeatures bool `env:"DEBUG_FEATURES" envDefault:"true"`
	}

	Logging struct {
		Level  string `env:"LOG_LEVEL" envDefault:"info"`
		Format string `env:"LOG_FORMAT" envDefault:"json"`
	}

	Registry struct {
		// Sqlite file recording artifact loads, empty disables the registry
		Path string `env:"REGISTRY_PATH"`
	}

	Events struct {
		// Capacity of the diagnostic event queue
		BufferSize int `env:"EVENT_BUFFER_SIZE" envDefault:"256"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT must not be empty")
	}
	if c.Prediction.PriceFloor < 0 {
		return fmt.Errorf("PRICE_FLOOR must not be negative, got %v", c.Prediction.PriceFloor)
	}
	if _, err := models.ParseSchemaVariant(c.Prediction.SchemaVariant); err != nil {
		return fmt.Errorf("SCHEMA_VARIANT: %w", err)
	}
	if c.Events.BufferSize <= 0 {
		return fmt.Errorf("EVENT_BUFFER_SIZE must be positive, got %d", c.Events.BufferSize)
	}
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.Logging.Format)
	}
	return nil
}

// ArtifactPath resolves the model path against the task root.
func (c *Config) ArtifactPath() string {
	if filepath.IsAbs(c.Model.Path) {
		return c.Model.Path
	}
	return filepath.Join(c.Model.TaskRoot, c.Model.Path)
}

// Variant returns the parsed request schema variant.
func (c *Config) Variant() models.SchemaVariant {
	v, err := models.ParseSchemaVariant(c.Prediction.SchemaVariant)
	if err != nil {
		return models.VariantFull
	}
	return v
}

// NewLogger builds the process logger from the logging settings.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	if c.Logging.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if level, err := logrus.ParseLevel(c.Logging.Level); err == nil {
		logger.SetLevel(level)
	}
	return logger
}
