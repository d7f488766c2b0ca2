package artifact

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"tasador/server/internal/apperr"
	"tasador/server/internal/features"
)

// Model is a loaded artifact: the fitted estimator and the feature schema it
// was trained on. It is built once and never modified.
type Model struct {
	Estimator Estimator
	Schema    features.Schema
	Path      string
	Digest    string
}

// Kind returns the estimator family.
func (m *Model) Kind() string {
	return m.Estimator.Kind()
}

type bundle struct {
	Features []string        `json:"features"`
	Model    json.RawMessage `json:"model"`
}

type modelHeader struct {
	Kind string `json:"kind"`
}

// Load reads the artifact bundle at path. A missing or undecodable file is a
// load error; a bundle whose schema or estimator is inconsistent is a
// configuration error.
func Load(path string, logger *logrus.Logger) (*Model, error) {
	if logger == nil {
		logger = logrus.New()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.Load("read artifact", err)
	}

	model, err := Decode(data)
	if err != nil {
		return nil, err
	}
	model.Path = path

	logger.WithFields(logrus.Fields{
		"path":     path,
		"features": model.Schema.Len(),
		"kind":     model.Kind(),
		"sha256":   model.Digest,
	}).Info("Model artifact loaded")

	return model, nil
}

// Decode parses a bundle held in memory. Gzip-compressed bundles are detected
// by their magic bytes.
func Decode(data []byte) (*Model, error) {
	digest := sha256.Sum256(data)

	raw, err := decompress(data)
	if err != nil {
		return nil, apperr.Load("decompress artifact", err)
	}

	var b bundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, apperr.Load("decode artifact", err)
	}
	if len(b.Model) == 0 {
		return nil, apperr.Load("decode artifact", errors.New("bundle has no model"))
	}

	schema, err := features.NewSchema(b.Features)
	if err != nil {
		return nil, err
	}

	estimator, err := decodeEstimator(b.Model, schema.Len())
	if err != nil {
		return nil, err
	}
	if got := estimator.NumFeatures(); got != schema.Len() {
		return nil, apperr.Configuration("check estimator",
			fmt.Errorf("%s estimator trained on %d features, schema has %d", estimator.Kind(), got, schema.Len()))
	}

	return &Model{
		Estimator: estimator,
		Schema:    schema,
		Digest:    hex.EncodeToString(digest[:]),
	}, nil
}

func decompress(data []byte) ([]byte, error) {
	if len(data) < 2 || data[0] != 0x1f || data[1] != 0x8b {
		return data, nil
	}
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

func decodeEstimator(raw json.RawMessage, n int) (Estimator, error) {
	var header modelHeader
	if err := json.Unmarshal(raw, &header); err != nil {
		return nil, apperr.Load("decode estimator", err)
	}

	switch header.Kind {
	case KindLinear:
		var p LinearPipeline
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, apperr.Load("decode linear pipeline", err)
		}
		if err := p.validate(n); err != nil {
			return nil, apperr.Configuration("linear pipeline", err)
		}
		return &p, nil

	case KindTreeEnsemble:
		var e TreeEnsemble
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, apperr.Load("decode tree ensemble", err)
		}
		if err := e.validate(n); err != nil {
			return nil, apperr.Configuration("tree ensemble", err)
		}
		return &e, nil

	default:
		return nil, apperr.Load("decode estimator", fmt.Errorf("unknown estimator kind %q", header.Kind))
	}
}
