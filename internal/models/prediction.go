package models

import "time"

// PredictionResult is the response payload for a successful prediction.
type PredictionResult struct {
	Price          float64  `json:"precio_predicho"`
	Currency       string   `json:"moneda"`
	Label          string   `json:"propiedad"`
	ActiveFeatures []string `json:"features_usadas,omitempty"`
	Origin         string   `json:"origen,omitempty"`
}

// RequestMeta is supplied by the HTTP boundary alongside each record.
type RequestMeta struct {
	RequestID string
	Origin    string
}

// HealthStatus is served by the health endpoint.
type HealthStatus struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
	Features    int    `json:"features,omitempty"`
	ModelKind   string `json:"model_kind,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// PredictionEvent is a diagnostic record emitted once per prediction request.
// It is consumed by log and metrics subscribers and never stored.
type PredictionEvent struct {
	RequestID      string
	Outcome        string
	Price          float64
	ActiveFeatures []string
	Error          string
	Duration       time.Duration
	At             time.Time
}
