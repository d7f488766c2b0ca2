package models

import "time"

// Artifact load statuses.
const (
	LoadStatusLoaded = "loaded"
	LoadStatusFailed = "failed"
)

// ArtifactLoad records one attempt to load the model artifact at startup.
type ArtifactLoad struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Path         string    `gorm:"not null" json:"path"`
	SHA256       string    `gorm:"column:sha256" json:"sha256,omitempty"`
	Kind         string    `json:"kind,omitempty"`
	FeatureCount int       `json:"feature_count"`
	Status       string    `gorm:"index;not null" json:"status"`
	Error        string    `json:"error,omitempty"`
	LoadedAt     time.Time `gorm:"index" json:"loaded_at"`
}
