package database

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tasador/server/internal/models"
)

// Database records artifact load attempts. Prediction results are never stored here.
type Database struct {
	db *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open registry: %w", err)
	}

	// A single connection keeps sqlite writes serialized
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get registry connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return &Database{db: db}, nil
}

// RecordLoad stores one load attempt
func (d *Database) RecordLoad(load *models.ArtifactLoad) error {
	if load.LoadedAt.IsZero() {
		load.LoadedAt = time.Now().UTC()
	}
	if err := d.db.Create(load).Error; err != nil {
		return fmt.Errorf("failed to record artifact load: %w", err)
	}
	return nil
}

// RecentLoads returns the newest load attempts first
func (d *Database) RecentLoads(limit int) ([]models.ArtifactLoad, error) {
	if limit <= 0 {
		limit = 10
	}

	var loads []models.ArtifactLoad
	err := d.db.Order("loaded_at DESC").Order("id DESC").Limit(limit).Find(&loads).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query artifact loads: %w", err)
	}
	return loads, nil
}

// LastSuccessfulLoad returns the most recent successful load, or nil if none
func (d *Database) LastSuccessfulLoad() (*models.ArtifactLoad, error) {
	var load models.ArtifactLoad
	result := d.db.Where("status = ?", models.LoadStatusLoaded).
		Order("loaded_at DESC").Order("id DESC").
		Limit(1).Find(&load)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to query artifact loads: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &load, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
