package database

import "tasador/server/internal/models"

func (d *Database) RunMigrations() error {
	return d.db.AutoMigrate(&models.ArtifactLoad{})
}
