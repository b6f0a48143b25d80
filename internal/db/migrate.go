package db

import (
	"fmt"

	"github.com/diewo77/jobtrack/internal/models"
	"gorm.io/gorm"
)

// Migrate applies the schema for all tracked models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Posting{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
