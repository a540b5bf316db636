package database

import (
	"fmt"

	"github.com/davydshcherba/ReBuild/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Exercise{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
