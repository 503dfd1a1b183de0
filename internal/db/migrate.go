package db

import (
	"fmt"

	"github.com/diewo77/go-library/internal/models"
	"gorm.io/gorm"
)

// Models lists every entity managed by Migrate.
func Models() []any {
	return []any{&models.Book{}, &models.Genre{}, &models.User{}}
}

// Migrate applies the GORM migrations.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("db: migrate: %w", err)
	}
	return nil
}
