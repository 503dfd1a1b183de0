package repository

import (
	"github.com/diewo77/go-library/internal/models"
	"gorm.io/gorm"
)

func NewGenres(db *gorm.DB) *Repository[models.Genre] {
	return New[models.Genre](db, "Genre")
}
