package repository

import (
	"github.com/diewo77/go-library/internal/models"
	"gorm.io/gorm"
)

func NewBooks(db *gorm.DB) *Repository[models.Book] {
	return New[models.Book](db, "Book")
}
