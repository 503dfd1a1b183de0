package repository

import (
	"context"

	"github.com/diewo77/go-library/internal/models"
	"gorm.io/gorm"
)

// Users adds identity lookups to the user repository.
type Users struct {
	*Repository[models.User]
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{Repository: New[models.User](db, "User")}
}

// GetOneByExternalID finds the user the identity provider knows as sub.
// It returns nil when there is none.
func (u *Users) GetOneByExternalID(ctx context.Context, sub string) (*models.User, error) {
	return u.first(ctx, "external_id = ?", sub)
}

// GetOneByUsername returns nil when there is no such user.
func (u *Users) GetOneByUsername(ctx context.Context, username string) (*models.User, error) {
	return u.first(ctx, "username = ?", username)
}
