package policy

import (
	"fmt"
	"time"

	"github.com/diewo77/go-library/gate"
	"github.com/diewo77/go-library/internal/handlers"
	"github.com/diewo77/go-library/internal/models"
	"github.com/diewo77/go-library/internal/repository"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// RouterConfig holds the configured authorization pieces, repositories and
// controllers of the application.
type RouterConfig struct {
	Registry   *gate.Registry
	Authorizer *Authorizer
	Guard      *Guard

	Users *repository.Users

	HealthHandler *handlers.HealthHandler
	BookHandler   *handlers.BookHandler
	GenreHandler  *handlers.GenreHandler
	UserHandler   *handlers.UserHandler
}

// NewRouterConfig wires the policy registry and the controllers. Policy
// handlers are registered here, so every key a route may declare exists
// once this returns.
func NewRouterConfig(db *gorm.DB, log zerolog.Logger, started time.Time) (*RouterConfig, error) {
	books := repository.NewBooks(db)
	genres := repository.NewGenres(db)
	users := repository.NewUsers(db)

	reg := gate.NewRegistry()
	authz := NewAuthorizer()

	resources := []struct {
		kind gate.SubjectType
		find Finder
	}{
		{models.KindBook, Lookup(books.GetOneByID)},
		{models.KindGenre, Lookup(genres.GetOneByID)},
		{models.KindUser, Lookup(users.GetOneByID)},
	}
	for _, res := range resources {
		if err := RegisterHandlers(reg, authz, res.kind, res.find); err != nil {
			return nil, fmt.Errorf("register %s policies: %w", res.kind, err)
		}
	}

	return &RouterConfig{
		Registry:      reg,
		Authorizer:    authz,
		Guard:         NewGuard(reg, log),
		Users:         users,
		HealthHandler: handlers.NewHealthHandler(started),
		BookHandler:   handlers.NewBookHandler(books),
		GenreHandler:  handlers.NewGenreHandler(genres),
		UserHandler:   handlers.NewUserHandler(users),
	}, nil
}
