package main

import (
	"context"
	"net/http"

	"github.com/diewo77/go-library/auth"
	"github.com/diewo77/go-library/gate"
	"github.com/diewo77/go-library/httpx"
	"github.com/diewo77/go-library/internal/models"
	"github.com/diewo77/go-library/internal/policy"
	"github.com/diewo77/go-library/internal/repository"
	"github.com/rs/zerolog"
)

const apiPrefix = "/api/v1"

// App is the main application handler that sets up all routes.
type App struct {
	mux     *http.ServeMux
	handler http.Handler
}

// NewApp mounts every controller behind its policies. It fails when a route
// declares a policy key that was never registered.
func NewApp(rc *policy.RouterConfig, verifier auth.TokenVerifier, log zerolog.Logger) (*App, error) {
	app := &App{mux: http.NewServeMux()}
	if err := rc.Guard.Mount(app.mux, apiPrefix, controllers(rc)...); err != nil {
		return nil, err
	}
	app.handler = httpx.Chain(app.mux,
		httpx.RequestID(log),
		httpx.Recovery,
		httpx.AccessLog,
		auth.Middleware(verifier, currentUser(rc.Users)),
	)
	return app, nil
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// currentUser maps the token subject to the stored user.
func currentUser(users *repository.Users) auth.ResolveFunc[*models.User] {
	return func(ctx context.Context, subject string) (*models.User, error) {
		return users.GetOneByExternalID(ctx, subject)
	}
}

func controllers(rc *policy.RouterConfig) []policy.Controller {
	bh, gh, uh := rc.BookHandler, rc.GenreHandler, rc.UserHandler
	return []policy.Controller{
		{
			Prefix: "/health",
			Routes: []policy.Route{
				{Method: http.MethodGet, Handler: http.HandlerFunc(rc.HealthHandler.Check), Policies: []gate.HandlerKey{}},
			},
		},
		{
			Prefix:   "/book",
			Policies: []gate.HandlerKey{policy.BookRead},
			Routes: []policy.Route{
				{Method: http.MethodGet, Handler: http.HandlerFunc(bh.List)},
				{Method: http.MethodGet, Pattern: "/{id}", Handler: http.HandlerFunc(bh.Get)},
				{Method: http.MethodPost, Handler: http.HandlerFunc(bh.Create), Policies: []gate.HandlerKey{policy.BookCreate}},
				{Method: http.MethodPatch, Pattern: "/{id}", Handler: http.HandlerFunc(bh.Update), Policies: []gate.HandlerKey{policy.BookUpdate}},
				{Method: http.MethodDelete, Pattern: "/{id}", Handler: http.HandlerFunc(bh.Delete), Policies: []gate.HandlerKey{policy.BookDelete}},
			},
		},
		{
			Prefix:   "/genre",
			Policies: []gate.HandlerKey{policy.GenreRead},
			Routes: []policy.Route{
				{Method: http.MethodGet, Handler: http.HandlerFunc(gh.List)},
				{Method: http.MethodGet, Pattern: "/{id}", Handler: http.HandlerFunc(gh.Get)},
				{Method: http.MethodPost, Handler: http.HandlerFunc(gh.Create), Policies: []gate.HandlerKey{policy.GenreCreate}},
				{Method: http.MethodPatch, Pattern: "/{id}", Handler: http.HandlerFunc(gh.Update), Policies: []gate.HandlerKey{policy.GenreUpdate}},
				{Method: http.MethodDelete, Pattern: "/{id}", Handler: http.HandlerFunc(gh.Delete), Policies: []gate.HandlerKey{policy.GenreDelete}},
			},
		},
		{
			Prefix:   "/user",
			Policies: []gate.HandlerKey{policy.UserRead},
			Routes: []policy.Route{
				{Method: http.MethodGet, Handler: http.HandlerFunc(uh.List)},
				{Method: http.MethodGet, Pattern: "/me", Handler: http.HandlerFunc(uh.Me)},
				{Method: http.MethodGet, Pattern: "/{id}", Handler: http.HandlerFunc(uh.Get)},
				{Method: http.MethodPatch, Pattern: "/{id}", Handler: http.HandlerFunc(uh.Update), Policies: []gate.HandlerKey{policy.UserUpdate}},
				{Method: http.MethodDelete, Pattern: "/{id}", Handler: http.HandlerFunc(uh.Delete), Policies: []gate.HandlerKey{policy.UserDelete}},
			},
		},
	}
}
