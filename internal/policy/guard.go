package policy

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/diewo77/go-library/gate"
	"github.com/diewo77/go-library/httpx"
	"github.com/diewo77/go-library/internal/logger"
	"github.com/rs/zerolog"
)

// Route declares one endpoint. Policies overrides the controller's list
// when non-nil; an empty non-nil slice leaves the route unprotected.
type Route struct {
	Method   string
	Pattern  string
	Handler  http.Handler
	Policies []gate.HandlerKey
}

// Controller groups routes under a path prefix with default policies.
type Controller struct {
	Prefix   string
	Policies []gate.HandlerKey
	Routes   []Route
}

// Effective returns the policy keys that apply to r.
func (c Controller) Effective(r Route) []gate.HandlerKey {
	if r.Policies != nil {
		return r.Policies
	}
	return c.Policies
}

// Guard runs policy handlers in front of controllers.
type Guard struct {
	registry *gate.Registry
	log      zerolog.Logger
}

func NewGuard(reg *gate.Registry, log zerolog.Logger) *Guard {
	return &Guard{registry: reg, log: logger.Component(log, "policy_guard")}
}

// Protect wraps next with the handlers registered under keys. Unknown keys
// are reported here, at wiring time. At request time the handlers run in
// order and the first failure ends the request.
func (g *Guard) Protect(keys []gate.HandlerKey, next http.Handler) (http.Handler, error) {
	handlers, err := g.registry.Resolve(keys...)
	if err != nil {
		return nil, err
	}
	if len(handlers) == 0 {
		return next, nil
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r = r.WithContext(gate.WithAbilityCache(r.Context()))
		for i, h := range handlers {
			err := h.Handle(r)
			if err == nil {
				continue
			}
			if errors.Is(err, gate.ErrForbidden) {
				httpx.JSONError(w, http.StatusForbidden, httpx.CodeForbidden, err.Error(), nil)
				return
			}
			g.log.Error().Err(err).
				Str("policy", string(keys[i])).
				Str("path", r.URL.Path).
				Msg("policy handler failed")
			httpx.JSONError(w, http.StatusInternalServerError, httpx.CodeInternal, "internal server error", nil)
			return
		}
		next.ServeHTTP(w, r)
	}), nil
}

// Mount registers every controller route on mux under prefix.
func (g *Guard) Mount(mux *http.ServeMux, prefix string, controllers ...Controller) error {
	for _, c := range controllers {
		for _, rt := range c.Routes {
			path := prefix + c.Prefix + rt.Pattern
			h, err := g.Protect(c.Effective(rt), rt.Handler)
			if err != nil {
				return fmt.Errorf("route %s %s: %w", rt.Method, path, err)
			}
			mux.Handle(rt.Method+" "+path, h)
		}
	}
	return nil
}
