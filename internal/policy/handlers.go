package policy

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/diewo77/go-library/auth"
	"github.com/diewo77/go-library/gate"
	"github.com/diewo77/go-library/internal/models"
	"github.com/rs/zerolog"
)

// Handler keys declared by routes.
const (
	BookCreate gate.HandlerKey = "book.create"
	BookRead   gate.HandlerKey = "book.read"
	BookUpdate gate.HandlerKey = "book.update"
	BookDelete gate.HandlerKey = "book.delete"

	GenreCreate gate.HandlerKey = "genre.create"
	GenreRead   gate.HandlerKey = "genre.read"
	GenreUpdate gate.HandlerKey = "genre.update"
	GenreDelete gate.HandlerKey = "genre.delete"

	UserCreate gate.HandlerKey = "user.create"
	UserRead   gate.HandlerKey = "user.read"
	UserUpdate gate.HandlerKey = "user.update"
	UserDelete gate.HandlerKey = "user.delete"
)

// Key builds the handler key of action on kind, e.g. "book.update".
func Key(kind gate.SubjectType, action gate.Action) gate.HandlerKey {
	return gate.HandlerKey(strings.ToLower(string(kind)) + "." + string(action))
}

// Finder loads the instance with id. It returns a nil Subject when there is
// none.
type Finder func(ctx context.Context, id uint) (gate.Subject, error)

// Lookup adapts a repository getter to a Finder. A missing entity becomes a
// nil interface, never a typed nil.
func Lookup[T any, P interface {
	*T
	gate.Subject
}](get func(context.Context, uint) (*T, error)) Finder {
	return func(ctx context.Context, id uint) (gate.Subject, error) {
		e, err := get(ctx, id)
		if err != nil || e == nil {
			return nil, err
		}
		return P(e), nil
	}
}

// Authorizer is the decision service the handlers consult.
type Authorizer = gate.Authorizer[*models.User]

// TypeHandler checks action against the bare subject type. It backs the
// create and read endpoints, which have no instance to inspect.
type TypeHandler struct {
	authz  *Authorizer
	kind   gate.SubjectType
	action gate.Action
}

func (h *TypeHandler) Handle(req gate.Request) error {
	ctx := req.Context()
	user, _ := auth.UserFrom[*models.User](ctx)
	if !h.authz.Allowed(ctx, user, h.action, h.kind) {
		return gate.Deny(h.action)
	}
	return nil
}

// InstanceHandler checks action against the entity named by the "id" path
// value. When the id is missing or invalid, or the entity cannot be loaded,
// it falls back to the bare type, which conditional grants never satisfy.
type InstanceHandler struct {
	authz  *Authorizer
	kind   gate.SubjectType
	action gate.Action
	find   Finder
}

func (h *InstanceHandler) Handle(req gate.Request) error {
	ctx := req.Context()
	user, _ := auth.UserFrom[*models.User](ctx)
	if user == nil {
		return gate.Deny(h.action)
	}
	if !h.authz.Allowed(ctx, user, h.action, h.subject(ctx, req.PathValue("id"))) {
		return gate.Deny(h.action)
	}
	return nil
}

func (h *InstanceHandler) subject(ctx context.Context, rawID string) gate.Subject {
	id, err := strconv.ParseUint(rawID, 10, 0)
	if err != nil || id == 0 {
		return h.kind
	}
	s, err := h.find(ctx, uint(id))
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).
			Str("kind", string(h.kind)).
			Uint64("id", id).
			Msg("policy lookup failed, checking type")
		return h.kind
	}
	if s == nil {
		return h.kind
	}
	return s
}

// NewCreateHandler registers the create check for kind.
func NewCreateHandler(reg *gate.Registry, authz *Authorizer, kind gate.SubjectType) (*TypeHandler, error) {
	h := &TypeHandler{authz: authz, kind: kind, action: gate.ActionCreate}
	return h, register(reg, kind, h.action, h)
}

// NewReadHandler registers the read check for kind.
func NewReadHandler(reg *gate.Registry, authz *Authorizer, kind gate.SubjectType) (*TypeHandler, error) {
	h := &TypeHandler{authz: authz, kind: kind, action: gate.ActionRead}
	return h, register(reg, kind, h.action, h)
}

// NewUpdateHandler registers the update check for kind.
func NewUpdateHandler(reg *gate.Registry, authz *Authorizer, kind gate.SubjectType, find Finder) (*InstanceHandler, error) {
	h := &InstanceHandler{authz: authz, kind: kind, action: gate.ActionUpdate, find: find}
	return h, register(reg, kind, h.action, h)
}

// NewDeleteHandler registers the delete check for kind.
func NewDeleteHandler(reg *gate.Registry, authz *Authorizer, kind gate.SubjectType, find Finder) (*InstanceHandler, error) {
	h := &InstanceHandler{authz: authz, kind: kind, action: gate.ActionDelete, find: find}
	return h, register(reg, kind, h.action, h)
}

// RegisterHandlers registers the four CRUD checks of one resource.
func RegisterHandlers(reg *gate.Registry, authz *Authorizer, kind gate.SubjectType, find Finder) error {
	if _, err := NewCreateHandler(reg, authz, kind); err != nil {
		return err
	}
	if _, err := NewReadHandler(reg, authz, kind); err != nil {
		return err
	}
	if _, err := NewUpdateHandler(reg, authz, kind, find); err != nil {
		return err
	}
	if _, err := NewDeleteHandler(reg, authz, kind, find); err != nil {
		return err
	}
	return nil
}

func register(reg *gate.Registry, kind gate.SubjectType, action gate.Action, h gate.Handler) error {
	if err := reg.Register(Key(kind, action), h); err != nil {
		return fmt.Errorf("policy: %w", err)
	}
	return nil
}
