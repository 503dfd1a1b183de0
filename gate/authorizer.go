package gate

import "context"

// Authorizer answers "may user perform action on subject".
// U is the user type (e.g. *User); its zero value is the anonymous user.
type Authorizer[U Principal] struct {
	factory *Factory[U]
}

// NewAuthorizer creates an Authorizer backed by factory.
func NewAuthorizer[U Principal](factory *Factory[U]) *Authorizer[U] {
	return &Authorizer[U]{factory: factory}
}

// IsAllowed returns false for a missing user, an unknown action or a missing
// subject. Otherwise it builds the user's ability and asks it.
func (a *Authorizer[U]) IsAllowed(user U, action Action, subject Subject) bool {
	if !validInput(user, action, subject) {
		return false
	}
	return a.factory.Build(user).Can(action, subject)
}

// Allowed is IsAllowed with the ability taken from the request-scoped cache
// in ctx, when one was installed with WithAbilityCache.
func (a *Authorizer[U]) Allowed(ctx context.Context, user U, action Action, subject Subject) bool {
	if !validInput(user, action, subject) {
		return false
	}
	return a.Ability(ctx, user).Can(action, subject)
}

// Ability returns the compiled ability for user, memoized per request.
func (a *Authorizer[U]) Ability(ctx context.Context, user U) *Ability {
	c := cacheFrom(ctx)
	if c == nil {
		return a.factory.Build(user)
	}
	if ab, ok := c.get(user); ok {
		return ab
	}
	ab := a.factory.Build(user)
	c.set(user, ab)
	return ab
}

func validInput[U Principal](user U, action Action, subject Subject) bool {
	var zero U
	if user == zero || !action.Valid() || subject == nil {
		return false
	}
	return subject.Kind() != ""
}
