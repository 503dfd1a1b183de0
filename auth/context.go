package auth

import "context"

type userKey struct{}

// WithUser stores the authenticated user in ctx.
func WithUser(ctx context.Context, user any) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFrom returns the user stored by WithUser, if it has type T.
// An anonymous request yields the zero value and false.
func UserFrom[T any](ctx context.Context) (T, bool) {
	u, ok := ctx.Value(userKey{}).(T)
	return u, ok
}
