package gate

import "context"

// Request is the part of an incoming request a Handler may read.
// *http.Request satisfies it.
type Request interface {
	Context() context.Context
	PathValue(name string) string
}

// HandlerKey identifies a Handler in a Registry, e.g. "book.update".
type HandlerKey string

// Handler is a per-endpoint authorization check. It returns nil to allow,
// a *DenialError to deny.
type Handler interface {
	Handle(req Request) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(req Request) error

func (f HandlerFunc) Handle(req Request) error { return f(req) }
