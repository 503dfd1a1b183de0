package gate

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the package.
var (
	ErrForbidden                = errors.New("forbidden")
	ErrHandlerNotRegistered     = errors.New("policy handler not registered")
	ErrHandlerAlreadyRegistered = errors.New("policy handler already registered")
)

// DenialError is returned by a Handler when the current user may not perform
// Action. It matches ErrForbidden with errors.Is.
type DenialError struct {
	Action Action
}

// Deny builds the denial for action.
func Deny(action Action) *DenialError {
	return &DenialError{Action: action}
}

func (e *DenialError) Error() string {
	return fmt.Sprintf("You are not allowed to %s this resource", e.Action.Upper())
}

func (e *DenialError) Is(target error) bool {
	return target == ErrForbidden
}
