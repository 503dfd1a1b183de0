package gate

import "strings"

// Action describes the kind of operation a user wants to perform.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"

	// ActionManage is the wildcard: it covers every other action.
	ActionManage Action = "manage"
)

// Actions lists the concrete actions covered by ActionManage.
var Actions = []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}

// Valid reports whether a belongs to the closed set of actions.
func (a Action) Valid() bool {
	switch a {
	case ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionManage:
		return true
	}
	return false
}

// Covers reports whether a grant for a satisfies a request for requested.
func (a Action) Covers(requested Action) bool {
	return a == requested || a == ActionManage
}

// Upper returns the action name in upper case, as used in denial messages.
func (a Action) Upper() string {
	return strings.ToUpper(string(a))
}
