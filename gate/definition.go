package gate

// Role is a tag attached to a user that selects rule functions.
type Role string

// Principal is the constraint for user types. The zero value means "no user".
type Principal interface {
	comparable
	RoleList() []Role
}

// DefineFunc records the grants one role gives user.
type DefineFunc[U any] func(user U, b *Builder)

// Definitions maps roles to their rule function for one resource.
// Roles without an entry contribute nothing.
type Definitions[U any] map[Role]DefineFunc[U]

// Factory builds abilities from a fixed set of Definitions.
type Factory[U Principal] struct {
	defs []Definitions[U]
}

// NewFactory creates a Factory over the given per-resource definitions.
// The definitions must not be mutated afterwards.
func NewFactory[U Principal](defs ...Definitions[U]) *Factory[U] {
	return &Factory[U]{defs: defs}
}

// Build compiles the union of grants of every role the user holds.
// A zero user gets an empty Ability.
func (f *Factory[U]) Build(user U) *Ability {
	b := NewBuilder()
	var zero U
	if user == zero {
		return b.Build()
	}
	for _, role := range user.RoleList() {
		for _, d := range f.defs {
			if fn, ok := d[role]; ok {
				fn(user, b)
			}
		}
	}
	return b.Build()
}
