// Package policy binds the gate authorization core to the library domain:
// per-resource rule tables, per-endpoint policy handlers and the guard that
// runs them in front of controllers.
package policy

import (
	"github.com/diewo77/go-library/gate"
	"github.com/diewo77/go-library/internal/models"
)

// BookPermissions: everyone reads, admins manage.
var BookPermissions = gate.Definitions[*models.User]{
	models.RoleRegular: func(_ *models.User, b *gate.Builder) {
		b.Can(gate.ActionRead, models.KindBook)
	},
	models.RoleAdmin: func(_ *models.User, b *gate.Builder) {
		b.Can(gate.ActionManage, models.KindBook)
	},
}

// GenrePermissions: regular users may also rename genres.
var GenrePermissions = gate.Definitions[*models.User]{
	models.RoleRegular: func(_ *models.User, b *gate.Builder) {
		b.Can(gate.ActionRead, models.KindGenre)
		b.Can(gate.ActionUpdate, models.KindGenre)
	},
	models.RoleAdmin: func(_ *models.User, b *gate.Builder) {
		b.Can(gate.ActionManage, models.KindGenre)
		b.Can(gate.ActionUpdate, models.KindGenre)
	},
}

// UserPermissions: regular users update only their own account.
var UserPermissions = gate.Definitions[*models.User]{
	models.RoleRegular: func(user *models.User, b *gate.Builder) {
		b.Can(gate.ActionRead, models.KindUser)
		b.Can(gate.ActionUpdate, models.KindUser, gate.Fields{"id": user.ID})
	},
	models.RoleAdmin: func(_ *models.User, b *gate.Builder) {
		b.Can(gate.ActionManage, models.KindUser)
	},
}

// NewAuthorizer returns an authorizer over every resource table.
func NewAuthorizer() *gate.Authorizer[*models.User] {
	return gate.NewAuthorizer(gate.NewFactory(BookPermissions, GenrePermissions, UserPermissions))
}
