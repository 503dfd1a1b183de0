package models

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/diewo77/go-library/gate"
)

// Application roles.
const (
	RoleRegular gate.Role = "regular"
	RoleAdmin   gate.Role = "admin"
)

// User represents an account known to the identity provider.
// ExternalID is the provider's subject identifier (the token "sub").
type User struct {
	Base
	Username   string  `gorm:"uniqueIndex;size:255;not null" json:"username"`
	ExternalID *string `gorm:"uniqueIndex;size:255" json:"externalId,omitempty"`
	Roles      Roles   `gorm:"type:varchar(255);not null" json:"roles"`
	IsVerified bool    `gorm:"not null;default:false" json:"isVerified"`
}

func (*User) Kind() gate.SubjectType { return KindUser }

// RoleList implements gate.Principal.
func (u *User) RoleList() []gate.Role { return u.Roles }

func (u *User) HasRole(role gate.Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (u *User) Attr(name string) (any, bool) {
	switch name {
	case "username":
		return u.Username, true
	case "externalId":
		if u.ExternalID == nil {
			return nil, true
		}
		return *u.ExternalID, true
	case "isVerified":
		return u.IsVerified, true
	}
	return u.baseAttr(name)
}

// Roles is stored as a comma separated column.
type Roles []gate.Role

// Value implements driver.Valuer.
func (r Roles) Value() (driver.Value, error) {
	parts := make([]string, len(r))
	for i, role := range r {
		parts[i] = string(role)
	}
	return strings.Join(parts, ","), nil
}

// Scan implements sql.Scanner.
func (r *Roles) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case nil:
		*r = nil
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("models: cannot scan %T into Roles", src)
	}
	*r = ParseRoles(s)
	return nil
}

// ParseRoles splits a comma separated role list, ignoring blanks.
func ParseRoles(s string) Roles {
	var out Roles
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, gate.Role(p))
		}
	}
	return out
}
