package models

import (
	"testing"

	"github.com/diewo77/go-library/gate"
)

func TestKinds(t *testing.T) {
	tests := []struct {
		name    string
		subject gate.Subject
		want    gate.SubjectType
	}{
		{"book", &Book{}, KindBook},
		{"genre", &Genre{}, KindGenre},
		{"user", &User{}, KindUser},
		{"nil book pointer", (*Book)(nil), KindBook},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.subject.Kind(); got != tt.want {
				t.Errorf("Kind() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestUser_Attr(t *testing.T) {
	ext := "sub-1"
	u := &User{Base: Base{ID: 7}, Username: "ana", ExternalID: &ext}

	if v, ok := u.Attr("id"); !ok || v != uint(7) {
		t.Errorf("Attr(id) = %v, %v", v, ok)
	}
	if v, ok := u.Attr("username"); !ok || v != "ana" {
		t.Errorf("Attr(username) = %v, %v", v, ok)
	}
	if v, ok := u.Attr("externalId"); !ok || v != "sub-1" {
		t.Errorf("Attr(externalId) = %v, %v", v, ok)
	}
	if _, ok := u.Attr("password"); ok {
		t.Error("unknown attribute should not resolve")
	}
}

func TestBookAndGenre_Attr(t *testing.T) {
	b := &Book{Base: Base{ID: 3}, Title: "Dune"}
	if v, _ := b.Attr("title"); v != "Dune" {
		t.Errorf("Attr(title) = %v", v)
	}
	if v, ok := b.Attr("description"); !ok || v != nil {
		t.Errorf("Attr(description) = %v, %v", v, ok)
	}
	g := &Genre{Base: Base{ID: 4}, Name: "Sci-Fi"}
	if v, _ := g.Attr("name"); v != "Sci-Fi" {
		t.Errorf("Attr(name) = %v", v)
	}
	if v, _ := g.Attr("id"); v != uint(4) {
		t.Errorf("Attr(id) = %v", v)
	}
}

func TestUser_Roles(t *testing.T) {
	u := &User{Roles: Roles{RoleRegular, RoleAdmin}}
	if !u.HasRole(RoleAdmin) {
		t.Error("expected admin role")
	}
	if got := u.RoleList(); len(got) != 2 || got[0] != RoleRegular {
		t.Errorf("RoleList() = %v", got)
	}
}

func TestRoles_ValueScan(t *testing.T) {
	v, err := Roles{RoleRegular, RoleAdmin}.Value()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "regular,admin" {
		t.Errorf("Value() = %v", v)
	}

	var r Roles
	if err := r.Scan([]byte("regular, admin,")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r) != 2 || r[1] != RoleAdmin {
		t.Errorf("Scan() = %v", r)
	}
	if err := r.Scan(nil); err != nil || r != nil {
		t.Errorf("Scan(nil) = %v, %v", r, err)
	}
	if err := r.Scan(42); err == nil {
		t.Error("expected error for unsupported type")
	}
}
