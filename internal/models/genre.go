package models

import "github.com/diewo77/go-library/gate"

type Genre struct {
	Base
	Name string `gorm:"size:255;not null" json:"name"`
}

func (*Genre) Kind() gate.SubjectType { return KindGenre }

func (g *Genre) Attr(name string) (any, bool) {
	if name == "name" {
		return g.Name, true
	}
	return g.baseAttr(name)
}
