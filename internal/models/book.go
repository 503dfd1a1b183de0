package models

import "github.com/diewo77/go-library/gate"

type Book struct {
	Base
	Title       string  `gorm:"size:255;not null" json:"title"`
	Description *string `gorm:"size:2048" json:"description,omitempty"`
}

func (*Book) Kind() gate.SubjectType { return KindBook }

func (b *Book) Attr(name string) (any, bool) {
	switch name {
	case "title":
		return b.Title, true
	case "description":
		if b.Description == nil {
			return nil, true
		}
		return *b.Description, true
	}
	return b.baseAttr(name)
}
