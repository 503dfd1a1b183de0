package models

import (
	"time"

	"github.com/diewo77/go-library/gate"
	"gorm.io/gorm"
)

// Subject kinds carried by every entity.
const (
	KindBook  gate.SubjectType = "Book"
	KindGenre gate.SubjectType = "Genre"
	KindUser  gate.SubjectType = "User"
)

// Base holds the columns shared by all entities. Deletes are soft.
type Base struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`
}

func (b *Base) GetID() uint { return b.ID }

// baseAttr resolves the attributes every entity exposes to conditions.
func (b *Base) baseAttr(name string) (any, bool) {
	switch name {
	case "id":
		return b.ID, true
	case "createdAt":
		return b.CreatedAt, true
	case "updatedAt":
		return b.UpdatedAt, true
	}
	return nil, false
}
