package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Pet struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	ClientID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name    string `gorm:"not null"`
	Species string `gorm:"default:'dog'"`
	Breed   string
	Notes   string

	IsActive bool `gorm:"default:true"`

	gorm.Model
}

func (p *Pet) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
