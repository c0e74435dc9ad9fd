package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ServiceType is a rate-table row: what the client is charged for a
// service and what the staff member earns for performing it.
type ServiceType struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CompanyID uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_company_service_name,priority:1"`

	Name        string `gorm:"not null;uniqueIndex:idx_company_service_name,priority:2"`
	Description string

	ClientPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	StaffEarnings decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	DurationMinutes int    // typical duration, in minutes
	Category        string `gorm:"default:'General'"`
	IsActive        bool   `gorm:"default:true"`

	gorm.Model
}

func (s *ServiceType) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
