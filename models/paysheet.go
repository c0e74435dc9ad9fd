package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaysheetStatus string

const (
	PaysheetPending  PaysheetStatus = "pending"
	PaysheetApproved PaysheetStatus = "approved"
	PaysheetPaid     PaysheetStatus = "paid"
)

// Paysheet snapshots a staff member's earnings for a set of completed
// appointments at submission time. TotalEarnings always equals the sum of
// non-excluded line earnings. A paid paysheet is never mutated again.
type Paysheet struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CompanyID uuid.UUID `gorm:"type:uuid;index;not null"`
	StaffID   uuid.UUID `gorm:"type:uuid;index;not null"`

	PeriodStart time.Time `gorm:"not null"`
	PeriodEnd   time.Time `gorm:"index;not null"`

	Status PaysheetStatus `gorm:"type:varchar(20);not null;default:'pending'"`

	TotalEarnings decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TotalWalks    int             `gorm:"not null"`
	TotalMinutes  int             `gorm:"not null"`

	PaymentMethod string
	ApprovedAt    *time.Time
	PaidAt        *time.Time

	Staff Staff          `gorm:"foreignKey:StaffID"`
	Lines []PaysheetLine `gorm:"foreignKey:PaysheetID"`

	gorm.Model
}

func (p *Paysheet) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

// PaysheetLine is one appointment's earnings on a paysheet. Excluded lines
// stay on the sheet for the audit trail but never count toward the total;
// the appointment behind an excluded line is still claimed by this sheet.
type PaysheetLine struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	PaysheetID    uuid.UUID `gorm:"type:uuid;index;not null"`
	AppointmentID uuid.UUID `gorm:"type:uuid;index;not null"`

	Earnings decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Excluded bool            `gorm:"default:false"`
	Edited   bool            `gorm:"default:false"`
	Position int             `gorm:"not null"`

	gorm.Model
}

func (l *PaysheetLine) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}
