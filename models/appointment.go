package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	AppointmentScheduled  AppointmentStatus = "scheduled"
	AppointmentInProgress AppointmentStatus = "in_progress"
	AppointmentCompleted  AppointmentStatus = "completed"
	AppointmentCancelled  AppointmentStatus = "cancelled"
)

// Appointment is a single scheduled service visit (walk, sitting,
// grooming). Invoiced/InvoiceID together form the billing ledger flag:
// Invoiced is true iff InvoiceID points at a live invoice, and an
// appointment is never referenced by more than one live invoice.
type Appointment struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CompanyID uuid.UUID `gorm:"type:uuid;index;not null"`
	ClientID  uuid.UUID `gorm:"type:uuid;index;not null"`
	StaffID   uuid.UUID `gorm:"type:uuid;index;not null"`
	PetID     *uuid.UUID `gorm:"type:uuid;index"`

	ServiceTypeID uuid.UUID `gorm:"type:uuid;index;not null"`

	ScheduledAt     time.Time         `gorm:"index;not null"`
	DurationMinutes int
	Status          AppointmentStatus `gorm:"type:varchar(20);not null;default:'scheduled'"`
	Notes           string

	Invoiced  bool       `gorm:"default:false;index"`
	InvoiceID *uuid.UUID `gorm:"type:uuid;index"`

	ServiceType ServiceType `gorm:"foreignKey:ServiceTypeID"`

	gorm.Model
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}
