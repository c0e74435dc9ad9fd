package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InvoiceStatus string

const (
	InvoicePendingReview InvoiceStatus = "pending_review"
	InvoiceOpen          InvoiceStatus = "open"
	InvoiceSent          InvoiceStatus = "sent"
	InvoicePaid          InvoiceStatus = "paid"
	InvoiceOverdue       InvoiceStatus = "overdue"
)

type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
)

// Invoice bills a client for a period's completed appointments. Amount is
// derived from the referenced appointments' prices minus the client's plan
// discount; it is never written from client input. Deleting an invoice is
// a soft delete that releases its appointments back to unbilled.
type Invoice struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	CompanyID       uuid.UUID `gorm:"type:uuid;index;not null"`
	ClientID        uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedByUserID *uuid.UUID `gorm:"type:uuid;index"`

	InvoiceNumber string    `gorm:"uniqueIndex;not null"`
	PeriodStart   time.Time `gorm:"not null"`
	PeriodEnd     time.Time `gorm:"not null"`
	DueDate       time.Time `gorm:"index;not null"`

	Amount decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	Status       InvoiceStatus `gorm:"type:varchar(20);not null;default:'pending_review'"`
	ReviewStatus ReviewStatus  `gorm:"type:varchar(20);not null;default:'pending'"`

	PaymentMethod string
	PaidAt        *time.Time

	Client       Client        `gorm:"foreignKey:ClientID"`
	Appointments []Appointment `gorm:"foreignKey:InvoiceID"`

	gorm.Model
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}
