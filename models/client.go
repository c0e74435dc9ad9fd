package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BillingCycle is how often a client's unbilled walks are rolled into an
// invoice by the auto-generate job.
type BillingCycle string

const (
	BillingCycleDaily   BillingCycle = "daily"
	BillingCycleWeekly  BillingCycle = "weekly"
	BillingCycleMonthly BillingCycle = "monthly"
)

type Client struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	CompanyID       uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name    string `gorm:"not null"`
	Phone   string `gorm:"not null;uniqueIndex:idx_company_phone,priority:2"`
	Email   string
	Address string
	Notes   string

	BillingPlanID *uuid.UUID   `gorm:"type:uuid;index"`
	BillingCycle  BillingCycle `gorm:"type:varchar(20);default:'monthly'"`

	BillingPlan *BillingPlan `gorm:"foreignKey:BillingPlanID"`

	TotalVisits int        `gorm:"default:0"`
	LastVisit   *time.Time
	IsActive    bool `gorm:"default:true"`

	Pets     []Pet     `gorm:"foreignKey:ClientID"`
	Invoices []Invoice `gorm:"foreignKey:ClientID"`

	gorm.Model
}

func (c *Client) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
