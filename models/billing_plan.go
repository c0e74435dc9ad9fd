package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BillingPlan gives a client a percentage discount on eligible services.
// An empty eligible set means the discount covers every service.
type BillingPlan struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CompanyID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name            string          `gorm:"not null"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null"`

	ServiceTypes []ServiceType `gorm:"many2many:billing_plan_services"`

	IsActive bool `gorm:"default:true"`

	gorm.Model
}

func (b *BillingPlan) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}

// Covers reports whether the plan discount applies to the given service.
func (b *BillingPlan) Covers(serviceTypeID uuid.UUID) bool {
	if len(b.ServiceTypes) == 0 {
		return true
	}
	for _, st := range b.ServiceTypes {
		if st.ID == serviceTypeID {
			return true
		}
	}
	return false
}
