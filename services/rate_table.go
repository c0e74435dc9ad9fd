package services

import (
	"errors"
	"fmt"

	"pawtrack-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RateTable looks up what the client is charged and what the staff member
// earns for a service type. A missing or inactive service type is an
// ErrUnknownServiceType, never a silent zero: a genuinely free service is
// represented by an explicit zero rate row.
type RateTable struct {
	db *gorm.DB
}

func NewRateTable(db *gorm.DB) *RateTable {
	return &RateTable{db: db}
}

// Rate returns the rate row for a service type.
func (r *RateTable) Rate(tx *gorm.DB, serviceTypeID uuid.UUID) (*models.ServiceType, error) {
	if tx == nil {
		tx = r.db
	}
	var st models.ServiceType
	if err := tx.Where("id = ? AND is_active = ?", serviceTypeID, true).
		First(&st).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("service type %s: %w", serviceTypeID, ErrUnknownServiceType)
		}
		return nil, err
	}
	return &st, nil
}

// Price returns the client price for a service type.
func (r *RateTable) Price(serviceTypeID uuid.UUID) (decimal.Decimal, error) {
	st, err := r.Rate(nil, serviceTypeID)
	if err != nil {
		return decimal.Zero, err
	}
	return st.ClientPrice, nil
}

// Earnings returns the staff earnings for a service type.
func (r *RateTable) Earnings(serviceTypeID uuid.UUID) (decimal.Decimal, error) {
	st, err := r.Rate(nil, serviceTypeID)
	if err != nil {
		return decimal.Zero, err
	}
	return st.StaffEarnings, nil
}
