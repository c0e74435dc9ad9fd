package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Company struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	Name    string    `gorm:"not null"`
	Address string
	Phone   string
	Email   string

	WorkingHours      JSONB `gorm:"type:jsonb;default:'{}'"`
	EmailInvoices     bool  `gorm:"default:true"`
	SMSInvoices       bool  `gorm:"default:false"`
	InvoiceGraceDays  int   `gorm:"default:14"`

	Users        []User        `gorm:"foreignKey:CompanyID"`
	Clients      []Client      `gorm:"foreignKey:CompanyID"`
	Staff        []Staff       `gorm:"foreignKey:CompanyID"`
	ServiceTypes []ServiceType `gorm:"foreignKey:CompanyID"`
	Invoices     []Invoice     `gorm:"foreignKey:CompanyID"`
}

func (c *Company) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

// Custom JSONB type for working hours
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	// postgres hands jsonb over as []byte, sqlite as string
	switch v := value.(type) {
	case nil:
		*j = JSONB{}
		return nil
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return errors.New("unsupported source type for JSONB")
	}
}
