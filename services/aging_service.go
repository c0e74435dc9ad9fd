package services

import (
	"time"

	"pawtrack-backend/models"
	"pawtrack-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AgingBucket groups open invoices by how many days past due they are.
type AgingBucket struct {
	Label    string           `json:"label"`
	MinDays  int              `json:"minDays"`
	MaxDays  int              `json:"maxDays"` // -1 means unbounded
	Invoices []models.Invoice `json:"invoices"`
	Total    decimal.Decimal  `json:"total"`
	Count    int              `json:"count"`
}

// AgingReport partitions every open invoice into exactly one bucket, so
// bucket totals always sum to the grand total.
type AgingReport struct {
	AsOf          time.Time       `json:"asOf"`
	Buckets       []AgingBucket   `json:"buckets"`
	GrandTotal    decimal.Decimal `json:"grandTotal"`
	TotalInvoices int             `json:"totalInvoices"`
}

// AgingService computes accounts-receivable aging. It is a pure read over
// the open-invoice snapshot at asOf; nothing is persisted, so recomputing
// is always safe.
type AgingService struct {
	db *gorm.DB
}

func NewAgingService(db *gorm.DB) *AgingService {
	return &AgingService{db: db}
}

// DaysOverdue is the calendar-day lag between an invoice's due date and
// asOf, floored at zero.
func DaysOverdue(invoice *models.Invoice, asOf time.Time) int {
	days := utils.DaysBetween(invoice.DueDate, asOf)
	if days < 0 {
		return 0
	}
	return days
}

func newBuckets() []AgingBucket {
	zero := decimal.Zero
	return []AgingBucket{
		{Label: "current", MinDays: 0, MaxDays: 30, Total: zero},
		{Label: "thirty", MinDays: 31, MaxDays: 60, Total: zero},
		{Label: "sixty", MinDays: 61, MaxDays: 90, Total: zero},
		{Label: "ninety_plus", MinDays: 91, MaxDays: -1, Total: zero},
	}
}

func bucketIndex(daysOverdue int) int {
	switch {
	case daysOverdue <= 30:
		return 0
	case daysOverdue <= 60:
		return 1
	case daysOverdue <= 90:
		return 2
	default:
		return 3
	}
}

// ComputeAging buckets every open (not paid, not deleted) invoice by days
// overdue as of the given date.
func (s *AgingService) ComputeAging(companyID uuid.UUID, asOf time.Time) (*AgingReport, error) {
	var invoices []models.Invoice
	if err := s.db.Preload("Client").
		Where("company_id = ? AND status IN ?", companyID,
			[]models.InvoiceStatus{models.InvoiceOpen, models.InvoiceSent, models.InvoiceOverdue}).
		Order("due_date ASC").
		Find(&invoices).Error; err != nil {
		return nil, err
	}

	report := &AgingReport{
		AsOf:       asOf,
		Buckets:    newBuckets(),
		GrandTotal: decimal.Zero,
	}
	for _, invoice := range invoices {
		idx := bucketIndex(DaysOverdue(&invoice, asOf))
		bucket := &report.Buckets[idx]
		bucket.Invoices = append(bucket.Invoices, invoice)
		bucket.Total = bucket.Total.Add(invoice.Amount)
		bucket.Count++
		report.GrandTotal = report.GrandTotal.Add(invoice.Amount)
		report.TotalInvoices++
	}
	return report, nil
}
