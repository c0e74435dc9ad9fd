package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"pawtrack-backend/models"
	"pawtrack-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InvoiceService turns a client's completed, unbilled appointments into
// invoices. Invoice creation and the ledger claim run in one transaction
// under a per-client lock, so two racing generators can never bill the
// same appointment twice.
type InvoiceService struct {
	db        *gorm.DB
	ledger    *LedgerService
	rates     *RateTable
	clock     Clock
	log       *zap.Logger
	graceDays int

	clientLocks sync.Map // uuid.UUID -> *sync.Mutex
}

func NewInvoiceService(db *gorm.DB, ledger *LedgerService, rates *RateTable, clock Clock, log *zap.Logger, graceDays int) *InvoiceService {
	return &InvoiceService{
		db:        db,
		ledger:    ledger,
		rates:     rates,
		clock:     clock,
		log:       log,
		graceDays: graceDays,
	}
}

// AutoGenerateSummary reports the outcome of one auto-generate batch.
// Per-client failures are counted, not fatal.
type AutoGenerateSummary struct {
	Cycle     models.BillingCycle `json:"cycle"`
	Clients   int                 `json:"clients"`
	Generated int                 `json:"generated"`
	Skipped   int                 `json:"skipped"` // nothing to bill
	Failed    int                 `json:"failed"`
}

func (s *InvoiceService) lockClient(clientID uuid.UUID) *sync.Mutex {
	v, _ := s.clientLocks.LoadOrStore(clientID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// GenerateInvoice bills all of a client's unbilled completed appointments
// inside the period. The invoice starts in pending_review.
func (s *InvoiceService) GenerateInvoice(companyID, clientID uuid.UUID, periodStart, periodEnd time.Time) (*models.Invoice, error) {
	return s.generate(companyID, clientID, &periodStart, &periodEnd, nil, models.InvoicePendingReview)
}

// GenerateManualInvoice bills an explicit set of appointments, for ad-hoc
// invoicing outside the billing cycle. The invoice is created open,
// immediately deliverable once review-approved.
func (s *InvoiceService) GenerateManualInvoice(companyID, clientID uuid.UUID, appointmentIDs []uuid.UUID) (*models.Invoice, error) {
	if len(appointmentIDs) == 0 {
		return nil, fmt.Errorf("no appointments supplied: %w", ErrNothingToBill)
	}
	return s.generate(companyID, clientID, nil, nil, appointmentIDs, models.InvoiceOpen)
}

func (s *InvoiceService) generate(companyID, clientID uuid.UUID, periodStart, periodEnd *time.Time, explicitIDs []uuid.UUID, status models.InvoiceStatus) (*models.Invoice, error) {
	lock := s.lockClient(clientID)
	lock.Lock()
	defer lock.Unlock()

	var invoice *models.Invoice
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.Preload("BillingPlan.ServiceTypes").
			Where("company_id = ? AND id = ?", companyID, clientID).
			First(&client).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("client %s: %w", clientID, ErrNotFound)
			}
			return err
		}

		graceDays, err := s.companyGraceDays(tx, companyID)
		if err != nil {
			return err
		}

		appointments, err := s.billableAppointments(tx, &client, periodStart, periodEnd, explicitIDs)
		if err != nil {
			return err
		}
		if len(appointments) == 0 {
			return fmt.Errorf("client %s: %w", clientID, ErrNothingToBill)
		}

		amount, err := s.computeAmount(tx, &client, appointments)
		if err != nil {
			return err
		}

		start, end := periodBounds(appointments, periodStart, periodEnd)
		inv := models.Invoice{
			ID:            uuid.New(),
			CompanyID:     companyID,
			ClientID:      clientID,
			InvoiceNumber: "INV-" + s.clock.Now().Format("20060102") + "-" + utils.GenerateRandomString(6),
			PeriodStart:   start,
			PeriodEnd:     end,
			DueDate:       utils.BeginningOfDay(end).AddDate(0, 0, graceDays),
			Amount:        amount,
			Status:        status,
			ReviewStatus:  models.ReviewPending,
		}
		if err := tx.Create(&inv).Error; err != nil {
			return err
		}

		ids := make([]uuid.UUID, len(appointments))
		for i, apt := range appointments {
			ids[i] = apt.ID
		}
		if err := s.ledger.MarkInvoiced(tx, ids, inv.ID); err != nil {
			return err
		}

		invoice = &inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("generated invoice",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("client_id", clientID.String()),
		zap.String("amount", invoice.Amount.String()))
	return invoice, nil
}

// companyGraceDays prefers the company's own setting, falling back to the
// service default for companies that never set one.
func (s *InvoiceService) companyGraceDays(tx *gorm.DB, companyID uuid.UUID) (int, error) {
	var company models.Company
	if err := tx.First(&company, "id = ?", companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("company %s: %w", companyID, ErrNotFound)
		}
		return 0, err
	}
	if company.InvoiceGraceDays > 0 {
		return company.InvoiceGraceDays, nil
	}
	return s.graceDays, nil
}

func (s *InvoiceService) billableAppointments(tx *gorm.DB, client *models.Client, periodStart, periodEnd *time.Time, explicitIDs []uuid.UUID) ([]models.Appointment, error) {
	var appointments []models.Appointment
	if explicitIDs != nil {
		if err := tx.Where("id IN ? AND client_id = ?", explicitIDs, client.ID).
			Order("scheduled_at ASC").Find(&appointments).Error; err != nil {
			return nil, err
		}
		if len(appointments) != len(explicitIDs) {
			return nil, fmt.Errorf("some appointments not found for client %s: %w", client.ID, ErrNotFound)
		}
		for _, apt := range appointments {
			if apt.Status != models.AppointmentCompleted {
				return nil, fmt.Errorf("appointment %s is %s, not completed: %w", apt.ID, apt.Status, ErrInvalidState)
			}
			if apt.Invoiced {
				return nil, fmt.Errorf("appointment %s already billed: %w", apt.ID, ErrConflict)
			}
		}
		return appointments, nil
	}
	err := tx.Where("client_id = ? AND status = ? AND invoiced = ? AND scheduled_at >= ? AND scheduled_at <= ?",
		client.ID, models.AppointmentCompleted, false, *periodStart, *periodEnd).
		Order("scheduled_at ASC").Find(&appointments).Error
	return appointments, err
}

// computeAmount sums the service prices and applies the client's plan
// discount to the covered subtotal, rounding to cents.
func (s *InvoiceService) computeAmount(tx *gorm.DB, client *models.Client, appointments []models.Appointment) (decimal.Decimal, error) {
	raw := decimal.Zero
	covered := decimal.Zero
	for _, apt := range appointments {
		rate, err := s.rates.Rate(tx, apt.ServiceTypeID)
		if err != nil {
			return decimal.Zero, err
		}
		raw = raw.Add(rate.ClientPrice)
		if client.BillingPlan != nil && client.BillingPlan.Covers(apt.ServiceTypeID) {
			covered = covered.Add(rate.ClientPrice)
		}
	}
	amount := raw
	if client.BillingPlan != nil {
		discount := covered.Mul(client.BillingPlan.DiscountPercent).Div(decimal.NewFromInt(100))
		amount = raw.Sub(discount)
	}
	return amount.Round(2), nil
}

func periodBounds(appointments []models.Appointment, periodStart, periodEnd *time.Time) (time.Time, time.Time) {
	if periodStart != nil && periodEnd != nil {
		return *periodStart, *periodEnd
	}
	// appointments are ordered by scheduled_at
	return appointments[0].ScheduledAt, appointments[len(appointments)-1].ScheduledAt
}

// AutoGenerate invoices every active client on the given billing cycle for
// the window ending now. Clients with nothing to bill are skipped; other
// failures are logged and counted, never fatal to the batch.
func (s *InvoiceService) AutoGenerate(companyID uuid.UUID, cycle models.BillingCycle) (AutoGenerateSummary, error) {
	summary := AutoGenerateSummary{Cycle: cycle}

	now := s.clock.Now()
	periodEnd := utils.EndOfDay(now.AddDate(0, 0, -1)) // bill through yesterday
	var periodStart time.Time
	switch cycle {
	case models.BillingCycleDaily:
		periodStart = utils.BeginningOfDay(now.AddDate(0, 0, -1))
	case models.BillingCycleWeekly:
		periodStart = utils.BeginningOfDay(now.AddDate(0, 0, -7))
	case models.BillingCycleMonthly:
		periodStart = utils.BeginningOfDay(now.AddDate(0, -1, 0))
	default:
		return summary, fmt.Errorf("unknown billing cycle %q: %w", cycle, ErrInvalidState)
	}

	var clients []models.Client
	if err := s.db.
		Where("company_id = ? AND billing_cycle = ? AND is_active = ?", companyID, cycle, true).
		Find(&clients).Error; err != nil {
		return summary, err
	}
	summary.Clients = len(clients)

	for _, client := range clients {
		_, err := s.GenerateInvoice(companyID, client.ID, periodStart, periodEnd)
		switch {
		case err == nil:
			summary.Generated++
		case errors.Is(err, ErrNothingToBill):
			summary.Skipped++
		default:
			summary.Failed++
			s.log.Warn("auto-generate failed for client",
				zap.String("client_id", client.ID.String()),
				zap.Error(err))
		}
	}

	s.log.Info("auto-generate run finished",
		zap.String("cycle", string(cycle)),
		zap.Int("generated", summary.Generated),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed))
	return summary, nil
}

// ResetInvoiced releases every invoiced appointment of a client without
// touching the invoices themselves. Destructive admin escape hatch: the
// client's invoices keep their amounts but no longer own appointments, so
// regeneration will bill the released appointments again.
func (s *InvoiceService) ResetInvoiced(companyID, clientID, actorID uuid.UUID) (int64, error) {
	lock := s.lockClient(clientID)
	lock.Lock()
	defer lock.Unlock()

	var client models.Client
	if err := s.db.Where("company_id = ? AND id = ?", companyID, clientID).
		First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("client %s: %w", clientID, ErrNotFound)
		}
		return 0, err
	}

	result := s.db.Model(&models.Appointment{}).
		Where("client_id = ? AND invoiced = ?", clientID, true).
		Updates(map[string]interface{}{
			"invoiced":   false,
			"invoice_id": nil,
		})
	if result.Error != nil {
		return 0, result.Error
	}

	s.log.Warn("admin reset billing flags for client",
		zap.String("client_id", clientID.String()),
		zap.String("actor_id", actorID.String()),
		zap.Int64("appointments_released", result.RowsAffected))
	return result.RowsAffected, nil
}
