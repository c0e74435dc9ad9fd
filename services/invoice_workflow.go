package services

import (
	"errors"
	"fmt"

	"pawtrack-backend/models"
	"pawtrack-backend/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// invoiceTransitions is the closed set of permitted status moves. Anything
// not listed is rejected with ErrInvalidState; paid has no exits.
var invoiceTransitions = map[models.InvoiceStatus][]models.InvoiceStatus{
	models.InvoicePendingReview: {models.InvoiceOpen, models.InvoicePaid},
	models.InvoiceOpen:          {models.InvoiceSent, models.InvoicePaid},
	models.InvoiceSent:          {models.InvoiceOverdue, models.InvoicePaid},
	models.InvoiceOverdue:       {models.InvoicePaid},
	models.InvoicePaid:          {},
}

func canTransition(from, to models.InvoiceStatus) bool {
	for _, allowed := range invoiceTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// InvoiceWorkflow drives an invoice from creation through review, delivery
// and payment. It is the only component that mutates invoices.
type InvoiceWorkflow struct {
	db       *gorm.DB
	ledger   *LedgerService
	notifier Notifier
	clock    Clock
	log      *zap.Logger
}

func NewInvoiceWorkflow(db *gorm.DB, ledger *LedgerService, notifier Notifier, clock Clock, log *zap.Logger) *InvoiceWorkflow {
	return &InvoiceWorkflow{db: db, ledger: ledger, notifier: notifier, clock: clock, log: log}
}

// MassSendSummary reports a mass-send batch; per-invoice failures do not
// abort the batch.
type MassSendSummary struct {
	Attempted int `json:"attempted"`
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
}

func (w *InvoiceWorkflow) getInvoice(tx *gorm.DB, companyID, invoiceID uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := tx.Preload("Client").
		Where("company_id = ? AND id = ?", companyID, invoiceID).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invoice %s: %w", invoiceID, ErrNotFound)
		}
		return nil, err
	}
	return &invoice, nil
}

func (w *InvoiceWorkflow) setStatus(tx *gorm.DB, invoice *models.Invoice, to models.InvoiceStatus) error {
	if !canTransition(invoice.Status, to) {
		return fmt.Errorf("invoice %s: %s -> %s: %w", invoice.ID, invoice.Status, to, ErrInvalidState)
	}
	invoice.Status = to
	return tx.Model(invoice).Update("status", to).Error
}

// Approve marks an invoice review-approved and moves a pending_review
// invoice to open. Fails with ErrConflict if already approved.
func (w *InvoiceWorkflow) Approve(companyID, invoiceID uuid.UUID) (*models.Invoice, error) {
	var invoice *models.Invoice
	err := w.db.Transaction(func(tx *gorm.DB) error {
		inv, err := w.getInvoice(tx, companyID, invoiceID)
		if err != nil {
			return err
		}
		if inv.ReviewStatus == models.ReviewApproved {
			return fmt.Errorf("invoice %s already approved: %w", invoiceID, ErrConflict)
		}
		inv.ReviewStatus = models.ReviewApproved
		if err := tx.Model(inv).Update("review_status", models.ReviewApproved).Error; err != nil {
			return err
		}
		if inv.Status == models.InvoicePendingReview {
			if err := w.setStatus(tx, inv, models.InvoiceOpen); err != nil {
				return err
			}
		}
		invoice = inv
		return nil
	})
	return invoice, err
}

// SendEmail delivers the invoice by email. Only review-approved invoices
// may be sent. A delivery failure leaves the invoice in its prior state.
func (w *InvoiceWorkflow) SendEmail(companyID, invoiceID uuid.UUID) (*models.Invoice, error) {
	return w.send(companyID, invoiceID, "email")
}

// SendSMS delivers the invoice by SMS, with the same rules as SendEmail.
func (w *InvoiceWorkflow) SendSMS(companyID, invoiceID uuid.UUID) (*models.Invoice, error) {
	return w.send(companyID, invoiceID, "sms")
}

func (w *InvoiceWorkflow) send(companyID, invoiceID uuid.UUID, channel string) (*models.Invoice, error) {
	invoice, err := w.getInvoice(w.db, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.ReviewStatus != models.ReviewApproved {
		return nil, fmt.Errorf("invoice %s not review-approved: %w", invoiceID, ErrInvalidState)
	}
	if invoice.Status == models.InvoicePaid {
		return nil, fmt.Errorf("invoice %s already paid: %w", invoiceID, ErrInvalidState)
	}

	var recipient string
	switch channel {
	case "email":
		recipient = invoice.Client.Email
		err = w.notifier.SendInvoiceEmail(invoice, &invoice.Client)
	case "sms":
		recipient = invoice.Client.Phone
		err = w.notifier.SendInvoiceSMS(invoice, &invoice.Client)
	}

	w.recordDelivery(invoice, channel, recipient, err)
	if err != nil {
		return nil, err
	}

	if invoice.Status == models.InvoiceOpen {
		if err := w.setStatus(w.db, invoice, models.InvoiceSent); err != nil {
			return nil, err
		}
	}
	return invoice, nil
}

func (w *InvoiceWorkflow) recordDelivery(invoice *models.Invoice, channel, recipient string, sendErr error) {
	entry := models.DeliveryLog{
		CompanyID: invoice.CompanyID,
		InvoiceID: invoice.ID,
		ClientID:  invoice.ClientID,
		Channel:   channel,
		Recipient: recipient,
		Status:    "sent",
		SentAt:    w.clock.Now(),
	}
	if sendErr != nil {
		entry.Status = "failed"
		entry.ErrorMessage = sendErr.Error()
	}
	if err := w.db.Create(&entry).Error; err != nil {
		w.log.Error("failed to record delivery log",
			zap.String("invoice_id", invoice.ID.String()), zap.Error(err))
	}
}

// MassSend emails every review-approved invoice that has not gone out yet.
// Each send is independent; failures are counted and logged.
func (w *InvoiceWorkflow) MassSend(companyID uuid.UUID) (MassSendSummary, error) {
	var summary MassSendSummary
	var invoices []models.Invoice
	if err := w.db.Preload("Client").
		Where("company_id = ? AND review_status = ? AND status = ?",
			companyID, models.ReviewApproved, models.InvoiceOpen).
		Find(&invoices).Error; err != nil {
		return summary, err
	}

	for _, invoice := range invoices {
		summary.Attempted++
		channel := "email"
		if invoice.Client.Email == "" {
			channel = "sms"
		}
		if _, err := w.send(companyID, invoice.ID, channel); err != nil {
			summary.Failed++
			w.log.Warn("mass send failed for invoice",
				zap.String("invoice_id", invoice.ID.String()),
				zap.String("channel", channel),
				zap.Error(err))
			continue
		}
		summary.Sent++
	}
	return summary, nil
}

// MarkPaid records payment on any live invoice. Paid is terminal.
func (w *InvoiceWorkflow) MarkPaid(companyID, invoiceID uuid.UUID, method string) (*models.Invoice, error) {
	var invoice *models.Invoice
	err := w.db.Transaction(func(tx *gorm.DB) error {
		inv, err := w.getInvoice(tx, companyID, invoiceID)
		if err != nil {
			return err
		}
		if inv.Status == models.InvoicePaid {
			return fmt.Errorf("invoice %s already paid: %w", invoiceID, ErrInvalidState)
		}
		if err := w.setStatus(tx, inv, models.InvoicePaid); err != nil {
			return err
		}
		now := w.clock.Now()
		inv.PaymentMethod = method
		inv.PaidAt = &now
		if err := tx.Model(inv).Updates(map[string]interface{}{
			"payment_method": method,
			"paid_at":        now,
		}).Error; err != nil {
			return err
		}
		invoice = inv
		return nil
	})
	return invoice, err
}

// Delete removes an invoice and releases its appointments back to
// unbilled, atomically. Paid invoices cannot be deleted.
func (w *InvoiceWorkflow) Delete(companyID, invoiceID uuid.UUID) error {
	return w.db.Transaction(func(tx *gorm.DB) error {
		invoice, err := w.getInvoice(tx, companyID, invoiceID)
		if err != nil {
			return err
		}
		if invoice.Status == models.InvoicePaid {
			return fmt.Errorf("invoice %s is paid: %w", invoiceID, ErrInvalidState)
		}
		if err := w.ledger.ReleaseInvoice(tx, invoice.ID); err != nil {
			return err
		}
		return tx.Delete(invoice).Error
	})
}

// SweepOverdue moves every sent invoice past its due date to overdue.
// Run daily by the scheduler; safe to rerun.
func (w *InvoiceWorkflow) SweepOverdue() (int64, error) {
	cutoff := utils.BeginningOfDay(w.clock.Now())
	result := w.db.Model(&models.Invoice{}).
		Where("status = ? AND due_date < ?", models.InvoiceSent, cutoff).
		Update("status", models.InvoiceOverdue)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		w.log.Info("marked invoices overdue", zap.Int64("count", result.RowsAffected))
	}
	return result.RowsAffected, nil
}
