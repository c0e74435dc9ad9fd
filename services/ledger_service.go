package services

import (
	"fmt"
	"time"

	"pawtrack-backend/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LedgerService owns the per-appointment billing flags. Its one contract
// is that no completed appointment is ever billed on two live invoices.
type LedgerService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewLedgerService(db *gorm.DB, log *zap.Logger) *LedgerService {
	return &LedgerService{db: db, log: log}
}

// MarkInvoiced claims the given appointments for an invoice. It fails with
// ErrConflict if any appointment is already claimed by a different live
// invoice, and with ErrNotFound if any id does not exist. Re-marking for
// the same invoice is a no-op, so retries are safe. Callers pass the
// transaction that also creates the invoice; both persist or neither does.
func (s *LedgerService) MarkInvoiced(tx *gorm.DB, appointmentIDs []uuid.UUID, invoiceID uuid.UUID) error {
	if tx == nil {
		tx = s.db
	}
	var appointments []models.Appointment
	if err := tx.Where("id IN ?", appointmentIDs).Find(&appointments).Error; err != nil {
		return err
	}
	if len(appointments) != len(appointmentIDs) {
		return fmt.Errorf("ledger: %d of %d appointments missing: %w",
			len(appointmentIDs)-len(appointments), len(appointmentIDs), ErrNotFound)
	}
	for _, apt := range appointments {
		if apt.Invoiced && apt.InvoiceID != nil && *apt.InvoiceID != invoiceID {
			return fmt.Errorf("ledger: appointment %s already billed on invoice %s: %w",
				apt.ID, *apt.InvoiceID, ErrConflict)
		}
	}
	return tx.Model(&models.Appointment{}).
		Where("id IN ?", appointmentIDs).
		Updates(map[string]interface{}{
			"invoiced":   true,
			"invoice_id": invoiceID,
		}).Error
}

// ReleaseInvoice clears the billing flags on every appointment referencing
// the invoice. Idempotent: releasing an unknown or already-released
// invoice changes nothing.
func (s *LedgerService) ReleaseInvoice(tx *gorm.DB, invoiceID uuid.UUID) error {
	if tx == nil {
		tx = s.db
	}
	result := tx.Model(&models.Appointment{}).
		Where("invoice_id = ?", invoiceID).
		Updates(map[string]interface{}{
			"invoiced":   false,
			"invoice_id": nil,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		s.log.Info("released appointments from invoice",
			zap.String("invoice_id", invoiceID.String()),
			zap.Int64("appointments", result.RowsAffected))
	}
	return nil
}

// UnbilledCompletedAppointments returns a client's completed, unbilled
// appointments scheduled up to asOf, oldest first.
func (s *LedgerService) UnbilledCompletedAppointments(clientID uuid.UUID, asOf time.Time) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := s.db.
		Where("client_id = ? AND status = ? AND invoiced = ? AND scheduled_at <= ?",
			clientID, models.AppointmentCompleted, false, asOf).
		Order("scheduled_at ASC").
		Find(&appointments).Error
	return appointments, err
}

// ForEachUnbilled streams a client's unbilled completed appointments in
// batches, for callers that do not want the whole set in memory. Pages on
// (scheduled_at, id) so the ordering key and the pagination cursor agree.
func (s *LedgerService) ForEachUnbilled(clientID uuid.UUID, asOf time.Time, batchSize int, fn func(models.Appointment) error) error {
	if batchSize <= 0 {
		batchSize = 100
	}
	var afterAt time.Time
	var afterID uuid.UUID
	started := false
	for {
		query := s.db.
			Where("client_id = ? AND status = ? AND invoiced = ? AND scheduled_at <= ?",
				clientID, models.AppointmentCompleted, false, asOf).
			Order("scheduled_at ASC, id ASC").
			Limit(batchSize)
		if started {
			query = query.Where("scheduled_at > ? OR (scheduled_at = ? AND id > ?)",
				afterAt, afterAt, afterID)
		}

		var batch []models.Appointment
		if err := query.Find(&batch).Error; err != nil {
			return err
		}
		for _, apt := range batch {
			if err := fn(apt); err != nil {
				return err
			}
		}
		if len(batch) < batchSize {
			return nil
		}
		last := batch[len(batch)-1]
		afterAt, afterID = last.ScheduledAt, last.ID
		started = true
	}
}
