package services

import (
	"errors"
	"fmt"
	"time"

	"pawtrack-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DraftLine is one completed appointment priced for payroll, editable
// until the draft is submitted.
type DraftLine struct {
	AppointmentID   uuid.UUID       `json:"appointmentId"`
	ServiceTypeID   uuid.UUID       `json:"serviceTypeId"`
	ServiceName     string          `json:"serviceName"`
	ScheduledAt     time.Time       `json:"scheduledAt"`
	DurationMinutes int             `json:"durationMinutes"`
	Earnings        decimal.Decimal `json:"earnings"`
	Excluded        bool            `json:"excluded"`
	Edited          bool            `json:"edited"`
}

// Draft is a staff member's unsubmitted paysheet. Edits go through the
// command methods, which keep the totals in sync with the lines; the
// totals are authoritative only once Submit has re-validated the draft
// against the ledger.
type Draft struct {
	StaffID       uuid.UUID       `json:"staffId"`
	AsOf          time.Time       `json:"asOf"`
	Lines         []DraftLine     `json:"lines"`
	TotalEarnings decimal.Decimal `json:"totalEarnings"`
	TotalWalks    int             `json:"totalWalks"`
	TotalMinutes  int             `json:"totalMinutes"`
}

func (d *Draft) recompute() {
	total := decimal.Zero
	walks := 0
	minutes := 0
	for _, line := range d.Lines {
		if line.Excluded {
			continue
		}
		total = total.Add(line.Earnings)
		walks++
		minutes += line.DurationMinutes
	}
	d.TotalEarnings = total.Round(2)
	d.TotalWalks = walks
	d.TotalMinutes = minutes
}

func (d *Draft) line(i int) (*DraftLine, error) {
	if i < 0 || i >= len(d.Lines) {
		return nil, fmt.Errorf("draft line %d: %w", i, ErrNotFound)
	}
	return &d.Lines[i], nil
}

// SetEarnings overrides a line's earnings and recomputes the totals.
func (d *Draft) SetEarnings(i int, amount decimal.Decimal) error {
	line, err := d.line(i)
	if err != nil {
		return err
	}
	line.Earnings = amount.Round(2)
	line.Edited = true
	d.recompute()
	return nil
}

// Exclude drops a line from the totals without removing it.
func (d *Draft) Exclude(i int) error {
	line, err := d.line(i)
	if err != nil {
		return err
	}
	line.Excluded = true
	d.recompute()
	return nil
}

// Include restores an excluded line to the totals.
func (d *Draft) Include(i int) error {
	line, err := d.line(i)
	if err != nil {
		return err
	}
	line.Excluded = false
	d.recompute()
	return nil
}

// Zero sets a line's earnings to zero while keeping it on the sheet.
func (d *Draft) Zero(i int) error {
	return d.SetEarnings(i, decimal.Zero)
}

// SubmitLine is a draft line as sent back by the client at submission.
type SubmitLine struct {
	AppointmentID uuid.UUID       `json:"appointmentId" binding:"required"`
	Earnings      decimal.Decimal `json:"earnings"`
	Excluded      bool            `json:"excluded"`
}

// PaysheetService builds staff earnings drafts from completed
// appointments and manages the submitted sheet through approval and
// payment. Payroll is an independent ledger from client billing: putting
// an appointment on a paysheet never marks it invoiced.
type PaysheetService struct {
	db    *gorm.DB
	rates *RateTable
	clock Clock
	log   *zap.Logger
}

func NewPaysheetService(db *gorm.DB, rates *RateTable, clock Clock, log *zap.Logger) *PaysheetService {
	return &PaysheetService{db: db, rates: rates, clock: clock, log: log}
}

// claimedAppointments is a subquery of appointment ids already on a line
// of any live paysheet.
func claimedAppointments(tx *gorm.DB) *gorm.DB {
	return tx.Model(&models.PaysheetLine{}).
		Select("paysheet_lines.appointment_id").
		Joins("JOIN paysheets ON paysheets.id = paysheet_lines.paysheet_id").
		Where("paysheets.deleted_at IS NULL")
}

// CurrentDraft prices every completed appointment of the staff member not
// yet claimed by a live paysheet, as of the given time.
func (s *PaysheetService) CurrentDraft(companyID, staffID uuid.UUID, asOf time.Time) (*Draft, error) {
	var staff models.Staff
	if err := s.db.Where("company_id = ? AND id = ?", companyID, staffID).
		First(&staff).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("staff %s: %w", staffID, ErrNotFound)
		}
		return nil, err
	}

	var appointments []models.Appointment
	if err := s.db.Preload("ServiceType").
		Where("staff_id = ? AND status = ? AND scheduled_at <= ?",
			staffID, models.AppointmentCompleted, asOf).
		Where("id NOT IN (?)", claimedAppointments(s.db)).
		Order("scheduled_at ASC").
		Find(&appointments).Error; err != nil {
		return nil, err
	}

	draft := &Draft{StaffID: staffID, AsOf: asOf, TotalEarnings: decimal.Zero}
	for _, apt := range appointments {
		rate, err := s.rates.Rate(nil, apt.ServiceTypeID)
		if err != nil {
			return nil, err
		}
		duration := apt.DurationMinutes
		if duration == 0 {
			duration = rate.DurationMinutes
		}
		draft.Lines = append(draft.Lines, DraftLine{
			AppointmentID:   apt.ID,
			ServiceTypeID:   apt.ServiceTypeID,
			ServiceName:     rate.Name,
			ScheduledAt:     apt.ScheduledAt,
			DurationMinutes: duration,
			Earnings:        rate.StaffEarnings,
		})
	}
	draft.recompute()
	return draft, nil
}

// Submit persists the (possibly edited) draft as a pending paysheet. The
// whole submission is one transaction that re-validates every line:
// an appointment claimed by a concurrently submitted paysheet fails the
// submit with ErrStaleDraft, forcing a client refresh rather than a
// silent merge.
func (s *PaysheetService) Submit(companyID, staffID uuid.UUID, lines []SubmitLine) (*models.Paysheet, error) {
	included := 0
	seen := make(map[uuid.UUID]bool, len(lines))
	for _, line := range lines {
		if seen[line.AppointmentID] {
			return nil, fmt.Errorf("appointment %s listed twice: %w", line.AppointmentID, ErrStaleDraft)
		}
		seen[line.AppointmentID] = true
		if !line.Excluded {
			included++
		}
	}
	if included == 0 {
		return nil, fmt.Errorf("staff %s: %w", staffID, ErrEmptyDraft)
	}

	var paysheet *models.Paysheet
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var staff models.Staff
		if err := tx.Where("company_id = ? AND id = ?", companyID, staffID).
			First(&staff).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("staff %s: %w", staffID, ErrNotFound)
			}
			return err
		}

		sheet := models.Paysheet{
			ID:            uuid.New(),
			CompanyID:     companyID,
			StaffID:       staffID,
			Status:        models.PaysheetPending,
			TotalEarnings: decimal.Zero,
		}

		var periodStart, periodEnd time.Time
		for i, line := range lines {
			var apt models.Appointment
			if err := tx.Where("id = ? AND staff_id = ?", line.AppointmentID, staffID).
				First(&apt).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("appointment %s: %w", line.AppointmentID, ErrStaleDraft)
				}
				return err
			}
			if apt.Status != models.AppointmentCompleted {
				return fmt.Errorf("appointment %s is %s: %w", apt.ID, apt.Status, ErrStaleDraft)
			}

			var claimed int64
			if err := claimedAppointments(tx).
				Where("paysheet_lines.appointment_id = ?", apt.ID).
				Count(&claimed).Error; err != nil {
				return err
			}
			if claimed > 0 {
				return fmt.Errorf("appointment %s already on a paysheet: %w", apt.ID, ErrStaleDraft)
			}

			rate, err := s.rates.Rate(tx, apt.ServiceTypeID)
			if err != nil {
				return err
			}

			earnings := line.Earnings.Round(2)
			sheet.Lines = append(sheet.Lines, models.PaysheetLine{
				ID:            uuid.New(),
				AppointmentID: apt.ID,
				Earnings:      earnings,
				Excluded:      line.Excluded,
				Edited:        !earnings.Equal(rate.StaffEarnings),
				Position:      i,
			})

			if line.Excluded {
				continue
			}
			sheet.TotalEarnings = sheet.TotalEarnings.Add(earnings)
			sheet.TotalWalks++
			duration := apt.DurationMinutes
			if duration == 0 {
				duration = rate.DurationMinutes
			}
			sheet.TotalMinutes += duration
			if periodStart.IsZero() || apt.ScheduledAt.Before(periodStart) {
				periodStart = apt.ScheduledAt
			}
			if apt.ScheduledAt.After(periodEnd) {
				periodEnd = apt.ScheduledAt
			}
		}
		sheet.TotalEarnings = sheet.TotalEarnings.Round(2)
		sheet.PeriodStart = periodStart
		sheet.PeriodEnd = periodEnd

		if err := tx.Create(&sheet).Error; err != nil {
			return err
		}
		paysheet = &sheet
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("paysheet submitted",
		zap.String("paysheet_id", paysheet.ID.String()),
		zap.String("staff_id", staffID.String()),
		zap.String("total_earnings", paysheet.TotalEarnings.String()),
		zap.Int("walks", paysheet.TotalWalks))
	return paysheet, nil
}

func (s *PaysheetService) getPaysheet(tx *gorm.DB, companyID, paysheetID uuid.UUID) (*models.Paysheet, error) {
	var sheet models.Paysheet
	if err := tx.Preload("Lines").
		Where("company_id = ? AND id = ?", companyID, paysheetID).
		First(&sheet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("paysheet %s: %w", paysheetID, ErrNotFound)
		}
		return nil, err
	}
	return &sheet, nil
}

// Approve moves a pending paysheet to approved. Already approved or paid
// sheets fail with ErrConflict.
func (s *PaysheetService) Approve(companyID, paysheetID uuid.UUID) (*models.Paysheet, error) {
	var paysheet *models.Paysheet
	err := s.db.Transaction(func(tx *gorm.DB) error {
		sheet, err := s.getPaysheet(tx, companyID, paysheetID)
		if err != nil {
			return err
		}
		if sheet.Status != models.PaysheetPending {
			return fmt.Errorf("paysheet %s is %s: %w", paysheetID, sheet.Status, ErrConflict)
		}
		now := s.clock.Now()
		sheet.Status = models.PaysheetApproved
		sheet.ApprovedAt = &now
		if err := tx.Model(sheet).Updates(map[string]interface{}{
			"status":      models.PaysheetApproved,
			"approved_at": now,
		}).Error; err != nil {
			return err
		}
		paysheet = sheet
		return nil
	})
	return paysheet, err
}

// MarkPaid records payment on an approved paysheet. The sheet is frozen
// afterwards.
func (s *PaysheetService) MarkPaid(companyID, paysheetID uuid.UUID, method string) (*models.Paysheet, error) {
	var paysheet *models.Paysheet
	err := s.db.Transaction(func(tx *gorm.DB) error {
		sheet, err := s.getPaysheet(tx, companyID, paysheetID)
		if err != nil {
			return err
		}
		if sheet.Status != models.PaysheetApproved {
			return fmt.Errorf("paysheet %s is %s, not approved: %w", paysheetID, sheet.Status, ErrInvalidState)
		}
		now := s.clock.Now()
		sheet.Status = models.PaysheetPaid
		sheet.PaymentMethod = method
		sheet.PaidAt = &now
		if err := tx.Model(sheet).Updates(map[string]interface{}{
			"status":         models.PaysheetPaid,
			"payment_method": method,
			"paid_at":        now,
		}).Error; err != nil {
			return err
		}
		paysheet = sheet
		return nil
	})
	return paysheet, err
}
