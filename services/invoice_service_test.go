package services

import (
	"testing"
	"time"

	"pawtrack-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) attachPlan(t *testing.T, discount string, covered ...models.ServiceType) models.BillingPlan {
	t.Helper()
	plan := models.BillingPlan{
		CompanyID:       f.company.ID,
		Name:            "Pack Plan",
		DiscountPercent: mustDecimal(t, discount),
		ServiceTypes:    covered,
		IsActive:        true,
	}
	require.NoError(t, f.db.Create(&plan).Error)
	require.NoError(t, f.db.Model(&f.client).Update("billing_plan_id", plan.ID).Error)
	return plan
}

func TestGenerateInvoiceAppliesPlanDiscount(t *testing.T) {
	f := newFixture(t)
	clock := fixedClock{t: day(2026, time.March, 10)}
	svc := f.invoices(clock)

	f.attachPlan(t, "10.00") // empty eligible set covers everything
	walk := f.appointment(t, f.walk, day(2026, time.March, 2), models.AppointmentCompleted)
	groom := f.appointment(t, f.groom, day(2026, time.March, 4), models.AppointmentCompleted)

	inv, err := svc.GenerateInvoice(f.company.ID, f.client.ID,
		day(2026, time.March, 1), day(2026, time.March, 7))
	require.NoError(t, err)

	// (30 + 45) less 10% = 67.50
	assert.True(t, inv.Amount.Equal(mustDecimal(t, "67.50")), "amount = %s", inv.Amount)
	assert.Equal(t, models.InvoicePendingReview, inv.Status)
	assert.Equal(t, models.ReviewPending, inv.ReviewStatus)
	assert.NotEmpty(t, inv.InvoiceNumber)

	for _, id := range []uuid.UUID{walk.ID, groom.ID} {
		var apt models.Appointment
		require.NoError(t, f.db.First(&apt, "id = ?", id).Error)
		assert.True(t, apt.Invoiced)
		require.NotNil(t, apt.InvoiceID)
		assert.Equal(t, inv.ID, *apt.InvoiceID)
	}
}

func TestGenerateInvoiceDiscountOnlyOnCoveredServices(t *testing.T) {
	f := newFixture(t)
	svc := f.invoices(fixedClock{t: day(2026, time.March, 10)})

	f.attachPlan(t, "10.00", f.walk) // grooming is outside the plan
	f.appointment(t, f.walk, day(2026, time.March, 2), models.AppointmentCompleted)
	f.appointment(t, f.groom, day(2026, time.March, 4), models.AppointmentCompleted)

	inv, err := svc.GenerateInvoice(f.company.ID, f.client.ID,
		day(2026, time.March, 1), day(2026, time.March, 7))
	require.NoError(t, err)

	// 30 less 10% plus 45 = 72.00
	assert.True(t, inv.Amount.Equal(mustDecimal(t, "72.00")), "amount = %s", inv.Amount)
}

func TestGenerateInvoiceDueDateFromGracePeriod(t *testing.T) {
	f := newFixture(t)
	svc := f.invoices(fixedClock{t: day(2026, time.March, 10)})

	f.appointment(t, f.walk, day(2026, time.March, 2), models.AppointmentCompleted)

	periodEnd := day(2026, time.March, 7)
	inv, err := svc.GenerateInvoice(f.company.ID, f.client.ID, day(2026, time.March, 1), periodEnd)
	require.NoError(t, err)

	want := time.Date(2026, time.March, 21, 0, 0, 0, 0, time.UTC)
	assert.True(t, inv.DueDate.Equal(want), "due date = %s", inv.DueDate)
}

func TestGenerateInvoiceUsesCompanyGraceDays(t *testing.T) {
	f := newFixture(t)
	svc := f.invoices(fixedClock{t: day(2026, time.March, 10)})

	require.NoError(t, f.db.Model(&f.company).Update("invoice_grace_days", 7).Error)
	f.appointment(t, f.walk, day(2026, time.March, 2), models.AppointmentCompleted)

	inv, err := svc.GenerateInvoice(f.company.ID, f.client.ID,
		day(2026, time.March, 1), day(2026, time.March, 7))
	require.NoError(t, err)

	want := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)
	assert.True(t, inv.DueDate.Equal(want), "due date = %s", inv.DueDate)
}

func TestGenerateInvoiceNothingToBill(t *testing.T) {
	f := newFixture(t)
	svc := f.invoices(fixedClock{t: day(2026, time.March, 10)})

	f.appointment(t, f.walk, day(2026, time.March, 2), models.AppointmentScheduled)
	f.appointment(t, f.walk, day(2026, time.April, 2), models.AppointmentCompleted) // outside period

	_, err := svc.GenerateInvoice(f.company.ID, f.client.ID,
		day(2026, time.March, 1), day(2026, time.March, 7))
	assert.ErrorIs(t, err, ErrNothingToBill)
}

func TestGenerateInvoiceTwiceBillsNothingTwice(t *testing.T) {
	f := newFixture(t)
	svc := f.invoices(fixedClock{t: day(2026, time.March, 10)})

	f.appointment(t, f.walk, day(2026, time.March, 2), models.AppointmentCompleted)

	_, err := svc.GenerateInvoice(f.company.ID, f.client.ID,
		day(2026, time.March, 1), day(2026, time.March, 7))
	require.NoError(t, err)

	_, err = svc.GenerateInvoice(f.company.ID, f.client.ID,
		day(2026, time.March, 1), day(2026, time.March, 7))
	assert.ErrorIs(t, err, ErrNothingToBill)

	var count int64
	require.NoError(t, f.db.Model(&models.Invoice{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGenerateInvoiceUnknownClient(t *testing.T) {
	f := newFixture(t)
	svc := f.invoices(fixedClock{t: day(2026, time.March, 10)})

	_, err := svc.GenerateInvoice(f.company.ID, uuid.New(),
		day(2026, time.March, 1), day(2026, time.March, 7))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGenerateManualInvoice(t *testing.T) {
	f := newFixture(t)
	svc := f.invoices(fixedClock{t: day(2026, time.March, 10)})

	a := f.appointment(t, f.walk, day(2026, time.March, 2), models.AppointmentCompleted)
	b := f.appointment(t, f.groom, day(2026, time.March, 4), models.AppointmentCompleted)

	inv, err := svc.GenerateManualInvoice(f.company.ID, f.client.ID, []uuid.UUID{a.ID, b.ID})
	require.NoError(t, err)

	assert.Equal(t, models.InvoiceOpen, inv.Status)
	assert.True(t, inv.Amount.Equal(mustDecimal(t, "75.00")))
	assert.True(t, inv.PeriodStart.Equal(a.ScheduledAt))
	assert.True(t, inv.PeriodEnd.Equal(b.ScheduledAt))
}

func TestGenerateManualInvoiceRejectsBadAppointments(t *testing.T) {
	f := newFixture(t)
	svc := f.invoices(fixedClock{t: day(2026, time.March, 10)})

	scheduled := f.appointment(t, f.walk, day(2026, time.March, 2), models.AppointmentScheduled)
	_, err := svc.GenerateManualInvoice(f.company.ID, f.client.ID, []uuid.UUID{scheduled.ID})
	assert.ErrorIs(t, err, ErrInvalidState)

	billed := f.appointment(t, f.walk, day(2026, time.March, 3), models.AppointmentCompleted)
	_, err = svc.GenerateManualInvoice(f.company.ID, f.client.ID, []uuid.UUID{billed.ID})
	require.NoError(t, err)
	_, err = svc.GenerateManualInvoice(f.company.ID, f.client.ID, []uuid.UUID{billed.ID})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.GenerateManualInvoice(f.company.ID, f.client.ID, nil)
	assert.ErrorIs(t, err, ErrNothingToBill)

	_, err = svc.GenerateManualInvoice(f.company.ID, f.client.ID, []uuid.UUID{uuid.New()})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAutoGenerateWeekly(t *testing.T) {
	f := newFixture(t)
	now := day(2026, time.March, 9) // Monday
	svc := f.invoices(fixedClock{t: now})

	// second weekly client with nothing to bill
	idle := models.Client{
		CompanyID:       f.company.ID,
		CreatedByUserID: uuid.New(),
		Name:            "Sam Ortiz",
		Phone:           "+15551230002",
		BillingCycle:    models.BillingCycleWeekly,
		IsActive:        true,
	}
	require.NoError(t, f.db.Create(&idle).Error)

	// monthly client must not be touched by a weekly run
	monthly := models.Client{
		CompanyID:       f.company.ID,
		CreatedByUserID: uuid.New(),
		Name:            "Jo March",
		Phone:           "+15551230003",
		BillingCycle:    models.BillingCycleMonthly,
		IsActive:        true,
	}
	require.NoError(t, f.db.Create(&monthly).Error)

	f.appointment(t, f.walk, day(2026, time.March, 4), models.AppointmentCompleted)
	f.appointment(t, f.walk, day(2026, time.March, 6), models.AppointmentCompleted)

	summary, err := svc.AutoGenerate(f.company.ID, models.BillingCycleWeekly)
	require.NoError(t, err)

	assert.Equal(t, models.BillingCycleWeekly, summary.Cycle)
	assert.Equal(t, 2, summary.Clients)
	assert.Equal(t, 1, summary.Generated)
	assert.Equal(t, 1, summary.Skipped)
	assert.Zero(t, summary.Failed)

	var inv models.Invoice
	require.NoError(t, f.db.First(&inv, "client_id = ?", f.client.ID).Error)
	assert.True(t, inv.Amount.Equal(mustDecimal(t, "60.00")))
}

func TestResetInvoicedReleasesEverything(t *testing.T) {
	f := newFixture(t)
	svc := f.invoices(fixedClock{t: day(2026, time.March, 10)})

	f.appointment(t, f.walk, day(2026, time.March, 2), models.AppointmentCompleted)
	f.appointment(t, f.groom, day(2026, time.March, 4), models.AppointmentCompleted)
	_, err := svc.GenerateInvoice(f.company.ID, f.client.ID,
		day(2026, time.March, 1), day(2026, time.March, 7))
	require.NoError(t, err)

	released, err := svc.ResetInvoiced(f.company.ID, f.client.ID, uuid.New())
	require.NoError(t, err)
	assert.EqualValues(t, 2, released)

	var count int64
	require.NoError(t, f.db.Model(&models.Appointment{}).
		Where("invoiced = ?", true).Count(&count).Error)
	assert.Zero(t, count)

	_, err = svc.ResetInvoiced(f.company.ID, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
