package services

import (
	"testing"
	"time"

	"pawtrack-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPaidPaysheet(t *testing.T, f *fixture, staff models.Staff, periodEnd time.Time, total string, walks int) models.Paysheet {
	t.Helper()
	paidAt := periodEnd.AddDate(0, 0, 3)
	sheet := models.Paysheet{
		CompanyID:     f.company.ID,
		StaffID:       staff.ID,
		PeriodStart:   periodEnd.AddDate(0, 0, -7),
		PeriodEnd:     periodEnd,
		Status:        models.PaysheetPaid,
		TotalEarnings: mustDecimal(t, total),
		TotalWalks:    walks,
		TotalMinutes:  walks * 30,
		PaidAt:        &paidAt,
	}
	require.NoError(t, f.db.Create(&sheet).Error)
	return sheet
}

func TestReportThresholdIsInclusive(t *testing.T) {
	f := newFixture(t)
	svc := NewTaxReportService(f.db)

	under := models.Staff{CompanyID: f.company.ID, Name: "Alex Kim", IsActive: true}
	require.NoError(t, f.db.Create(&under).Error)

	seedPaidPaysheet(t, f, f.staff, day(2026, time.February, 28), "400.00", 20)
	seedPaidPaysheet(t, f, f.staff, day(2026, time.July, 31), "200.00", 10)
	seedPaidPaysheet(t, f, under, day(2026, time.May, 31), "599.99", 30)

	report, err := svc.Report(f.company.ID, 2026)
	require.NoError(t, err)
	require.Len(t, report, 2)

	// sorted by staff name
	assert.Equal(t, "Alex Kim", report[0].StaffName)
	assert.False(t, report[0].Requires1099)
	assert.True(t, report[0].YearTotal.Equal(mustDecimal(t, "599.99")))

	assert.Equal(t, "Riley Chen", report[1].StaffName)
	assert.True(t, report[1].Requires1099) // exactly 600.00 counts
	assert.True(t, report[1].YearTotal.Equal(mustDecimal(t, "600.00")))
	assert.Equal(t, 30, report[1].TotalWalks)
}

func TestReportGroupsByMonthOfPeriodEnd(t *testing.T) {
	f := newFixture(t)
	svc := NewTaxReportService(f.db)

	seedPaidPaysheet(t, f, f.staff, day(2026, time.January, 10), "100.00", 5)
	seedPaidPaysheet(t, f, f.staff, day(2026, time.January, 24), "150.00", 7)
	seedPaidPaysheet(t, f, f.staff, day(2026, time.March, 14), "80.00", 4)

	report, err := svc.Report(f.company.ID, 2026)
	require.NoError(t, err)
	require.Len(t, report, 1)

	monthly := report[0].Monthly
	require.Len(t, monthly, 2)
	assert.Equal(t, 1, monthly[0].Month)
	assert.True(t, monthly[0].Total.Equal(mustDecimal(t, "250.00")))
	assert.Equal(t, 12, monthly[0].Walks)
	assert.Equal(t, 3, monthly[1].Month)
	assert.True(t, monthly[1].Total.Equal(mustDecimal(t, "80.00")))
}

func TestReportIgnoresOtherYearsAndUnpaidSheets(t *testing.T) {
	f := newFixture(t)
	svc := NewTaxReportService(f.db)

	seedPaidPaysheet(t, f, f.staff, day(2025, time.December, 28), "500.00", 25)
	seedPaidPaysheet(t, f, f.staff, day(2027, time.January, 3), "500.00", 25)

	pending := models.Paysheet{
		CompanyID:     f.company.ID,
		StaffID:       f.staff.ID,
		PeriodStart:   day(2026, time.June, 1),
		PeriodEnd:     day(2026, time.June, 7),
		Status:        models.PaysheetPending,
		TotalEarnings: mustDecimal(t, "700.00"),
	}
	require.NoError(t, f.db.Create(&pending).Error)

	report, err := svc.Report(f.company.ID, 2026)
	require.NoError(t, err)
	assert.Empty(t, report)
}

func TestStaffDetailIncludesPaysheets(t *testing.T) {
	f := newFixture(t)
	svc := NewTaxReportService(f.db)

	seedPaidPaysheet(t, f, f.staff, day(2026, time.April, 30), "320.00", 16)
	seedPaidPaysheet(t, f, f.staff, day(2026, time.May, 31), "280.00", 14)

	detail, err := svc.StaffDetail(f.company.ID, f.staff.ID, 2026)
	require.NoError(t, err)

	assert.Equal(t, f.staff.ID, detail.StaffID)
	assert.Equal(t, "Riley Chen", detail.StaffName)
	assert.True(t, detail.YearTotal.Equal(mustDecimal(t, "600.00")))
	assert.True(t, detail.Requires1099)
	require.Len(t, detail.Paysheets, 2)
	assert.True(t, detail.Paysheets[0].PeriodEnd.Before(detail.Paysheets[1].PeriodEnd))
}

func TestStaffDetailUnknownStaff(t *testing.T) {
	f := newFixture(t)
	svc := NewTaxReportService(f.db)

	_, err := svc.StaffDetail(f.company.ID, uuid.New(), 2026)
	assert.ErrorIs(t, err, ErrNotFound)
}
