package services

import (
	"testing"
	"time"

	"pawtrack-backend/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedInvoice(t *testing.T, f *fixture, number string, amount string, due time.Time, status models.InvoiceStatus) models.Invoice {
	t.Helper()
	inv := models.Invoice{
		CompanyID:     f.company.ID,
		ClientID:      f.client.ID,
		InvoiceNumber: number,
		PeriodStart:   due.AddDate(0, 0, -21),
		PeriodEnd:     due.AddDate(0, 0, -14),
		DueDate:       due,
		Amount:        mustDecimal(t, amount),
		Status:        status,
		ReviewStatus:  models.ReviewApproved,
	}
	require.NoError(t, f.db.Create(&inv).Error)
	return inv
}

func TestDaysOverdue(t *testing.T) {
	asOf := day(2026, time.June, 15)

	inv := &models.Invoice{DueDate: day(2026, time.June, 10)}
	assert.Equal(t, 5, DaysOverdue(inv, asOf))

	// not yet due is zero, never negative
	inv.DueDate = day(2026, time.June, 20)
	assert.Equal(t, 0, DaysOverdue(inv, asOf))

	inv.DueDate = asOf
	assert.Equal(t, 0, DaysOverdue(inv, asOf))
}

func TestBucketIndexBoundaries(t *testing.T) {
	assert.Equal(t, 0, bucketIndex(0))
	assert.Equal(t, 0, bucketIndex(30))
	assert.Equal(t, 1, bucketIndex(31))
	assert.Equal(t, 1, bucketIndex(60))
	assert.Equal(t, 2, bucketIndex(61))
	assert.Equal(t, 2, bucketIndex(90))
	assert.Equal(t, 3, bucketIndex(91))
	assert.Equal(t, 3, bucketIndex(365))
}

func TestComputeAgingPartitionsInvoices(t *testing.T) {
	f := newFixture(t)
	svc := NewAgingService(f.db)
	asOf := day(2026, time.June, 15)

	seedInvoice(t, f, "INV-1", "50.00", asOf, models.InvoiceSent)                     // due today -> current
	seedInvoice(t, f, "INV-2", "80.00", asOf.AddDate(0, 0, -40), models.InvoiceOverdue) // thirty
	seedInvoice(t, f, "INV-3", "20.00", asOf.AddDate(0, 0, -70), models.InvoiceOverdue) // sixty
	seedInvoice(t, f, "INV-4", "10.00", asOf.AddDate(0, 0, -120), models.InvoiceOpen)   // ninety_plus
	seedInvoice(t, f, "INV-5", "99.00", asOf.AddDate(0, 0, -40), models.InvoicePaid)    // excluded

	report, err := svc.ComputeAging(f.company.ID, asOf)
	require.NoError(t, err)

	require.Len(t, report.Buckets, 4)
	assert.Equal(t, "current", report.Buckets[0].Label)
	assert.Equal(t, "thirty", report.Buckets[1].Label)
	assert.Equal(t, "sixty", report.Buckets[2].Label)
	assert.Equal(t, "ninety_plus", report.Buckets[3].Label)

	assert.True(t, report.Buckets[0].Total.Equal(mustDecimal(t, "50.00")))
	assert.True(t, report.Buckets[1].Total.Equal(mustDecimal(t, "80.00")))
	assert.True(t, report.Buckets[2].Total.Equal(mustDecimal(t, "20.00")))
	assert.True(t, report.Buckets[3].Total.Equal(mustDecimal(t, "10.00")))

	assert.Equal(t, 4, report.TotalInvoices)
	assert.True(t, report.GrandTotal.Equal(mustDecimal(t, "160.00")))

	// every invoice lands in exactly one bucket
	sum := decimal.Zero
	count := 0
	for _, bucket := range report.Buckets {
		assert.Equal(t, bucket.Count, len(bucket.Invoices))
		sum = sum.Add(bucket.Total)
		count += bucket.Count
	}
	assert.True(t, sum.Equal(report.GrandTotal))
	assert.Equal(t, report.TotalInvoices, count)
}

func TestComputeAgingEmpty(t *testing.T) {
	f := newFixture(t)
	svc := NewAgingService(f.db)

	report, err := svc.ComputeAging(f.company.ID, day(2026, time.June, 15))
	require.NoError(t, err)

	assert.Zero(t, report.TotalInvoices)
	assert.True(t, report.GrandTotal.IsZero())
	for _, bucket := range report.Buckets {
		assert.Zero(t, bucket.Count)
		assert.True(t, bucket.Total.IsZero())
	}
}
