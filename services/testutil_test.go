package services

import (
	"fmt"
	"testing"
	"time"

	"pawtrack-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// stubNotifier records delivery attempts and fails on demand.
type stubNotifier struct {
	emails   int
	smses    int
	emailErr error
	smsErr   error
}

func (n *stubNotifier) SendInvoiceEmail(invoice *models.Invoice, client *models.Client) error {
	n.emails++
	return n.emailErr
}

func (n *stubNotifier) SendInvoiceSMS(invoice *models.Invoice, client *models.Client) error {
	n.smses++
	return n.smsErr
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.Client{},
		&models.Pet{},
		&models.Staff{},
		&models.ServiceType{},
		&models.BillingPlan{},
		&models.Appointment{},
		&models.Invoice{},
		&models.Paysheet{},
		&models.PaysheetLine{},
		&models.DeliveryLog{},
	))
	return db
}

type fixture struct {
	db      *gorm.DB
	company models.Company
	client  models.Client
	staff   models.Staff
	walk    models.ServiceType
	groom   models.ServiceType
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupTestDB(t)

	f := &fixture{db: db}

	f.company = models.Company{Name: "Happy Paws"}
	require.NoError(t, db.Create(&f.company).Error)

	f.client = models.Client{
		CompanyID:       f.company.ID,
		CreatedByUserID: uuid.New(),
		Name:            "Dana Webb",
		Phone:           "+15551230001",
		Email:           "dana@example.com",
		BillingCycle:    models.BillingCycleWeekly,
		IsActive:        true,
	}
	require.NoError(t, db.Create(&f.client).Error)

	f.staff = models.Staff{
		CompanyID: f.company.ID,
		Name:      "Riley Chen",
		IsActive:  true,
	}
	require.NoError(t, db.Create(&f.staff).Error)

	f.walk = f.serviceType(t, "30 Min Walk", "30.00", "15.00", 30)
	f.groom = f.serviceType(t, "Grooming", "45.00", "22.00", 60)
	return f
}

func (f *fixture) serviceType(t *testing.T, name, price, earnings string, minutes int) models.ServiceType {
	t.Helper()
	st := models.ServiceType{
		CompanyID:       f.company.ID,
		Name:            name,
		ClientPrice:     mustDecimal(t, price),
		StaffEarnings:   mustDecimal(t, earnings),
		DurationMinutes: minutes,
		IsActive:        true,
	}
	require.NoError(t, f.db.Create(&st).Error)
	return st
}

func (f *fixture) appointment(t *testing.T, st models.ServiceType, at time.Time, status models.AppointmentStatus) models.Appointment {
	t.Helper()
	apt := models.Appointment{
		CompanyID:     f.company.ID,
		ClientID:      f.client.ID,
		StaffID:       f.staff.ID,
		ServiceTypeID: st.ID,
		ScheduledAt:   at,
		Status:        status,
	}
	require.NoError(t, f.db.Create(&apt).Error)
	return apt
}

func (f *fixture) invoices(clock Clock) *InvoiceService {
	log := zap.NewNop()
	ledger := NewLedgerService(f.db, log)
	rates := NewRateTable(f.db)
	return NewInvoiceService(f.db, ledger, rates, clock, log, 14)
}

func (f *fixture) workflow(clock Clock, notifier Notifier) *InvoiceWorkflow {
	log := zap.NewNop()
	ledger := NewLedgerService(f.db, log)
	return NewInvoiceWorkflow(f.db, ledger, notifier, clock, log)
}

func (f *fixture) paysheets(clock Clock) *PaysheetService {
	return NewPaysheetService(f.db, NewRateTable(f.db), clock, zap.NewNop())
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 10, 0, 0, 0, time.UTC)
}
