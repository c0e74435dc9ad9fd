package services

import (
	"os"
	"strconv"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Registry wires the billing services together for the HTTP layer.
type Registry struct {
	Ledger    *LedgerService
	Rates     *RateTable
	Invoices  *InvoiceService
	Workflow  *InvoiceWorkflow
	Aging     *AgingService
	Paysheets *PaysheetService
	TaxReport *TaxReportService
	Scheduler *BillingScheduler
}

func NewRegistry(db *gorm.DB, clock Clock, notifier Notifier, log *zap.Logger) *Registry {
	graceDays := 14
	if env := os.Getenv("INVOICE_GRACE_DAYS"); env != "" {
		if d, err := strconv.Atoi(env); err == nil && d >= 0 {
			graceDays = d
		}
	}

	ledger := NewLedgerService(db, log)
	rates := NewRateTable(db)
	invoices := NewInvoiceService(db, ledger, rates, clock, log, graceDays)
	workflow := NewInvoiceWorkflow(db, ledger, notifier, clock, log)

	return &Registry{
		Ledger:    ledger,
		Rates:     rates,
		Invoices:  invoices,
		Workflow:  workflow,
		Aging:     NewAgingService(db),
		Paysheets: NewPaysheetService(db, rates, clock, log),
		TaxReport: NewTaxReportService(db),
		Scheduler: NewBillingScheduler(db, invoices, workflow, log),
	}
}
