package services

import (
	"pawtrack-backend/models"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BillingScheduler runs the recurring billing jobs: auto-generating
// invoices per billing cycle and sweeping sent invoices past due into
// overdue. Each company is processed independently; a failure for one is
// logged and does not stop the run.
type BillingScheduler struct {
	c        *cron.Cron
	db       *gorm.DB
	invoices *InvoiceService
	workflow *InvoiceWorkflow
	log      *zap.Logger
}

func NewBillingScheduler(db *gorm.DB, invoices *InvoiceService, workflow *InvoiceWorkflow, log *zap.Logger) *BillingScheduler {
	return &BillingScheduler{
		c:        cron.New(),
		db:       db,
		invoices: invoices,
		workflow: workflow,
		log:      log,
	}
}

func (s *BillingScheduler) Start() {
	// Generate at 6 AM so invoices are ready before the workday
	s.c.AddFunc("0 6 * * *", func() { s.RunAutoGenerate(models.BillingCycleDaily) })
	s.c.AddFunc("0 6 * * 1", func() { s.RunAutoGenerate(models.BillingCycleWeekly) })
	s.c.AddFunc("0 6 1 * *", func() { s.RunAutoGenerate(models.BillingCycleMonthly) })
	s.c.AddFunc("30 6 * * *", s.RunOverdueSweep)

	s.c.Start()
	s.log.Info("billing scheduler started")
}

func (s *BillingScheduler) Stop() {
	s.c.Stop()
}

// RunAutoGenerate invoices every company's clients on the given cycle.
func (s *BillingScheduler) RunAutoGenerate(cycle models.BillingCycle) {
	var companies []models.Company
	if err := s.db.Find(&companies).Error; err != nil {
		s.log.Error("failed to list companies for auto-generate", zap.Error(err))
		return
	}
	for _, company := range companies {
		summary, err := s.invoices.AutoGenerate(company.ID, cycle)
		if err != nil {
			s.log.Error("auto-generate run failed",
				zap.String("company_id", company.ID.String()),
				zap.String("cycle", string(cycle)),
				zap.Error(err))
			continue
		}
		if summary.Clients > 0 {
			s.log.Info("auto-generate completed",
				zap.String("company_id", company.ID.String()),
				zap.String("cycle", string(cycle)),
				zap.Int("generated", summary.Generated),
				zap.Int("skipped", summary.Skipped),
				zap.Int("failed", summary.Failed))
		}
	}
}

// RunOverdueSweep marks sent invoices past due as overdue.
func (s *BillingScheduler) RunOverdueSweep() {
	if _, err := s.workflow.SweepOverdue(); err != nil {
		s.log.Error("overdue sweep failed", zap.Error(err))
	}
}
