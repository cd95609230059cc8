package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/config"
	"github.com/mamadbah2/herdbook/internal/service/billing"
	"github.com/mamadbah2/herdbook/internal/service/reporting"
	"github.com/mamadbah2/herdbook/internal/service/sales"
)

const (
	overdueCron   = "0 1 * * *"
	reconcileCron = "*/30 * * * *"
)

// Scheduler manages the recurring maintenance jobs: the daily summary, the
// overdue-invoice sweep and the sale-workflow reconciliation.
type Scheduler struct {
	cron         *cron.Cron
	reportingSvc *reporting.Service
	billingSvc   *billing.Service
	salesSvc     *sales.Service
	cfg          config.ReportingConfig
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.ReportingConfig, reportingSvc *reporting.Service, billingSvc *billing.Service, salesSvc *sales.Service, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, falling back to UTC", zap.String("timezone", cfg.Timezone), zap.Error(err))
		loc = time.UTC
	}

	return &Scheduler{
		cron:         cron.New(cron.WithLocation(loc)),
		reportingSvc: reportingSvc,
		billingSvc:   billingSvc,
		salesSvc:     salesSvc,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler")

	if _, err := s.cron.AddFunc(s.cfg.SummaryCron, s.publishDailySummary); err != nil {
		s.logger.Error("failed to schedule daily summary", zap.String("cron", s.cfg.SummaryCron), zap.Error(err))
	}
	if _, err := s.cron.AddFunc(overdueCron, s.sweepOverdueInvoices); err != nil {
		s.logger.Error("failed to schedule overdue sweep", zap.Error(err))
	}
	if _, err := s.cron.AddFunc(reconcileCron, s.reconcileSales); err != nil {
		s.logger.Error("failed to schedule sale reconciliation", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) publishDailySummary() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if _, err := s.reportingSvc.PublishDailySummary(ctx); err != nil {
		s.logger.Error("daily summary publication failed", zap.Error(err))
	}
}

func (s *Scheduler) sweepOverdueInvoices() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := s.billingSvc.MarkOverdue(ctx); err != nil {
		s.logger.Error("overdue sweep failed", zap.Error(err))
	}
}

func (s *Scheduler) reconcileSales() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := s.salesSvc.Reconcile(ctx); err != nil {
		s.logger.Error("sale reconciliation failed", zap.Error(err))
	}
}
