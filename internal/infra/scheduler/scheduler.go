package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/AlexHuggler/LCI-tracker/internal/domain/pool"
)

// ReportGenerator builds the fleet-wide profit report.
type ReportGenerator interface {
	ProfitReport(ctx context.Context, billingPeriodDays int) (pool.ProfitReport, error)
}

// ReportArchive persists generated reports and returns their key.
type ReportArchive interface {
	SaveReport(ctx context.Context, report pool.ProfitReport) (string, error)
}

// Scheduler runs the periodic profit report.
type Scheduler struct {
	cron        *cron.Cron
	reports     ReportGenerator
	archive     ReportArchive
	billingDays int
	timeout     time.Duration
	logger      *slog.Logger
}

// New creates a Scheduler. Cron expressions include a seconds field.
func New(reports ReportGenerator, archive ReportArchive, billingDays int, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:        cron.New(cron.WithSeconds()),
		reports:     reports,
		archive:     archive,
		billingDays: billingDays,
		timeout:     time.Minute,
		logger:      logger.With("component", "scheduler"),
	}
}

// Register adds the profit report job under expr.
func (s *Scheduler) Register(expr string) error {
	if _, err := s.cron.AddFunc(expr, s.profitTask); err != nil {
		return fmt.Errorf("register profit report: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop waits for running jobs or until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out")
	}
	s.logger.Info("scheduler stopped")
}

// RunNow builds, logs and archives the profit report immediately.
// The archive key is empty when no archive is configured.
func (s *Scheduler) RunNow(ctx context.Context) (pool.ProfitReport, string, error) {
	report, err := s.reports.ProfitReport(ctx, s.billingDays)
	if err != nil {
		return pool.ProfitReport{}, "", fmt.Errorf("build profit report: %w", err)
	}
	s.logger.Info("profit report generated",
		"pools", len(report.Pools),
		"revenue", report.TotalRevenue,
		"chem_cost", report.TotalChemCost,
		"profit", report.TotalProfit,
	)
	for _, p := range report.Pools {
		if p.IsInTheRed {
			s.logger.Warn("pool in the red",
				"pool_id", p.PoolID,
				"customer", p.CustomerName,
				"fee", p.MonthlyServiceFee,
				"chem_cost", p.TotalChemCost,
			)
		}
	}
	if s.archive == nil {
		return report, "", nil
	}
	key, err := s.archive.SaveReport(ctx, report)
	if err != nil {
		return report, "", fmt.Errorf("archive profit report: %w", err)
	}
	s.logger.Info("profit report archived", "key", key)
	return report, key, nil
}

func (s *Scheduler) profitTask() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if _, _, err := s.RunNow(ctx); err != nil {
		s.logger.Error("profit report failed", "error", err)
	}
}
