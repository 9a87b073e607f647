package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/bagstock/internal/domain/models"
	"github.com/mamadbah2/bagstock/internal/service/consumption"
)

// ReportService is the subset of the consumption service the scheduler needs.
type ReportService interface {
	Generate(ctx context.Context, from, to *time.Time) (consumption.Result, error)
	Snapshot(ctx context.Context, result consumption.Result) (models.ConsumptionSnapshot, error)
}

// Notifier delivers the report summary. It may be nil.
type Notifier interface {
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// Scheduler runs the periodic consumption report.
type Scheduler struct {
	cron      *cron.Cron
	schedule  string
	reports   ReportService
	notifier  Notifier
	recipient string
	logger    *zap.Logger
}

// NewScheduler creates a new scheduler instance evaluating schedule (standard
// 5-field cron) in loc.
func NewScheduler(schedule string, loc *time.Location, reports ReportService, notifier Notifier, recipient string, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		schedule:  schedule,
		reports:   reports,
		notifier:  notifier,
		recipient: recipient,
		logger:    logger,
	}
}

// Start registers the report job and starts the scheduler.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runReport); err != nil {
		return fmt.Errorf("schedule consumption report %q: %w", s.schedule, err)
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runReport() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.RunOnce(ctx); err != nil {
		s.logger.Error("scheduled consumption report failed", zap.Error(err))
	}
}

// RunOnce generates the default-window report, snapshots it and notifies the
// recipient. A snapshot failure does not prevent the notification.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	s.logger.Info("generating consumption report")

	result, err := s.reports.Generate(ctx, nil, nil)
	if err != nil {
		return fmt.Errorf("generate report: %w", err)
	}

	snapshot, snapErr := s.reports.Snapshot(ctx, result)
	if snapErr != nil {
		s.logger.Warn("snapshot incomplete", zap.String("run_id", snapshot.RunID), zap.Error(snapErr))
	}

	if s.notifier == nil || s.recipient == "" {
		s.logger.Info("consumption report stored without notification", zap.String("run_id", snapshot.RunID))
		return snapErr
	}

	req := models.OutboundMessageRequest{
		To:      s.recipient,
		Message: consumption.Summary(result),
	}
	if err := s.notifier.SendOutbound(ctx, req); err != nil {
		return fmt.Errorf("send report: %w", err)
	}

	s.logger.Info("consumption report sent", zap.String("run_id", snapshot.RunID))
	return snapErr
}
