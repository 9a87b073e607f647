package consumption

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/bagstock/internal/domain/bags"
	"github.com/mamadbah2/bagstock/internal/domain/models"
)

const snapshotSheetRange = "Consumo!A:N"

// SalesSource supplies sale lines grouped by (sku, product name, document
// type) for the half-open interval [start, end).
type SalesSource interface {
	AggregateSales(ctx context.Context, start, end time.Time) ([]models.SalesAggregateRow, error)
}

// SnapshotStore persists report snapshots.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snapshot models.ConsumptionSnapshot) error
}

// RowWriter appends a row to a spreadsheet range.
type RowWriter interface {
	WriteRow(ctx context.Context, sheetRange string, values []interface{}) error
}

// Result bundles a computed report with the window it covers.
type Result struct {
	Window      Window
	Report      models.ConsumptionReport
	GeneratedAt time.Time
}

// Options configures a Service.
type Options struct {
	Location     *time.Location
	LookbackDays int
	Snapshots    SnapshotStore
	Sheet        RowWriter
}

// Service fetches sales for a window and runs the consumption calculator over them.
type Service struct {
	source     SalesSource
	calculator *Calculator
	opts       Options
	logger     *zap.Logger
	now        func() time.Time
}

// NewService wires a consumption reporting service.
func NewService(source SalesSource, calculator *Calculator, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if calculator == nil {
		calculator = NewCalculator(bags.Decompose, bags.DefaultInitialStock)
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Service{
		source:     source,
		calculator: calculator,
		opts:       opts,
		logger:     logger,
		now:        time.Now,
	}
}

// Calculator exposes the pure calculator for callers that already hold rows.
func (s *Service) Calculator() *Calculator { return s.calculator }

// Location is the timezone used to interpret report dates.
func (s *Service) Location() *time.Location { return s.opts.Location }

// Generate computes the report for the window [from, to]. Nil bounds take
// their defaults.
func (s *Service) Generate(ctx context.Context, from, to *time.Time) (Result, error) {
	now := s.now()
	window, err := ResolveWindow(from, to, now, s.opts.Location, s.opts.LookbackDays)
	if err != nil {
		return Result{}, err
	}

	if s.source == nil {
		return Result{}, errors.New("sales source not configured")
	}

	rows, err := s.source.AggregateSales(ctx, window.Start(), window.End())
	if err != nil {
		return Result{}, fmt.Errorf("fetch sales rows: %w", err)
	}

	report := s.calculator.Compute(rows)

	if len(report.UnmappedSKUs) > 0 {
		s.logger.Warn("sales with unmapped skus",
			zap.Stringer("window", window),
			zap.Strings("skus", report.UnmappedSKUs))
	}

	s.logger.Debug("consumption report computed",
		zap.Stringer("window", window),
		zap.Int("rows", len(rows)),
		zap.Int("detail_lines", len(report.Detail)),
		zap.Int("consumo_8", report.Consumed8()),
		zap.Int("consumo_20", report.Consumed20()))

	return Result{Window: window, Report: report, GeneratedAt: now}, nil
}

// Snapshot persists a summary of result to every configured sink. Sinks are
// attempted independently; the first failure is returned.
func (s *Service) Snapshot(ctx context.Context, result Result) (models.ConsumptionSnapshot, error) {
	snapshot := BuildSnapshot(uuid.NewString(), result)

	var firstErr error

	if s.opts.Snapshots != nil {
		if err := s.opts.Snapshots.SaveSnapshot(ctx, snapshot); err != nil {
			s.logger.Error("failed to store snapshot", zap.String("run_id", snapshot.RunID), zap.Error(err))
			firstErr = fmt.Errorf("store snapshot: %w", err)
		}
	}

	if s.opts.Sheet != nil {
		if err := s.opts.Sheet.WriteRow(ctx, snapshotSheetRange, snapshotRow(snapshot)); err != nil {
			s.logger.Error("failed to export snapshot", zap.String("run_id", snapshot.RunID), zap.Error(err))
			if firstErr == nil {
				firstErr = fmt.Errorf("export snapshot: %w", err)
			}
		}
	}

	return snapshot, firstErr
}

// BuildSnapshot converts a result into its persisted form.
func BuildSnapshot(runID string, result Result) models.ConsumptionSnapshot {
	report := result.Report
	inventory := report.Inventory()

	return models.ConsumptionSnapshot{
		RunID:        runID,
		From:         result.Window.From,
		To:           result.Window.To,
		Consumed:     keyed(report.Consumed),
		InitialStock: keyed(report.InitialStock),
		Inventory:    keyed(inventory),
		Consumed8:    report.Consumed8(),
		Consumed20:   report.Consumed20(),
		Inventory8:   inventory.SmallTotal(),
		Inventory20:  inventory.LargeTotal(),
		DetailLines:  len(report.Detail),
		UnmappedSKUs: append([]string{}, report.UnmappedSKUs...),
		CreatedAt:    result.GeneratedAt.UTC(),
	}
}

func keyed(c bags.Counts) map[string]int {
	out := make(map[string]int, len(bags.Units))
	for _, u := range bags.Units {
		out[u.Key()] = c[u]
	}
	return out
}

func snapshotRow(s models.ConsumptionSnapshot) []interface{} {
	row := []interface{}{
		s.CreatedAt.Format(time.RFC3339),
		s.From.Format(dateLayout),
		s.To.Format(dateLayout),
	}
	for _, u := range bags.Units {
		row = append(row, s.Consumed[u.Key()])
	}
	for _, u := range bags.Units {
		row = append(row, s.Inventory[u.Key()])
	}
	row = append(row, joinSKUs(s.UnmappedSKUs))
	return row
}
