package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/pipeline"
)

var ErrNoReport = errors.New("no sales report available yet")

// Source supplies the raw sales dataset for one pipeline run.
type Source interface {
	Fetch(ctx context.Context) ([]models.RawSale, error)
}

// Dashboard holds the latest complete report. A failed run never replaces
// the current snapshot.
type Dashboard struct {
	mu         sync.RWMutex
	report     *models.Report
	lastErr    error
	lastRunAt  time.Time
	source     Source
	defaultTop int
	runs       atomic.Int64
	failures   atomic.Int64
	logger     *slog.Logger
}

func NewDashboard(source Source, defaultTopN int, logger *slog.Logger) *Dashboard {
	if logger == nil {
		logger = slog.Default()
	}
	if pipeline.ValidateTopN(defaultTopN) != nil {
		defaultTopN = pipeline.DefaultTopN
	}
	return &Dashboard{
		source:     source,
		defaultTop: defaultTopN,
		logger:     logger,
	}
}

// Refresh fetches the dataset and recomputes every table.
func (d *Dashboard) Refresh(ctx context.Context) error {
	if d.source == nil {
		return fmt.Errorf("refresh: no data source configured")
	}

	ctx, span := observability.StartSpan(ctx, "dashboard.refresh")
	defer func() {
		span.Finish()
		d.logger.Debug("refresh span", span.Fields()...)
	}()

	raw, err := d.source.Fetch(ctx)
	if err != nil {
		span.SetError(err)
		d.recordFailure(err)
		return fmt.Errorf("acquire dataset: %w", err)
	}
	span.SetTag("records", strconv.Itoa(len(raw)))

	if err := d.load(ctx, raw); err != nil {
		span.SetError(err)
		return err
	}
	return nil
}

// SetRecords runs the pipeline over an in-memory batch instead of the source.
func (d *Dashboard) SetRecords(ctx context.Context, raw []models.RawSale) error {
	return d.load(ctx, raw)
}

func (d *Dashboard) load(ctx context.Context, raw []models.RawSale) error {
	start := time.Now()

	ctx, span := observability.StartSpan(ctx, "pipeline.run")
	span.SetTag("records", strconv.Itoa(len(raw)))
	report, err := pipeline.Run(ctx, raw)
	if err != nil {
		span.SetError(err)
	} else {
		span.SetTag("run_id", report.RunID)
	}
	span.Finish()
	d.logger.Debug("pipeline span", span.Fields()...)

	if err != nil {
		d.recordFailure(err)
		return fmt.Errorf("run pipeline: %w", err)
	}

	d.mu.Lock()
	d.report = report
	d.lastErr = nil
	d.lastRunAt = time.Now()
	d.mu.Unlock()
	d.runs.Add(1)

	d.logger.Info("sales report computed",
		"run_id", report.RunID,
		"records", report.TotalSales,
		"total_revenue", report.TotalRevenue.StringFixed(2),
		"duration", time.Since(start),
	)
	return nil
}

func (d *Dashboard) recordFailure(err error) {
	d.mu.Lock()
	d.lastErr = err
	d.lastRunAt = time.Now()
	d.mu.Unlock()
	d.failures.Add(1)

	d.logger.Error("sales report refresh failed", "error", err)
}

// Run refreshes on every tick until ctx is cancelled. A zero interval
// disables the loop.
func (d *Dashboard) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// failure is recorded; the previous snapshot keeps serving
			_ = d.Refresh(ctx)
		}
	}
}

// Report returns the current snapshot or ErrNoReport.
func (d *Dashboard) Report() (*models.Report, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.report == nil {
		if d.lastErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrNoReport, d.lastErr)
		}
		return nil, ErrNoReport
	}
	return d.report, nil
}

func (d *Dashboard) DefaultTopN() int {
	return d.defaultTop
}

func (d *Dashboard) TopSellers(n int, rank pipeline.Rank) ([]models.SellerSummary, error) {
	report, err := d.Report()
	if err != nil {
		return nil, err
	}
	return pipeline.TopSellers(report.SellerSummary, n, rank)
}

// Stats is used by the admin endpoint.
func (d *Dashboard) Stats() map[string]any {
	d.mu.RLock()
	defer d.mu.RUnlock()

	stats := map[string]any{
		"runs":     d.runs.Load(),
		"failures": d.failures.Load(),
		"last_run": d.lastRunAt,
		"ready":    d.report != nil,
	}
	if d.lastErr != nil {
		stats["last_error"] = d.lastErr.Error()
	}
	if d.report != nil {
		stats["run_id"] = d.report.RunID
		stats["record_count"] = d.report.TotalSales
		stats["states"] = len(d.report.RevenueByState)
		stats["categories"] = len(d.report.RevenueByCategory)
		stats["months"] = len(d.report.RevenueByMonth)
		stats["sellers"] = len(d.report.SellerSummary)
	}
	return stats
}
