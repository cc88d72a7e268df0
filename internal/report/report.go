// Package report aggregates sales figures from the order store and announces
// them through the daily and weekly report notification kinds.
package report

import (
	"context"
	"fmt"
	"time"

	"neonfood/internal/database"
	"neonfood/internal/logger"
	"neonfood/internal/models"
)

// Notifier matches the dispatcher's fire-and-forget contract.
type Notifier interface {
	Dispatch(ctx context.Context, kind models.NotificationKind, payload any)
}

// Builder computes report windows from the orders table.
type Builder struct {
	db     *database.DB
	logger *logger.Logger
}

// NewBuilder creates a report builder over the shared pool.
func NewBuilder(db *database.DB, log *logger.Logger) *Builder {
	return &Builder{db: db, logger: log}
}

// window holds the aggregates of one reporting period.
type window struct {
	orders  int
	revenue float64
	avgPrep float64
}

func (b *Builder) queryWindow(ctx context.Context, start, end time.Time) (window, error) {
	var w window
	err := b.db.QueryRow(ctx, database.ReportWindowSQL, start, end).Scan(&w.orders, &w.revenue, &w.avgPrep)
	if err != nil {
		return window{}, &models.PersistenceError{Op: "report query", Err: err}
	}
	return w, nil
}

// Daily builds the report for the calendar day containing now.
func (b *Builder) Daily(ctx context.Context, now time.Time) (*models.ReportEvent, error) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	w, err := b.queryWindow(ctx, start, end)
	if err != nil {
		return nil, err
	}

	return &models.ReportEvent{
		Period:         "daily",
		Start:          start,
		End:            end,
		TotalOrders:    w.orders,
		TotalRevenue:   w.revenue,
		AvgPrepMinutes: w.avgPrep,
	}, nil
}

// Weekly builds the report for the ISO week containing now, with revenue
// growth against the previous week.
func (b *Builder) Weekly(ctx context.Context, now time.Time) (*models.ReportEvent, error) {
	start := weekStart(now)
	end := start.AddDate(0, 0, 7)
	prevStart := start.AddDate(0, 0, -7)

	current, err := b.queryWindow(ctx, start, end)
	if err != nil {
		return nil, err
	}
	previous, err := b.queryWindow(ctx, prevStart, start)
	if err != nil {
		return nil, err
	}

	event := &models.ReportEvent{
		Period:       "weekly",
		Start:        start,
		End:          end,
		TotalOrders:  current.orders,
		TotalRevenue: current.revenue,
	}
	if growth, ok := growthPercent(current.revenue, previous.revenue); ok {
		event.GrowthPercent = &growth
	}
	return event, nil
}

// Run builds and dispatches one report. period is "daily" or "weekly".
func (b *Builder) Run(ctx context.Context, period string, notifier Notifier) error {
	now := time.Now().UTC()

	var event *models.ReportEvent
	var kind models.NotificationKind
	var err error

	switch period {
	case "daily":
		kind = models.KindDailyReport
		event, err = b.Daily(ctx, now)
	case "weekly":
		kind = models.KindWeeklyReport
		event, err = b.Weekly(ctx, now)
	default:
		return fmt.Errorf("unknown report period %q", period)
	}
	if err != nil {
		return err
	}

	b.logger.Info("report_built", "", "Report computed", map[string]any{
		"period":        event.Period,
		"total_orders":  event.TotalOrders,
		"total_revenue": event.TotalRevenue,
	})

	notifier.Dispatch(ctx, kind, event)
	return nil
}

// weekStart returns midnight UTC of the Monday of now's week.
func weekStart(now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// growthPercent returns the revenue change against the previous period. It
// reports false when there is no previous revenue to compare against.
func growthPercent(current, previous float64) (float64, bool) {
	if previous <= 0 {
		return 0, false
	}
	return (current - previous) / previous * 100, true
}
