// Package notify decides, per settings toggle, whether to announce order
// lifecycle events and hands accepted events to kind-specific sinks. Dispatch
// never fails: a broken notification channel must not abort the checkout or
// status update that raised the event.
package notify

import (
	"context"
	"fmt"
	"time"

	"neonfood/internal/logger"
	"neonfood/internal/metrics"
	"neonfood/internal/models"
)

// defaultTimeout bounds a single sink delivery so a slow channel cannot
// stall the caller.
const defaultTimeout = 5 * time.Second

// SettingsSource exposes the cached settings snapshot. Current returns nil
// when nothing has been loaded yet; dispatch treats that as "announce
// nothing".
type SettingsSource interface {
	Current() *models.Settings
}

// Sink delivers one announced event. Implementations must be time-bounded
// and honor ctx cancellation.
type Sink interface {
	Send(ctx context.Context, kind models.NotificationKind, payload any) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, kind models.NotificationKind, payload any) error

func (f SinkFunc) Send(ctx context.Context, kind models.NotificationKind, payload any) error {
	return f(ctx, kind, payload)
}

// Dispatcher gates events on the settings toggles and fans accepted events
// out to the sinks registered for their kind.
type Dispatcher struct {
	source  SettingsSource
	sinks   map[models.NotificationKind][]Sink
	timeout time.Duration
	logger  *logger.Logger
	metrics *metrics.Registry
}

// NewDispatcher creates a dispatcher with no sinks registered. The settings
// source is an explicit dependency; there is no package-level state.
func NewDispatcher(source SettingsSource, log *logger.Logger, reg *metrics.Registry) *Dispatcher {
	return &Dispatcher{
		source:  source,
		sinks:   make(map[models.NotificationKind][]Sink),
		timeout: defaultTimeout,
		logger:  log,
		metrics: reg,
	}
}

// Register adds a sink for one notification kind. Multiple sinks per kind
// are delivered in registration order.
func (d *Dispatcher) Register(kind models.NotificationKind, sink Sink) {
	d.sinks[kind] = append(d.sinks[kind], sink)
}

// RegisterAll adds a sink for every known notification kind.
func (d *Dispatcher) RegisterAll(sink Sink) {
	for _, kind := range []models.NotificationKind{
		models.KindNewOrders,
		models.KindOrderReady,
		models.KindLowStock,
		models.KindCustomerReviews,
		models.KindDailyReport,
		models.KindWeeklyReport,
		models.KindSystemUpdates,
	} {
		d.Register(kind, sink)
	}
}

// Dispatch announces one event. Disabled kinds, unknown kinds, a missing
// settings snapshot and sink failures are all absorbed here; the caller
// never observes an error.
func (d *Dispatcher) Dispatch(ctx context.Context, kind models.NotificationKind, payload any) {
	snapshot := d.source.Current()
	if snapshot == nil {
		d.logger.Debug("notification_skipped", "", "No settings loaded, dropping notification", map[string]any{
			"kind": string(kind),
		})
		return
	}

	enabled, known := snapshot.Notifications.Enabled(kind)
	if !known {
		d.logger.Info("notification_unknown_kind", "", "Ignoring unknown notification kind", map[string]any{
			"kind": string(kind),
		})
		return
	}
	if !enabled {
		if d.metrics != nil {
			d.metrics.NotificationsSuppressed.WithLabelValues(string(kind)).Inc()
		}
		d.logger.Debug("notification_disabled", "", "Notification kind is disabled in settings", map[string]any{
			"kind": string(kind),
		})
		return
	}

	for _, sink := range d.sinks[kind] {
		d.deliver(ctx, sink, kind, payload)
	}

	if d.metrics != nil {
		d.metrics.NotificationsDispatched.WithLabelValues(string(kind)).Inc()
	}
}

// deliver invokes one sink with a bounded context, containing both errors
// and panics.
func (d *Dispatcher) deliver(ctx context.Context, sink Sink, kind models.NotificationKind, payload any) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("notification_handler_panicked", "", "Notification handler panicked", fmt.Errorf("panic: %v", r), map[string]any{
				"kind": string(kind),
			})
		}
	}()

	if err := sink.Send(ctx, kind, payload); err != nil {
		d.logger.Error("notification_failed", "", "Notification delivery failed", err, map[string]any{
			"kind": string(kind),
		})
	}
}
