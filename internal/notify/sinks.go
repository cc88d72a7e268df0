package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"neonfood/internal/logger"
	"neonfood/internal/models"
)

// LogSink formats accepted events and prints them to the console. It is the
// local delivery mechanism; real channels plug in as additional sinks
// without changing any caller.
type LogSink struct {
	logger *logger.Logger
}

// NewLogSink creates a console sink.
func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{logger: log}
}

func (s *LogSink) Send(ctx context.Context, kind models.NotificationKind, payload any) error {
	fmt.Println(FormatNotification(kind, payload))
	s.logger.Info("notification_displayed", "", "Notification displayed", map[string]any{
		"kind": string(kind),
	})
	return nil
}

// FormatNotification renders a human-readable line per notification kind.
func FormatNotification(kind models.NotificationKind, payload any) string {
	switch kind {
	case models.KindNewOrders:
		if e, ok := payload.(*models.NewOrderEvent); ok {
			line := fmt.Sprintf("📦 New Order #%d from %s | Total: $%.2f | Items: %d",
				e.OrderID, e.CustomerName, e.Total, e.ItemCount)
			if e.IsPriority {
				line += " | ⚡ PRIORITY ORDER - Expedite!"
			}
			return line
		}
	case models.KindOrderReady:
		if e, ok := payload.(*models.OrderReadyEvent); ok {
			return fmt.Sprintf("✅ Order #%d is ready for pickup | Customer: %s | Table: %d",
				e.OrderID, e.CustomerName, e.TableNumber)
		}
	case models.KindLowStock:
		if e, ok := payload.(*models.LowStockEvent); ok {
			return fmt.Sprintf("⚠️  Low Stock Alert: %s | Current: %d | Minimum: %d",
				e.Item, e.CurrentStock, e.MinStock)
		}
	case models.KindCustomerReviews:
		if e, ok := payload.(*models.ReviewEvent); ok {
			return fmt.Sprintf("💬 New Review: %d/5 from %s: %q", e.Rating, e.CustomerName, e.Comment)
		}
	case models.KindDailyReport:
		if e, ok := payload.(*models.ReportEvent); ok {
			return fmt.Sprintf("📊 Daily Report %s | Orders: %d | Revenue: $%.2f | Avg Prep: %.1f min",
				e.Start.Format("2006-01-02"), e.TotalOrders, e.TotalRevenue, e.AvgPrepMinutes)
		}
	case models.KindWeeklyReport:
		if e, ok := payload.(*models.ReportEvent); ok {
			line := fmt.Sprintf("📈 Weekly Report - Week of %s | Orders: %d | Revenue: $%.2f",
				e.Start.Format("2006-01-02"), e.TotalOrders, e.TotalRevenue)
			if e.GrowthPercent != nil {
				line += fmt.Sprintf(" | Growth: %.1f%%", *e.GrowthPercent)
			}
			return line
		}
	case models.KindSystemUpdates:
		if e, ok := payload.(*models.SystemUpdateEvent); ok {
			return fmt.Sprintf("🔧 System Update: %s - %s | Scheduled: %s",
				e.Title, e.Description, e.ScheduledAt.Format("2006-01-02 15:04"))
		}
	}
	return fmt.Sprintf("🔔 Notification [%s]: %+v", kind, payload)
}

// NotificationPublisher publishes a serialized envelope to the notifications
// fanout exchange.
type NotificationPublisher interface {
	PublishNotification(ctx context.Context, body []byte) error
}

// AMQPSink hands accepted events to the message broker so delivery channels
// can subscribe without coupling the state machine to formatting logic.
type AMQPSink struct {
	publisher NotificationPublisher
}

// NewAMQPSink creates a broker-backed sink.
func NewAMQPSink(publisher NotificationPublisher) *AMQPSink {
	return &AMQPSink{publisher: publisher}
}

func (s *AMQPSink) Send(ctx context.Context, kind models.NotificationKind, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode notification payload: %w", err)
	}

	envelope := models.NotificationEnvelope{
		Kind:      kind,
		Timestamp: time.Now().UTC(),
		Payload:   raw,
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to encode notification envelope: %w", err)
	}

	return s.publisher.PublishNotification(ctx, body)
}
