package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"neonfood/internal/logger"
	"neonfood/internal/messaging"
	"neonfood/internal/models"
)

// Subscriber consumes notification envelopes from the fanout queue and
// displays them. It is one possible delivery channel; others (email, SMS,
// webhooks) bind their own queues to the same exchange.
type Subscriber struct {
	consumer *messaging.Consumer
	logger   *logger.Logger
}

// NewSubscriber creates a notification subscriber.
func NewSubscriber(consumer *messaging.Consumer, log *logger.Logger) *Subscriber {
	return &Subscriber{consumer: consumer, logger: log}
}

// Start consumes notifications until the context is cancelled.
func (s *Subscriber) Start(ctx context.Context) error {
	requestID := logger.GenerateRequestID()
	s.logger.Info("service_started", requestID, "Notification subscriber started", nil)

	err := s.consumer.StartConsuming(ctx, s.handleNotification)
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

// handleNotification decodes one envelope and prints it.
func (s *Subscriber) handleNotification(ctx context.Context, body []byte) error {
	var envelope models.NotificationEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to parse notification envelope: %w", err)
	}

	payload, err := decodePayload(envelope.Kind, envelope.Payload)
	if err != nil {
		return err
	}

	fmt.Printf("[%s] %s\n", envelope.Timestamp.Format("2006-01-02 15:04:05"), FormatNotification(envelope.Kind, payload))

	s.logger.Debug("notification_received", "", "Displayed notification", map[string]any{
		"kind": string(envelope.Kind),
	})
	return nil
}

// decodePayload restores the typed event for known kinds so formatting
// matches the in-process sink. Unknown kinds fall back to raw display.
func decodePayload(kind models.NotificationKind, raw json.RawMessage) (any, error) {
	var target any
	switch kind {
	case models.KindNewOrders:
		target = &models.NewOrderEvent{}
	case models.KindOrderReady:
		target = &models.OrderReadyEvent{}
	case models.KindLowStock:
		target = &models.LowStockEvent{}
	case models.KindCustomerReviews:
		target = &models.ReviewEvent{}
	case models.KindDailyReport, models.KindWeeklyReport:
		target = &models.ReportEvent{}
	case models.KindSystemUpdates:
		target = &models.SystemUpdateEvent{}
	default:
		return string(raw), nil
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("failed to parse %s payload: %w", kind, err)
	}
	return target, nil
}
