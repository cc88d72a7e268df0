// Package kitchen implements the kitchen display: a consumer of new-order
// tickets routed through the kitchen topic exchange.
package kitchen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"neonfood/internal/logger"
	"neonfood/internal/messaging"
	"neonfood/internal/models"
)

// Display consumes kitchen tickets and renders them for kitchen staff.
type Display struct {
	consumer *messaging.Consumer
	logger   *logger.Logger
}

// NewDisplay creates a kitchen display consumer.
func NewDisplay(consumer *messaging.Consumer, log *logger.Logger) *Display {
	return &Display{consumer: consumer, logger: log}
}

// Start consumes tickets until the context is cancelled.
func (d *Display) Start(ctx context.Context) error {
	requestID := logger.GenerateRequestID()
	d.logger.Info("service_started", requestID, "Kitchen display started", nil)

	err := d.consumer.StartConsuming(ctx, d.handleTicket)
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

func (d *Display) handleTicket(ctx context.Context, body []byte) error {
	var ticket models.KitchenTicket
	if err := json.Unmarshal(body, &ticket); err != nil {
		return fmt.Errorf("failed to parse kitchen ticket: %w", err)
	}

	fmt.Println(formatTicket(&ticket))

	d.logger.Debug("ticket_displayed", "", "Kitchen ticket displayed", map[string]any{
		"order_id":    ticket.OrderID,
		"is_priority": ticket.IsPriority,
	})
	return nil
}

// formatTicket renders a printable kitchen ticket.
func formatTicket(t *models.KitchenTicket) string {
	var b strings.Builder

	header := fmt.Sprintf("ORDER #%d | Table %d | %s", t.OrderID, t.TableNumber, t.CustomerName)
	if t.IsPriority {
		header += " | ⚡ PRIORITY"
	}
	b.WriteString(header)
	b.WriteByte('\n')

	for _, item := range t.Items {
		fmt.Fprintf(&b, "  %dx %s\n", item.Quantity, item.Name)
	}
	fmt.Fprintf(&b, "  ready in ~%d min (placed %s)", t.EstimatedTime, t.OrderTime.Format("15:04:05"))

	return b.String()
}
