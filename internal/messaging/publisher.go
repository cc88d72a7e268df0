package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"neonfood/internal/logger"
	"neonfood/internal/models"
)

// Publisher handles message publishing to RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *logger.Logger
}

// NewPublisher creates a new message publisher.
func NewPublisher(conn *Connection, log *logger.Logger) *Publisher {
	return &Publisher{conn: conn, logger: log}
}

// PublishTicket routes a kitchen ticket to the kitchen topic exchange.
// Priority orders carry a higher AMQP priority so displays pull them first.
func (p *Publisher) PublishTicket(ctx context.Context, ticket *models.KitchenTicket) error {
	body, err := json.Marshal(ticket)
	if err != nil {
		return fmt.Errorf("failed to marshal kitchen ticket: %w", err)
	}

	priority := uint8(1)
	if ticket.IsPriority {
		priority = 10
	}

	return p.publish(ctx, KitchenExchange, ticket.RoutingKey(), body, priority, true)
}

// PublishNotification publishes a notification envelope to the fanout
// exchange.
func (p *Publisher) PublishNotification(ctx context.Context, body []byte) error {
	return p.publish(ctx, NotificationsExchange, "", body, 0, false)
}

func (p *Publisher) publish(ctx context.Context, exchange, routingKey string, body []byte, priority uint8, persistent bool) error {
	if p.conn.IsClosed() {
		if err := p.conn.Reconnect(); err != nil {
			return fmt.Errorf("failed to reconnect: %w", err)
		}
	}

	deliveryMode := amqp091.Transient
	if persistent {
		deliveryMode = amqp091.Persistent
	}

	publishing := amqp091.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: deliveryMode,
		Timestamp:    time.Now().UTC(),
	}
	if priority > 0 {
		publishing.Priority = priority
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := p.conn.Channel().PublishWithContext(ctx,
		exchange, routingKey,
		false, // mandatory
		false, // immediate
		publishing,
	)
	if err != nil {
		p.logger.Error("message_publish_failed", "",
			fmt.Sprintf("Failed to publish message to exchange %s", exchange), err,
			map[string]any{"exchange": exchange, "routing_key": routingKey})
		return fmt.Errorf("failed to publish message: %w", err)
	}

	p.logger.Debug("message_published", "",
		fmt.Sprintf("Published message to exchange %s", exchange),
		map[string]any{"exchange": exchange, "routing_key": routingKey, "message_size": len(body)})

	return nil
}

// Close closes the underlying connection.
func (p *Publisher) Close() error {
	return p.conn.Close()
}
