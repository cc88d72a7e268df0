package messaging

import (
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"neonfood/internal/config"
	"neonfood/internal/logger"
)

// Exchange and queue names used by the platform.
const (
	KitchenExchange       = "kitchen_topic"
	NotificationsExchange = "notifications_fanout"
	KitchenQueue          = "kitchen_queue"
	NotificationsQueue    = "notifications_queue"
)

// Connection wraps a RabbitMQ connection with reconnection logic.
type Connection struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	logger  *logger.Logger
	url     string
}

// New establishes a RabbitMQ connection and declares the topology.
func New(cfg *config.Config, log *logger.Logger) (*Connection, error) {
	conn := &Connection{
		logger: log,
		url:    cfg.RabbitMQURL(),
	}

	if err := conn.connect(); err != nil {
		return nil, fmt.Errorf("failed to establish initial connection: %w", err)
	}

	return conn, nil
}

// connect dials RabbitMQ with retries and sets up exchanges and queues.
func (c *Connection) connect() error {
	maxRetries := 5
	var err error

	for i := 0; i < maxRetries; i++ {
		c.conn, err = amqp091.Dial(c.url)
		if err == nil {
			c.channel, err = c.conn.Channel()
			if err == nil {
				if setupErr := c.setupTopology(); setupErr != nil {
					c.logger.Error("rabbitmq_setup_failed", "startup", "Failed to set up topology", setupErr, nil)
					c.close()
					err = setupErr
				} else {
					return nil
				}
			} else {
				c.conn.Close()
			}
		}

		if i < maxRetries-1 {
			waitTime := time.Duration(i+1) * 2 * time.Second
			c.logger.Error("rabbitmq_connection_failed", "startup",
				fmt.Sprintf("Failed to connect to RabbitMQ, retrying in %v", waitTime), err, nil)
			time.Sleep(waitTime)
		}
	}

	return fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", maxRetries, err)
}

// setupTopology declares the kitchen topic exchange, the notifications
// fanout exchange and their queues.
func (c *Connection) setupTopology() error {
	err := c.channel.ExchangeDeclare(
		KitchenExchange, "topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare %s exchange: %w", KitchenExchange, err)
	}

	err = c.channel.ExchangeDeclare(
		NotificationsExchange, "fanout",
		true, false, false, false, nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare %s exchange: %w", NotificationsExchange, err)
	}

	_, err = c.channel.QueueDeclare(
		KitchenQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		amqp091.Table{"x-max-priority": int32(10)},
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", KitchenQueue, err)
	}

	// kitchen.normal and kitchen.priority both land here; a display that only
	// wants rush orders can bind its own queue to kitchen.priority.
	if err := c.channel.QueueBind(KitchenQueue, "kitchen.*", KitchenExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", KitchenQueue, err)
	}

	_, err = c.channel.QueueDeclare(NotificationsQueue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", NotificationsQueue, err)
	}

	if err := c.channel.QueueBind(NotificationsQueue, "", NotificationsExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", NotificationsQueue, err)
	}

	return nil
}

// Channel returns the current channel.
func (c *Connection) Channel() *amqp091.Channel {
	return c.channel
}

// Close closes the connection.
func (c *Connection) Close() error {
	return c.close()
}

func (c *Connection) close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsClosed checks if the connection is closed.
func (c *Connection) IsClosed() bool {
	return c.conn == nil || c.conn.IsClosed()
}

// Reconnect attempts to re-establish the connection and topology.
func (c *Connection) Reconnect() error {
	c.close()
	return c.connect()
}
