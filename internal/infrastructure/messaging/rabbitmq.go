// Package messaging publishes quotation lifecycle events.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/sangkips/quotation-engine/internal/domain/repository"
)

// statusEvent is the message body. Statuses travel as their string keys.
type statusEvent struct {
	Type            string    `json:"type"`
	QuotationID     string    `json:"quotationId"`
	QuotationNumber string    `json:"quotationNumber"`
	From            string    `json:"from"`
	To              string    `json:"to"`
	At              time.Time `json:"at"`
}

const eventStatusChanged = "quotation.status_changed"

func encode(ev repository.StatusChanged) ([]byte, error) {
	return json.Marshal(statusEvent{
		Type:            eventStatusChanged,
		QuotationID:     ev.QuotationID,
		QuotationNumber: ev.QuotationNumber,
		From:            ev.From.String(),
		To:              ev.To.String(),
		At:              ev.At.UTC(),
	})
}

// RabbitMQPublisher implements repository.EventPublisher on a durable queue.
type RabbitMQPublisher struct {
	conn    *amqp.Connection
	mu      sync.Mutex
	channel *amqp.Channel
	queue   string
	logger  *slog.Logger
}

// NewRabbitMQPublisher dials the broker and declares the queue.
func NewRabbitMQPublisher(url, queue string, logger *slog.Logger) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}
	logger.Info("connected to RabbitMQ", "queue", queue)
	return &RabbitMQPublisher{conn: conn, channel: ch, queue: queue, logger: logger}, nil
}

func (p *RabbitMQPublisher) PublishStatusChanged(ctx context.Context, ev repository.StatusChanged) error {
	body, err := encode(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal status event: %w", err)
	}

	// amqp channels are not safe for concurrent publishing
	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.channel.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Body:         body,
		Timestamp:    ev.At,
		MessageId:    ev.QuotationID + ":" + ev.To.String(),
	})
	if err != nil {
		return fmt.Errorf("failed to publish status event: %w", err)
	}
	p.logger.Info("status event published", "queue", p.queue, "id", ev.QuotationID, "to", ev.To.String())
	return nil
}

func (p *RabbitMQPublisher) Close() error {
	if err := p.channel.Close(); err != nil {
		p.logger.Error("failed to close RabbitMQ channel", "error", err)
	}
	return p.conn.Close()
}

// LogPublisher writes events to the log instead of a broker.
type LogPublisher struct {
	Logger *slog.Logger
}

func (p LogPublisher) PublishStatusChanged(_ context.Context, ev repository.StatusChanged) error {
	p.Logger.Info("status changed",
		"id", ev.QuotationID,
		"number", ev.QuotationNumber,
		"from", ev.From.String(),
		"to", ev.To.String(),
	)
	return nil
}
