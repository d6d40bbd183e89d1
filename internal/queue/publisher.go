package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ikkim/hairable-backend/pkg/logger"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventReservationCreated       = "reservation.created"
	EventReservationStatusChanged = "reservation.status_changed"
	EventReservationRescheduled   = "reservation.rescheduled"
)

// ReservationEvent is published after a reservation is created or changes status.
type ReservationEvent struct {
	Type            string    `json:"type"`
	ReservationID   uint      `json:"reservation_id"`
	StoreID         uint      `json:"store_id"`
	StaffID         *uint     `json:"staff_id,omitempty"`
	PreviousStatus  string    `json:"previous_status,omitempty"`
	Status          string    `json:"status"`
	ReservationTime time.Time `json:"reservation_time"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// AMQPPublisher publishes reservation events as persistent JSON messages to a durable queue.
type AMQPPublisher struct {
	url   string
	queue string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewAMQPPublisher(url, queue string) *AMQPPublisher {
	return &AMQPPublisher{url: url, queue: queue}
}

// channel lazily dials and reopens the channel after broker restarts.
func (p *AMQPPublisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	if p.conn == nil || p.conn.IsClosed() {
		conn, err := amqp.Dial(p.url)
		if err != nil {
			return nil, fmt.Errorf("rabbitmq dial: %w", err)
		}
		p.conn = conn
	}
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("rabbitmq queue declare: %w", err)
	}
	p.ch = ch
	return ch, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, event ReservationEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		logger.Error("Failed to open rabbitmq channel", err, map[string]interface{}{
			"queue": p.queue,
		})
		return err
	}

	err = ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         event.Type,
		Body:         body,
	})
	if err != nil {
		logger.Error("Failed to publish reservation event", err, map[string]interface{}{
			"queue":          p.queue,
			"type":           event.Type,
			"reservation_id": event.ReservationID,
		})
		return err
	}

	logger.Debug("Reservation event published", map[string]interface{}{
		"type":           event.Type,
		"reservation_id": event.ReservationID,
	})
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
