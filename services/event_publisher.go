package services

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/yeremiapane/restaurant-reservation/events"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

const reservationQueue = "reservation.events"

// EventPublisher pushes domain events onto a durable RabbitMQ queue for
// downstream consumers (notification senders, analytics). Publishing is
// best-effort: failures are logged and returned, never fatal to a booking.
type EventPublisher struct {
	url string
}

// NewEventPublisher returns nil when url is empty, which disables queue
// fanout entirely.
func NewEventPublisher(url string) *EventPublisher {
	if url == "" {
		return nil
	}
	return &EventPublisher{url: url}
}

func (p *EventPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		utils.ErrorLogger.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		utils.ErrorLogger.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so events survive broker restarts.
	if _, err := ch.QueueDeclare(reservationQueue, true, false, false, false, nil); err != nil {
		utils.ErrorLogger.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		utils.ErrorLogger.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", reservationQueue, false, false, pub); err != nil {
		utils.ErrorLogger.Printf("rabbitmq: publish failed: %v", err)
		return err
	}

	return nil
}
