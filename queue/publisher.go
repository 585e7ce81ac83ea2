// Package queue publishes booking lifecycle messages to RabbitMQ.
package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"hotel-pms/services"
)

const LifecycleQueue = "booking.lifecycle"

// Publisher dials the broker per message. Lifecycle transitions are rare
// enough that a pooled connection is not worth the reconnect bookkeeping.
type Publisher struct {
	URL         string
	Queue       string
	DialTimeout time.Duration
}

func NewPublisher(url string) *Publisher {
	return &Publisher{URL: url, Queue: LifecycleQueue, DialTimeout: 2 * time.Second}
}

var _ services.EventPublisher = (*Publisher)(nil)

func encode(msg services.LifecycleMessage) (amqp.Publishing, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         string(msg.Event),
		Timestamp:    msg.OccurredAt.UTC(),
		Body:         body,
	}, nil
}

func (p *Publisher) Publish(ctx context.Context, msg services.LifecycleMessage) error {
	pub, err := encode(msg)
	if err != nil {
		log.Printf("rabbitmq: marshal %s failed: %v", msg.Event, err)
		return err
	}

	conn, err := amqp.DialConfig(p.URL, amqp.Config{Dial: amqp.DefaultDial(p.DialTimeout)})
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.Queue, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	// default exchange, routing key = queue name
	if err := ch.PublishWithContext(ctx, "", p.Queue, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
