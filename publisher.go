package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/streadway/amqp"
)

const distributionEventsQueue = "distribution_events"

type DistributionEvent struct {
	Type           string  `json:"type"`
	DistributionID int     `json:"distribution_id"`
	UserID         int     `json:"user_id"`
	Amount         float64 `json:"amount"`
	Friends        int     `json:"friends"`
}

type EventPublisher interface {
	Publish(event DistributionEvent) error
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(DistributionEvent) error { return nil }

// RabbitMQPublisher is an implementation of EventPublisher using RabbitMQ
type RabbitMQPublisher struct {
	mu      sync.Mutex
	conn    *amqp.Connection // Connection to RabbitMQ
	channel *amqp.Channel    // Channel to communicate with RabbitMQ
	queue   amqp.Queue       // Queue to which events will be published
	log     *slog.Logger
}

func NewRabbitMQPublisher(rabbitMQURL string, logger *slog.Logger) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(rabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	queue, err := ch.QueueDeclare(
		distributionEventsQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &RabbitMQPublisher{
		conn:    conn,
		channel: ch,
		queue:   queue,
		log:     logger,
	}, nil
}

// Publish sends an event to the RabbitMQ queue
func (p *RabbitMQPublisher) Publish(event DistributionEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.Publish(
		"",           // default exchange routes by queue name
		p.queue.Name, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}

	p.log.Debug("event published", "type", event.Type, "distribution_id", event.DistributionID)
	return nil
}

// Close releases RabbitMQ resources
func (p *RabbitMQPublisher) Close() {
	p.channel.Close()
	p.conn.Close()
}
