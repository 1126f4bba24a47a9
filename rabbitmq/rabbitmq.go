package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"pizzeria-service/config"
	"pizzeria-service/models"
)

// Orders at or above this total jump the queue.
const largeOrderTotal = 5000

type RabbitMQ struct {
	Conn    *amqp.Connection
	Channel *amqp.Channel
	Cfg     *config.Config
}

func NewRabbitMQ(cfg *config.Config) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	return &RabbitMQ{
		Conn:    conn,
		Channel: ch,
		Cfg:     cfg,
	}, nil
}

func deadLetterExchange(cfg *config.Config) string {
	return cfg.DeadLetterQueue + "_exchange"
}

// SetupQueues declares the order exchange, the priority order queue and the
// dead-letter exchange and queue rejected messages end up in.
func (r *RabbitMQ) SetupQueues() error {
	if err := r.Channel.ExchangeDeclare(
		deadLetterExchange(r.Cfg),
		"direct",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("declare dead-letter exchange: %w", err)
	}

	if _, err := r.Channel.QueueDeclare(
		r.Cfg.DeadLetterQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		amqp.Table{"x-queue-type": "classic"},
	); err != nil {
		return fmt.Errorf("declare dead-letter queue: %w", err)
	}

	if err := r.Channel.QueueBind(r.Cfg.DeadLetterQueue, r.Cfg.DeadLetterQueue, deadLetterExchange(r.Cfg), false, nil); err != nil {
		return fmt.Errorf("bind dead-letter queue: %w", err)
	}

	if err := r.Channel.ExchangeDeclare(
		r.Cfg.OrderExchange,
		"fanout",
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("declare order exchange: %w", err)
	}

	if _, err := r.Channel.QueueDeclare(
		r.Cfg.OrderQueue,
		true,
		false,
		false,
		false,
		amqp.Table{
			"x-max-priority":            r.Cfg.MaxPriority,
			"x-dead-letter-exchange":    deadLetterExchange(r.Cfg),
			"x-dead-letter-routing-key": r.Cfg.DeadLetterQueue,
		},
	); err != nil {
		return fmt.Errorf("declare order queue: %w", err)
	}

	if err := r.Channel.QueueBind(r.Cfg.OrderQueue, "", r.Cfg.OrderExchange, false, nil); err != nil {
		return fmt.Errorf("bind order queue: %w", err)
	}
	return nil
}

// Priority ranks cancellations first, then large orders.
func Priority(evt models.OrderEvent) uint8 {
	switch {
	case evt.Status == models.StatusCancelled:
		return 9
	case evt.Type == models.EventCreated && evt.Total >= largeOrderTotal:
		return 8
	default:
		return 5
	}
}

// NewOrderMessage encodes evt as a persistent JSON message.
func NewOrderMessage(evt models.OrderEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(evt)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("encode order event: %w", err)
	}
	return amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		ContentType:  "application/json",
		MessageId:    uuid.NewString(),
		Type:         evt.Type,
		Body:         body,
		Priority:     Priority(evt),
	}, nil
}

func (r *RabbitMQ) PublishOrderEvent(ctx context.Context, evt models.OrderEvent) error {
	msg, err := NewOrderMessage(evt)
	if err != nil {
		return err
	}
	if err := r.Channel.PublishWithContext(ctx, r.Cfg.OrderExchange, "", false, false, msg); err != nil {
		return fmt.Errorf("publish %s event for %s: %w", evt.Type, evt.OrderID, err)
	}
	return nil
}

func (r *RabbitMQ) Close() {
	if r.Channel != nil {
		if err := r.Channel.Close(); err != nil {
			log.Printf("Failed to close RabbitMQ channel: %v", err)
		}
	}
	if r.Conn != nil {
		if err := r.Conn.Close(); err != nil {
			log.Printf("Failed to close RabbitMQ connection: %v", err)
		}
	}
}
