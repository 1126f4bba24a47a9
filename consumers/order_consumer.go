package consumers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"pizzeria-service/config"
	"pizzeria-service/models"
	"pizzeria-service/notifier"
)

type OrderConsumer struct {
	notifier notifier.Notifier
}

func NewOrderConsumer(n notifier.Notifier) *OrderConsumer {
	return &OrderConsumer{notifier: n}
}

// Start consumes the order queue and its dead-letter queue until ctx is done
// or the channel closes.
func (c *OrderConsumer) Start(ctx context.Context, ch *amqp.Channel, cfg *config.Config) error {
	msgs, err := ch.Consume(
		cfg.OrderQueue,
		"pizzeria-service", // consumer tag
		false,              // auto-ack
		false,              // exclusive
		false,              // no-local
		false,              // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume %s: %w", cfg.OrderQueue, err)
	}

	dlqMsgs, err := ch.Consume(cfg.DeadLetterQueue, "pizzeria-service-dlq", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", cfg.DeadLetterQueue, err)
	}

	go c.loop(ctx, msgs, c.processOrderMessage)
	go c.loop(ctx, dlqMsgs, c.processDeadLetterMessage)
	return nil
}

func (c *OrderConsumer) loop(ctx context.Context, msgs <-chan amqp.Delivery, handle func(context.Context, amqp.Delivery)) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			handle(ctx, msg)
		}
	}
}

func (c *OrderConsumer) processOrderMessage(ctx context.Context, msg amqp.Delivery) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic in message processing: %v", r)
			_ = msg.Nack(false, false)
		}
	}()

	var evt models.OrderEvent
	if err := json.Unmarshal(msg.Body, &evt); err != nil || evt.OrderID == "" {
		log.Printf("Invalid order event %s: %s", msg.MessageId, msg.Body)
		_ = msg.Nack(false, false) // dead-letter, no requeue
		return
	}

	log.Printf("Processing order event: ID=%s, Type=%s", evt.OrderID, evt.Type)

	switch evt.Type {
	case models.EventCreated, models.EventStatusUpdated:
		if err := c.notifier.NotifyOrderEvent(ctx, evt); err != nil {
			log.Printf("Failed to notify %s for order %s: %v", evt.Type, evt.OrderID, err)
			_ = msg.Nack(false, false)
			return
		}
	default:
		log.Printf("Unknown event type: %s", evt.Type)
	}

	if err := msg.Ack(false); err != nil {
		log.Printf("Failed to ack order event %s: %v", evt.OrderID, err)
	}
}

func (c *OrderConsumer) processDeadLetterMessage(_ context.Context, msg amqp.Delivery) {
	reason := ""
	if deaths, ok := msg.Headers["x-death"].([]interface{}); ok && len(deaths) > 0 {
		if death, ok := deaths[0].(amqp.Table); ok {
			reason, _ = death["reason"].(string)
		}
	}
	log.Printf("Received dead letter (%s): %s", reason, msg.Body)
	if err := msg.Ack(false); err != nil {
		log.Printf("Failed to ack dead letter: %v", err)
	}
}
