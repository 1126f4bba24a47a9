package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pizzeria-service/models"
)

type ackRecorder struct {
	acks, nacks int
	requeued    bool
}

func (a *ackRecorder) Ack(uint64, bool) error { a.acks++; return nil }

func (a *ackRecorder) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacks++
	a.requeued = a.requeued || requeue
	return nil
}

func (a *ackRecorder) Reject(uint64, bool) error { a.nacks++; return nil }

type recordingNotifier struct {
	events []models.OrderEvent
	err    error
}

func (n *recordingNotifier) NotifyOrderEvent(_ context.Context, evt models.OrderEvent) error {
	n.events = append(n.events, evt)
	return n.err
}

func delivery(t *testing.T, ack amqp.Acknowledger, evt any) amqp.Delivery {
	t.Helper()
	body, ok := evt.([]byte)
	if !ok {
		var err error
		body, err = json.Marshal(evt)
		require.NoError(t, err)
	}
	return amqp.Delivery{Acknowledger: ack, Body: body, DeliveryTag: 1}
}

func TestProcessOrderMessageNotifies(t *testing.T) {
	n := &recordingNotifier{}
	c := NewOrderConsumer(n)
	ack := &ackRecorder{}

	c.processOrderMessage(context.Background(), delivery(t, ack, models.OrderEvent{OrderID: "sale-1", Type: models.EventCreated, Total: 900}))

	require.Len(t, n.events, 1)
	assert.Equal(t, "sale-1", n.events[0].OrderID)
	assert.Equal(t, 1, ack.acks)
	assert.Equal(t, 0, ack.nacks)
}

func TestProcessOrderMessageMalformed(t *testing.T) {
	n := &recordingNotifier{}
	c := NewOrderConsumer(n)
	ack := &ackRecorder{}

	c.processOrderMessage(context.Background(), delivery(t, ack, []byte("42|created")))

	assert.Empty(t, n.events)
	assert.Equal(t, 1, ack.nacks)
	assert.False(t, ack.requeued)
}

func TestProcessOrderMessageNotifyFailureDeadLetters(t *testing.T) {
	n := &recordingNotifier{err: errors.New("telegram down")}
	c := NewOrderConsumer(n)
	ack := &ackRecorder{}

	c.processOrderMessage(context.Background(), delivery(t, ack, models.OrderEvent{OrderID: "sale-1", Type: models.EventStatusUpdated}))

	assert.Equal(t, 0, ack.acks)
	assert.Equal(t, 1, ack.nacks)
	assert.False(t, ack.requeued)
}

func TestProcessOrderMessageUnknownTypeAcked(t *testing.T) {
	n := &recordingNotifier{}
	c := NewOrderConsumer(n)
	ack := &ackRecorder{}

	c.processOrderMessage(context.Background(), delivery(t, ack, models.OrderEvent{OrderID: "sale-1", Type: "payment_check"}))

	assert.Empty(t, n.events)
	assert.Equal(t, 1, ack.acks)
}

func TestProcessDeadLetterAcks(t *testing.T) {
	c := NewOrderConsumer(&recordingNotifier{})
	ack := &ackRecorder{}
	msg := delivery(t, ack, []byte("bad"))
	msg.Headers = amqp.Table{"x-death": []interface{}{amqp.Table{"reason": "rejected"}}}

	c.processDeadLetterMessage(context.Background(), msg)
	assert.Equal(t, 1, ack.acks)
}

func TestLoopStopsWhenChannelCloses(t *testing.T) {
	n := &recordingNotifier{}
	c := NewOrderConsumer(n)
	ack := &ackRecorder{}
	msgs := make(chan amqp.Delivery, 2)
	msgs <- delivery(t, ack, models.OrderEvent{OrderID: "sale-1", Type: models.EventCreated})
	msgs <- delivery(t, ack, models.OrderEvent{OrderID: "sale-2", Type: models.EventCreated})
	close(msgs)

	c.loop(context.Background(), msgs, c.processOrderMessage)
	assert.Len(t, n.events, 2)
	assert.Equal(t, 2, ack.acks)
}
