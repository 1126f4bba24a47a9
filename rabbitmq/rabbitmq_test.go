package rabbitmq

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pizzeria-service/models"
)

func TestPriority(t *testing.T) {
	tests := []struct {
		name string
		evt  models.OrderEvent
		want uint8
	}{
		{"regular order", models.OrderEvent{Type: models.EventCreated, Total: 1200}, 5},
		{"large order", models.OrderEvent{Type: models.EventCreated, Total: 5000}, 8},
		{"cancellation", models.OrderEvent{Type: models.EventStatusUpdated, Status: models.StatusCancelled}, 9},
		{"large cancellation", models.OrderEvent{Type: models.EventStatusUpdated, Status: models.StatusCancelled, Total: 9000}, 9},
		{"status step", models.OrderEvent{Type: models.EventStatusUpdated, Status: models.StatusReady, Total: 9000}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Priority(tt.evt))
		})
	}
}

func TestNewOrderMessage(t *testing.T) {
	evt := models.OrderEvent{
		OrderID: "sale-1", Type: models.EventCreated, Status: models.StatusReceived,
		Total: 2450, CustomerName: "Ana", Occurred: time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC),
	}

	msg, err := NewOrderMessage(evt)
	require.NoError(t, err)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, models.EventCreated, msg.Type)
	_, err = uuid.Parse(msg.MessageId)
	assert.NoError(t, err)

	var decoded models.OrderEvent
	require.NoError(t, json.Unmarshal(msg.Body, &decoded))
	assert.Equal(t, evt.OrderID, decoded.OrderID)
	assert.Equal(t, evt.Total, decoded.Total)
	assert.True(t, evt.Occurred.Equal(decoded.Occurred))
}
