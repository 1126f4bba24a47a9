package models

import (
	"time"
)

type OrderStatus string

const (
	StatusReceived  OrderStatus = "RECEBIDO"
	StatusPreparing OrderStatus = "PREPARO"
	StatusReady     OrderStatus = "PRONTO"
	StatusDelivered OrderStatus = "ENTREGUE"
	StatusCompleted OrderStatus = "CONCLUIDO"
	StatusCancelled OrderStatus = "CANCELADO"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusReceived, StatusPreparing, StatusReady, StatusDelivered, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "DINHEIRO"
	PaymentCard PaymentMethod = "CARTAO"
	PaymentUSDT PaymentMethod = "USDT"
)

// PickupZoneName is stored as the zone of orders collected at the counter.
const PickupZoneName = "Retirada"

// SaleRecord is a finalized order. Only Status changes after creation.
type SaleRecord struct {
	ID            string        `json:"id"`
	Timestamp     int64         `json:"timestamp"`
	Total         int64         `json:"total"`
	ItemsCount    int           `json:"itemsCount"`
	ItemsDetail   string        `json:"itemsDetail"`
	Items         []CartItem    `json:"items"`
	CustomerName  string        `json:"customerName"`
	CustomerPhone string        `json:"customerPhone,omitempty"`
	ZoneName      string        `json:"zoneName"`
	Status        OrderStatus   `json:"status"`
	PaymentMethod PaymentMethod `json:"paymentMethod,omitempty"`
}

// CreatedAt converts the millisecond timestamp.
func (s SaleRecord) CreatedAt() time.Time {
	return time.UnixMilli(s.Timestamp)
}

const (
	EventCreated       = "created"
	EventStatusUpdated = "status_updated"
)

type OrderEvent struct {
	OrderID       string      `json:"orderId"`
	Type          string      `json:"type"` // created, status_updated
	Status        OrderStatus `json:"status"`
	Total         int64       `json:"total"`
	CustomerName  string      `json:"customerName,omitempty"`
	CustomerPhone string      `json:"customerPhone,omitempty"`
	ZoneName      string      `json:"zoneName,omitempty"`
	ItemsDetail   string      `json:"itemsDetail,omitempty"`
	Occurred      time.Time   `json:"occurred"`
}

// NewOrderEvent builds an event describing sale.
func NewOrderEvent(eventType string, sale SaleRecord, at time.Time) OrderEvent {
	return OrderEvent{
		OrderID:       sale.ID,
		Type:          eventType,
		Status:        sale.Status,
		Total:         sale.Total,
		CustomerName:  sale.CustomerName,
		CustomerPhone: sale.CustomerPhone,
		ZoneName:      sale.ZoneName,
		ItemsDetail:   sale.ItemsDetail,
		Occurred:      at,
	}
}
