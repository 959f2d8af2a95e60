package events

import (
	"context"
	"time"

	"github.com/agamariel/parcerogo/internal/models"
	"github.com/google/uuid"
)

// EventType - вид события по заказу.
type EventType string

const (
	OrderCreated       EventType = "order.created"
	OrderStatusChanged EventType = "order.status_changed"
	OrderAssigned      EventType = "order.assigned"
	OrderCompleted     EventType = "order.completed"
	OrderPaid          EventType = "order.payment_registered"
)

// OrderEvent - уведомление об изменении заказа для внешних подписчиков.
type OrderEvent struct {
	EventID       string               `json:"event_id"`
	Type          EventType            `json:"type"`
	OrderID       int64                `json:"order_id"`
	Status        models.OrderStatus   `json:"status"`
	PaymentStatus models.PaymentStatus `json:"payment_status"`
	CourierID     *int64               `json:"courier_id,omitempty"`
	Total         int64                `json:"total"`
	OccurredAt    time.Time            `json:"occurred_at"`
}

// NewOrderEvent собирает событие по текущему состоянию заказа.
func NewOrderEvent(t EventType, o *models.Order, at time.Time) OrderEvent {
	return OrderEvent{
		EventID:       uuid.NewString(),
		Type:          t,
		OrderID:       o.ID,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		CourierID:     o.CourierID,
		Total:         o.Total,
		OccurredAt:    at.UTC(),
	}
}

// Publisher отправляет события по заказам.
type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
	Close() error
}

// NopPublisher ничего не отправляет. Используется, когда брокер не настроен.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event OrderEvent) error { return nil }

func (NopPublisher) Close() error { return nil }
