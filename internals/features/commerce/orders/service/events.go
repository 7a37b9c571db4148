package service

import (
	"time"

	"github.com/google/uuid"

	"ilmhub_backend/internals/features/commerce/orders/model"
)

const (
	EventOrderPaid          = "OrderPaid"
	EventOrderStatusChanged = "OrderStatusChanged"
	EventOrderFailed        = "OrderFailed"
)

// Event is the envelope published for every order state change.
type Event struct {
	EventID    string       `json:"event_id"`
	EventType  string       `json:"event_type"`
	OccurredAt time.Time    `json:"occurred_at"`
	OrderID    uuid.UUID    `json:"order_id"`
	TranID     string       `json:"tran_id"`
	Status     model.Status `json:"status"`
}

func NewEvent(eventType string, o model.OrderModel) Event {
	return Event{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		OccurredAt: time.Now().UTC(),
		OrderID:    o.OrderID,
		TranID:     o.OrderTranID,
		Status:     o.OrderStatus,
	}
}
