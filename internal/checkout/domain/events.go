package domain

import (
	"context"
	"time"
)

const OrderCheckedOutEventType = "order.checked_out"

type OrderCheckedOutEvent struct {
	OrderID     uint      `json:"order_id"`
	CustomerID  uint      `json:"customer_id"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	CheckedOut  time.Time `json:"checked_out_at"`
}

// EventPublisher records checkout events for downstream consumers.
type EventPublisher interface {
	PublishOrderCheckedOut(ctx context.Context, event OrderCheckedOutEvent) error
}
