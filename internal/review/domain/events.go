package domain

import "time"

const ProductRatedEventType = "product.rated"

type ProductRatedEvent struct {
	UserID     uint      `json:"user_id"`
	ProductID  uint      `json:"product_id"`
	Value      int       `json:"value"`
	OccurredOn time.Time `json:"occurred_on"`
}
