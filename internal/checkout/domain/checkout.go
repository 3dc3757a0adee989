package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// SessionRequest describes one hosted payment session to open with the
// processor. The whole cart is collapsed into a single line item.
type SessionRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	SuccessURL  string `json:"success_url"`
	CancelURL   string `json:"cancel_url"`
}

// Session is the processor-hosted payment page the buyer is redirected to.
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// PaymentGateway is the outbound port to the payment processor.
type PaymentGateway interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
}

// AmountCents converts a decimal money amount into integer cents. The amount
// is rounded to two places first, so 10.005 becomes 1001 rather than 1000.
func AmountCents(amount decimal.Decimal) int64 {
	return amount.Round(2).Mul(decimal.NewFromInt(100)).IntPart()
}
