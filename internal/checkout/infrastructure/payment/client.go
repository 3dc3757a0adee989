package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/wyfcoding/fruitable/internal/checkout/domain"
	"github.com/wyfcoding/fruitable/pkg/config"
)

// Client talks to the hosted-checkout API of the payment processor.
type Client struct {
	http *resty.Client
}

func NewClient(cfg config.PaymentConfig) *Client {
	c := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(time.Duration(cfg.Timeout) * time.Second).
		SetAuthToken(cfg.SecretKey).
		SetHeader("Content-Type", "application/json").
		SetRetryCount(2)
	return &Client{http: c}
}

type sessionPayload struct {
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	SuccessURL  string `json:"success_url"`
	CancelURL   string `json:"cancel_url"`
}

type sessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

func (c *Client) CreateSession(ctx context.Context, req domain.SessionRequest) (*domain.Session, error) {
	var out sessionResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(sessionPayload{
			AmountCents: req.AmountCents,
			Currency:    req.Currency,
			Name:        req.ProductName,
			Quantity:    req.Quantity,
			SuccessURL:  req.SuccessURL,
			CancelURL:   req.CancelURL,
		}).
		SetResult(&out).
		Post("/v1/checkout/sessions")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPaymentFailed, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d", domain.ErrPaymentFailed, resp.StatusCode())
	}
	if out.URL == "" {
		return nil, fmt.Errorf("%w: response missing session url", domain.ErrPaymentFailed)
	}
	return &domain.Session{ID: out.ID, URL: out.URL}, nil
}
