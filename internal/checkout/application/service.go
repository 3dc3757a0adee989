package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	cartapp "github.com/wyfcoding/fruitable/internal/cart/application"
	cartdomain "github.com/wyfcoding/fruitable/internal/cart/domain"
	"github.com/wyfcoding/fruitable/internal/checkout/domain"
)

const currency = "usd"

// TxRunner runs fn inside a database transaction that repository calls made
// with the callback's context join. *db.DB satisfies it.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// CheckoutService opens hosted payment sessions for carts and finalizes
// orders once the processor reports payment.
type CheckoutService struct {
	runner     TxRunner
	carts      *cartapp.CartQueryService
	orders     cartdomain.OrderRepository
	lines      cartdomain.LineRepository
	gateway    domain.PaymentGateway
	publisher  domain.EventPublisher
	successURL string
	cancelURL  string
}

func NewCheckoutService(
	runner TxRunner,
	carts *cartapp.CartQueryService,
	orders cartdomain.OrderRepository,
	lines cartdomain.LineRepository,
	gateway domain.PaymentGateway,
	publisher domain.EventPublisher,
	successURL, cancelURL string,
) *CheckoutService {
	return &CheckoutService{
		runner:     runner,
		carts:      carts,
		orders:     orders,
		lines:      lines,
		gateway:    gateway,
		publisher:  publisher,
		successURL: successURL,
		cancelURL:  cancelURL,
	}
}

// CreateSession opens a payment session covering the whole cart. An empty
// cart is rejected before the processor is ever contacted; processor errors
// leave the cart untouched.
func (s *CheckoutService) CreateSession(ctx context.Context, ref cartdomain.CartRef) (*domain.Session, error) {
	info, err := s.carts.Info(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if info.Empty() {
		return nil, domain.ErrEmptyCart
	}

	req := domain.SessionRequest{
		AmountCents: domain.AmountCents(info.TotalPrice),
		Currency:    currency,
		ProductName: sessionName(info),
		Quantity:    info.TotalQuantity,
		SuccessURL:  s.successURL,
		CancelURL:   s.cancelURL,
	}
	session, err := s.gateway.CreateSession(ctx, req)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Complete marks an order as purchased and records the checkout event for
// downstream consumers. The order keeps its lines; only the active flag
// changes. The flag flip and the event row commit in the same transaction.
func (s *CheckoutService) Complete(ctx context.Context, orderID uint) error {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, cartdomain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	if !order.Active {
		// Already completed; callbacks can be delivered more than once.
		return nil
	}

	lines, err := s.lines.LinesFor(ctx, order.ID)
	if err != nil {
		return err
	}
	total := decimal.Zero
	for i := range lines {
		total = total.Add(lines[i].LineTotal())
	}

	event := domain.OrderCheckedOutEvent{
		OrderID:     order.ID,
		CustomerID:  order.CustomerID,
		AmountCents: domain.AmountCents(total),
		Currency:    currency,
		CheckedOut:  time.Now(),
	}
	return s.runner.WithTx(ctx, func(ctx context.Context) error {
		order.Active = false
		if err := s.orders.Save(ctx, order); err != nil {
			return err
		}
		return s.publisher.PublishOrderCheckedOut(ctx, event)
	})
}

func sessionName(info cartdomain.CartInfo) string {
	if len(info.Lines) == 1 {
		return info.Lines[0].Name
	}
	return fmt.Sprintf("%s and %d more", info.Lines[0].Name, len(info.Lines)-1)
}
