package application

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/fruitable/internal/cart/domain"
	catalogdomain "github.com/wyfcoding/fruitable/internal/catalog/domain"
)

type SetShippingAddressCommand struct {
	Address string
	Region  string
	City    string
	ZipCode string
	Mobile  string
	Email   string
}

type CartCommandService struct {
	customers domain.CustomerRepository
	orders    domain.OrderRepository
	lines     domain.LineRepository
	guest     domain.GuestCartRepository
	products  catalogdomain.ProductRepository
	addresses domain.ShippingAddressRepository
}

func NewCartCommandService(
	customers domain.CustomerRepository,
	orders domain.OrderRepository,
	lines domain.LineRepository,
	guest domain.GuestCartRepository,
	products catalogdomain.ProductRepository,
	addresses domain.ShippingAddressRepository,
) *CartCommandService {
	return &CartCommandService{
		customers: customers,
		orders:    orders,
		lines:     lines,
		guest:     guest,
		products:  products,
		addresses: addresses,
	}
}

// Mutate applies one cart action to the product's line. A quantity driven to
// zero or below deletes the line; the stored column has no lower bound, so
// the invariant lives here.
func (s *CartCommandService) Mutate(ctx context.Context, ref domain.CartRef, productID uint, action domain.Action) error {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return err
	}
	switch {
	case ref.Authenticated():
		return s.mutateOrder(ctx, ref.UserID, productID, action)
	case ref.GuestID != "":
		return s.mutateGuest(ctx, ref.GuestID, productID, action)
	default:
		return domain.ErrNoCart
	}
}

func (s *CartCommandService) mutateOrder(ctx context.Context, userID, productID uint, action domain.Action) error {
	order, err := s.activeOrder(ctx, userID)
	if err != nil {
		return err
	}
	line, err := s.lines.GetLine(ctx, order.ID, productID)
	if err != nil {
		return err
	}
	switch action {
	case domain.ActionIncrement:
		if line == nil {
			return s.lines.Save(ctx, &domain.OrderProduct{
				OrderID:   order.ID,
				ProductID: productID,
				Quantity:  1,
			})
		}
		line.Quantity++
		return s.lines.Save(ctx, line)
	case domain.ActionDecrement:
		if line == nil {
			return nil
		}
		line.Quantity--
		if line.Quantity <= 0 {
			return s.lines.Delete(ctx, line.ID)
		}
		return s.lines.Save(ctx, line)
	case domain.ActionRemove:
		if line == nil {
			return nil
		}
		return s.lines.Delete(ctx, line.ID)
	default:
		return domain.ErrInvalidAction
	}
}

func (s *CartCommandService) mutateGuest(ctx context.Context, guestID string, productID uint, action domain.Action) error {
	cart, err := s.guest.Get(ctx, guestID)
	if err != nil {
		return err
	}
	qty := cart.Items[productID]
	switch action {
	case domain.ActionIncrement:
		return s.guest.SetItem(ctx, guestID, productID, qty+1)
	case domain.ActionDecrement:
		if qty == 0 {
			return nil
		}
		if qty-1 <= 0 {
			return s.guest.RemoveItem(ctx, guestID, productID)
		}
		return s.guest.SetItem(ctx, guestID, productID, qty-1)
	case domain.ActionRemove:
		if qty == 0 {
			return nil
		}
		return s.guest.RemoveItem(ctx, guestID, productID)
	default:
		return domain.ErrInvalidAction
	}
}

// MergeGuestCart folds a guest cart into the user's persisted order after
// login, then clears the guest cart.
func (s *CartCommandService) MergeGuestCart(ctx context.Context, guestID string, userID uint) error {
	if guestID == "" {
		return nil
	}
	cart, err := s.guest.Get(ctx, guestID)
	if err != nil {
		return err
	}
	if len(cart.Items) == 0 {
		return nil
	}
	order, err := s.activeOrder(ctx, userID)
	if err != nil {
		return err
	}
	for _, productID := range cart.ProductIDs() {
		if _, err := s.products.GetByID(ctx, productID); err != nil {
			if errors.Is(err, catalogdomain.ErrNotFound) {
				continue
			}
			return err
		}
		line, err := s.lines.GetLine(ctx, order.ID, productID)
		if err != nil {
			return err
		}
		if line == nil {
			line = &domain.OrderProduct{OrderID: order.ID, ProductID: productID}
		}
		line.Quantity += cart.Items[productID]
		if err := s.lines.Save(ctx, line); err != nil {
			return err
		}
	}
	return s.guest.Clear(ctx, guestID)
}

func (s *CartCommandService) SetShippingAddress(ctx context.Context, userID uint, cmd SetShippingAddressCommand) error {
	customer, err := s.customers.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return err
	}
	order, err := s.orders.ActiveForCustomer(ctx, customer.ID)
	if err != nil {
		return err
	}
	return s.addresses.Save(ctx, &domain.ShippingAddress{
		OrderID:    order.ID,
		CustomerID: customer.ID,
		Address:    cmd.Address,
		Region:     cmd.Region,
		City:       cmd.City,
		ZipCode:    cmd.ZipCode,
		Mobile:     cmd.Mobile,
		Email:      cmd.Email,
	})
}

// activeOrder returns the user's open order, creating the customer and order
// rows on the first cart action.
func (s *CartCommandService) activeOrder(ctx context.Context, userID uint) (*domain.Order, error) {
	customer, err := s.customers.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	order, err := s.orders.ActiveForCustomer(ctx, customer.ID)
	if errors.Is(err, domain.ErrNotFound) {
		order = &domain.Order{CustomerID: customer.ID, Active: true}
		if err := s.orders.Create(ctx, order); err != nil {
			return nil, err
		}
		return order, nil
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func decimalFromInt(i int) decimal.Decimal {
	return decimal.NewFromInt(int64(i))
}
