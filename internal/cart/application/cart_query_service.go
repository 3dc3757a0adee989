package application

import (
	"context"
	"errors"

	"github.com/wyfcoding/fruitable/internal/cart/domain"
	catalogdomain "github.com/wyfcoding/fruitable/internal/catalog/domain"
)

type CartQueryService struct {
	customers domain.CustomerRepository
	orders    domain.OrderRepository
	lines     domain.LineRepository
	guest     domain.GuestCartRepository
	products  catalogdomain.ProductRepository
	addresses domain.ShippingAddressRepository
}

func NewCartQueryService(
	customers domain.CustomerRepository,
	orders domain.OrderRepository,
	lines domain.LineRepository,
	guest domain.GuestCartRepository,
	products catalogdomain.ProductRepository,
	addresses domain.ShippingAddressRepository,
) *CartQueryService {
	return &CartQueryService{
		customers: customers,
		orders:    orders,
		lines:     lines,
		guest:     guest,
		products:  products,
		addresses: addresses,
	}
}

// Info projects the current cart. Totals are recomputed on every call since
// quantities can change between requests.
func (s *CartQueryService) Info(ctx context.Context, ref domain.CartRef) (domain.CartInfo, error) {
	switch {
	case ref.Authenticated():
		return s.userCart(ctx, ref.UserID)
	case ref.GuestID != "":
		return s.guestCart(ctx, ref.GuestID)
	default:
		return domain.CartInfo{}, domain.ErrNoCart
	}
}

func (s *CartQueryService) userCart(ctx context.Context, userID uint) (domain.CartInfo, error) {
	customer, err := s.customers.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return domain.CartInfo{}, err
	}
	order, err := s.orders.ActiveForCustomer(ctx, customer.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.BuildCart(nil), nil
	}
	if err != nil {
		return domain.CartInfo{}, err
	}
	orderLines, err := s.lines.LinesFor(ctx, order.ID)
	if err != nil {
		return domain.CartInfo{}, err
	}
	lines := make([]domain.Line, 0, len(orderLines))
	for i := range orderLines {
		op := &orderLines[i]
		lines = append(lines, domain.Line{
			ProductID: op.ProductID,
			Name:      op.Product.Name,
			Quantity:  op.Quantity,
			UnitPrice: op.Product.Price,
			LineTotal: op.LineTotal(),
		})
	}
	return domain.BuildCart(lines), nil
}

func (s *CartQueryService) guestCart(ctx context.Context, guestID string) (domain.CartInfo, error) {
	cart, err := s.guest.Get(ctx, guestID)
	if err != nil {
		return domain.CartInfo{}, err
	}
	ids := cart.ProductIDs()
	products, err := s.products.ListByIDs(ctx, ids)
	if err != nil {
		return domain.CartInfo{}, err
	}
	byID := make(map[uint]*catalogdomain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	lines := make([]domain.Line, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			// Product removed from the catalog since it was added.
			continue
		}
		qty := cart.Items[id]
		lines = append(lines, domain.Line{
			ProductID: id,
			Name:      p.Name,
			Quantity:  qty,
			UnitPrice: p.Price,
			LineTotal: p.Price.Mul(decimalFromInt(qty)),
		})
	}
	return domain.BuildCart(lines), nil
}

// ShippingAddress returns the address attached to the user's open order.
func (s *CartQueryService) ShippingAddress(ctx context.Context, userID uint) (*domain.ShippingAddress, error) {
	customer, err := s.customers.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	order, err := s.orders.ActiveForCustomer(ctx, customer.ID)
	if err != nil {
		return nil, err
	}
	return s.addresses.ForOrder(ctx, order.ID)
}
