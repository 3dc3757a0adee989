package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartapp "github.com/wyfcoding/fruitable/internal/cart/application"
	cartdomain "github.com/wyfcoding/fruitable/internal/cart/domain"
	catalogdomain "github.com/wyfcoding/fruitable/internal/catalog/domain"
	"github.com/wyfcoding/fruitable/internal/checkout/domain"
)

type fakeCustomerRepo struct {
	customers map[uint]*cartdomain.Customer
	nextID    uint
}

func (f *fakeCustomerRepo) GetOrCreateByUser(_ context.Context, userID uint) (*cartdomain.Customer, error) {
	if c, ok := f.customers[userID]; ok {
		return c, nil
	}
	f.nextID++
	uid := userID
	c := &cartdomain.Customer{ID: f.nextID, UserID: &uid}
	f.customers[userID] = c
	return c, nil
}

type fakeOrderRepo struct {
	orders map[uint]*cartdomain.Order
	nextID uint
	saves  int
}

func (f *fakeOrderRepo) ActiveForCustomer(_ context.Context, customerID uint) (*cartdomain.Order, error) {
	for _, o := range f.orders {
		if o.CustomerID == customerID && o.Active {
			return o, nil
		}
	}
	return nil, cartdomain.ErrNotFound
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id uint) (*cartdomain.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, cartdomain.ErrNotFound
	}
	return o, nil
}

func (f *fakeOrderRepo) Create(_ context.Context, order *cartdomain.Order) error {
	f.nextID++
	order.ID = f.nextID
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderRepo) Save(_ context.Context, order *cartdomain.Order) error {
	f.saves++
	f.orders[order.ID] = order
	return nil
}

type fakeLineRepo struct {
	lines    map[uint]*cartdomain.OrderProduct
	products map[uint]*catalogdomain.Product
	nextID   uint
}

func (f *fakeLineRepo) LinesFor(_ context.Context, orderID uint) ([]cartdomain.OrderProduct, error) {
	var out []cartdomain.OrderProduct
	for _, l := range f.lines {
		if l.OrderID != orderID {
			continue
		}
		line := *l
		if p, ok := f.products[l.ProductID]; ok {
			line.Product = *p
		}
		out = append(out, line)
	}
	return out, nil
}

func (f *fakeLineRepo) GetLine(_ context.Context, orderID, productID uint) (*cartdomain.OrderProduct, error) {
	for _, l := range f.lines {
		if l.OrderID == orderID && l.ProductID == productID {
			return l, nil
		}
	}
	return nil, nil
}

func (f *fakeLineRepo) Save(_ context.Context, line *cartdomain.OrderProduct) error {
	if line.ID == 0 {
		f.nextID++
		line.ID = f.nextID
	}
	f.lines[line.ID] = line
	return nil
}

func (f *fakeLineRepo) Delete(_ context.Context, id uint) error {
	delete(f.lines, id)
	return nil
}

type fakeGuestRepo struct{}

func (fakeGuestRepo) Get(_ context.Context, cartID string) (*cartdomain.GuestCart, error) {
	return cartdomain.NewGuestCart(cartID), nil
}
func (fakeGuestRepo) SetItem(context.Context, string, uint, int) error { return nil }
func (fakeGuestRepo) RemoveItem(context.Context, string, uint) error  { return nil }
func (fakeGuestRepo) Clear(context.Context, string) error             { return nil }

type fakeProductRepo struct {
	products map[uint]*catalogdomain.Product
}

func (f *fakeProductRepo) Save(_ context.Context, p *catalogdomain.Product) error {
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) GetByID(_ context.Context, id uint) (*catalogdomain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, catalogdomain.ErrNotFound
	}
	return p, nil
}

func (f *fakeProductRepo) GetBySlug(context.Context, string) (*catalogdomain.Product, error) {
	return nil, catalogdomain.ErrNotFound
}

func (f *fakeProductRepo) List(context.Context, catalogdomain.ProductFilter) ([]*catalogdomain.Product, int, error) {
	return nil, 0, nil
}

func (f *fakeProductRepo) ListByIDs(_ context.Context, ids []uint) ([]*catalogdomain.Product, error) {
	var out []*catalogdomain.Product
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) Delete(_ context.Context, id uint) error {
	delete(f.products, id)
	return nil
}

type fakeAddressRepo struct{}

func (fakeAddressRepo) Save(context.Context, *cartdomain.ShippingAddress) error { return nil }
func (fakeAddressRepo) ForOrder(context.Context, uint) (*cartdomain.ShippingAddress, error) {
	return nil, cartdomain.ErrNotFound
}

type fakeGateway struct {
	calls   int
	lastReq domain.SessionRequest
	err     error
}

func (f *fakeGateway) CreateSession(_ context.Context, req domain.SessionRequest) (*domain.Session, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Session{ID: "cs_123", URL: "https://pay.example.com/cs_123"}, nil
}

type fakePublisher struct {
	events []domain.OrderCheckedOutEvent
	err    error
}

func (f *fakePublisher) PublishOrderCheckedOut(_ context.Context, e domain.OrderCheckedOutEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, e)
	return nil
}

type fakeRunner struct {
	calls int
}

func (f *fakeRunner) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type checkoutFixture struct {
	svc       *CheckoutService
	runner    *fakeRunner
	orders    *fakeOrderRepo
	lines     *fakeLineRepo
	gateway   *fakeGateway
	publisher *fakePublisher
}

func newCheckoutFixture(products ...*catalogdomain.Product) *checkoutFixture {
	productRepo := &fakeProductRepo{products: map[uint]*catalogdomain.Product{}}
	for _, p := range products {
		productRepo.products[p.ID] = p
	}
	customers := &fakeCustomerRepo{customers: map[uint]*cartdomain.Customer{}}
	orders := &fakeOrderRepo{orders: map[uint]*cartdomain.Order{}}
	lines := &fakeLineRepo{lines: map[uint]*cartdomain.OrderProduct{}, products: productRepo.products}
	carts := cartapp.NewCartQueryService(customers, orders, lines, fakeGuestRepo{}, productRepo, fakeAddressRepo{})

	gateway := &fakeGateway{}
	publisher := &fakePublisher{}
	runner := &fakeRunner{}
	svc := NewCheckoutService(runner, carts, orders, lines, gateway, publisher,
		"https://shop.example.com/success", "https://shop.example.com/cancel")

	return &checkoutFixture{svc: svc, runner: runner, orders: orders, lines: lines, gateway: gateway, publisher: publisher}
}

func (fx *checkoutFixture) seedCart(t *testing.T, productID uint, qty int) *cartdomain.Order {
	t.Helper()
	order := &cartdomain.Order{CustomerID: 1, Active: true}
	for _, o := range fx.orders.orders {
		if o.Active {
			order = o
		}
	}
	if order.ID == 0 {
		require.NoError(t, fx.orders.Create(context.Background(), order))
	}
	require.NoError(t, fx.lines.Save(context.Background(), &cartdomain.OrderProduct{
		OrderID:   order.ID,
		ProductID: productID,
		Quantity:  qty,
	}))
	return order
}

func TestCreateSessionRejectsEmptyCart(t *testing.T) {
	fx := newCheckoutFixture()

	_, err := fx.svc.CreateSession(context.Background(), cartdomain.CartRef{UserID: 7})

	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Zero(t, fx.gateway.calls, "processor must not be contacted for an empty cart")
}

func TestCreateSessionAmountAndRedirect(t *testing.T) {
	fx := newCheckoutFixture(
		&catalogdomain.Product{ID: 1, Name: "Apple", Price: decimal.RequireFromString("10.00")},
		&catalogdomain.Product{ID: 2, Name: "Banana", Price: decimal.RequireFromString("5.00")},
	)
	order := fx.seedCart(t, 1, 2)
	require.NoError(t, fx.lines.Save(context.Background(), &cartdomain.OrderProduct{OrderID: order.ID, ProductID: 2, Quantity: 1}))

	session, err := fx.svc.CreateSession(context.Background(), cartdomain.CartRef{UserID: 7})

	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/cs_123", session.URL)
	assert.Equal(t, int64(2500), fx.gateway.lastReq.AmountCents)
	assert.Equal(t, 2, fx.gateway.lastReq.Quantity)
	assert.Equal(t, "usd", fx.gateway.lastReq.Currency)
	assert.Equal(t, "https://shop.example.com/success", fx.gateway.lastReq.SuccessURL)
}

func TestCreateSessionRoundsFractionalCents(t *testing.T) {
	fx := newCheckoutFixture(
		&catalogdomain.Product{ID: 1, Name: "Saffron", Price: decimal.RequireFromString("3.335")},
	)
	fx.seedCart(t, 1, 3)

	_, err := fx.svc.CreateSession(context.Background(), cartdomain.CartRef{UserID: 7})

	require.NoError(t, err)
	// 3 x 3.335 = 10.005, which must become 1001 cents, not 1000.
	assert.Equal(t, int64(1001), fx.gateway.lastReq.AmountCents)
}

func TestCreateSessionGatewayFailureLeavesCartUntouched(t *testing.T) {
	fx := newCheckoutFixture(
		&catalogdomain.Product{ID: 1, Name: "Apple", Price: decimal.RequireFromString("10.00")},
	)
	fx.seedCart(t, 1, 2)
	fx.gateway.err = domain.ErrPaymentFailed

	_, err := fx.svc.CreateSession(context.Background(), cartdomain.CartRef{UserID: 7})

	assert.ErrorIs(t, err, domain.ErrPaymentFailed)
	assert.Len(t, fx.lines.lines, 1, "cart lines must survive a failed checkout")
}

func TestCompleteMarksOrderInactiveAndPublishes(t *testing.T) {
	fx := newCheckoutFixture(
		&catalogdomain.Product{ID: 1, Name: "Apple", Price: decimal.RequireFromString("10.00")},
	)
	order := fx.seedCart(t, 1, 2)

	require.NoError(t, fx.svc.Complete(context.Background(), order.ID))

	assert.False(t, fx.orders.orders[order.ID].Active)
	assert.Equal(t, 1, fx.runner.calls, "the flag flip and the event must share a transaction")
	require.Len(t, fx.publisher.events, 1)
	assert.Equal(t, order.ID, fx.publisher.events[0].OrderID)
	assert.Equal(t, int64(2000), fx.publisher.events[0].AmountCents)
}

func TestCompletePublishFailureFailsTheTransaction(t *testing.T) {
	fx := newCheckoutFixture(
		&catalogdomain.Product{ID: 1, Name: "Apple", Price: decimal.RequireFromString("10.00")},
	)
	order := fx.seedCart(t, 1, 1)
	fx.publisher.err = context.DeadlineExceeded

	err := fx.svc.Complete(context.Background(), order.ID)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, fx.publisher.events)
}

func TestCompleteIsIdempotent(t *testing.T) {
	fx := newCheckoutFixture(
		&catalogdomain.Product{ID: 1, Name: "Apple", Price: decimal.RequireFromString("10.00")},
	)
	order := fx.seedCart(t, 1, 1)

	require.NoError(t, fx.svc.Complete(context.Background(), order.ID))
	require.NoError(t, fx.svc.Complete(context.Background(), order.ID))

	assert.Len(t, fx.publisher.events, 1, "a redelivered callback must not emit a second event")
}

func TestCompleteUnknownOrder(t *testing.T) {
	fx := newCheckoutFixture()

	assert.ErrorIs(t, fx.svc.Complete(context.Background(), 42), domain.ErrNotFound)
}
