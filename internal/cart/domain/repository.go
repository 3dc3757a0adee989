package domain

import "context"

type CustomerRepository interface {
	// GetOrCreateByUser resolves the customer for a user identity, creating
	// the row on first cart action.
	GetOrCreateByUser(ctx context.Context, userID uint) (*Customer, error)
}

type OrderRepository interface {
	// ActiveForCustomer returns the customer's open order; ErrNotFound when
	// no cart has been started.
	ActiveForCustomer(ctx context.Context, customerID uint) (*Order, error)
	GetByID(ctx context.Context, id uint) (*Order, error)
	Create(ctx context.Context, order *Order) error
	Save(ctx context.Context, order *Order) error
}

type LineRepository interface {
	// LinesFor returns all lines of the order with their products loaded.
	LinesFor(ctx context.Context, orderID uint) ([]OrderProduct, error)
	// GetLine returns the order's line for the product, nil when absent.
	GetLine(ctx context.Context, orderID, productID uint) (*OrderProduct, error)
	Save(ctx context.Context, line *OrderProduct) error
	Delete(ctx context.Context, id uint) error
}

type GuestCartRepository interface {
	// Get returns the guest cart, empty (never nil) when the id is unknown.
	Get(ctx context.Context, cartID string) (*GuestCart, error)
	SetItem(ctx context.Context, cartID string, productID uint, quantity int) error
	RemoveItem(ctx context.Context, cartID string, productID uint) error
	Clear(ctx context.Context, cartID string) error
}

type ShippingAddressRepository interface {
	Save(ctx context.Context, address *ShippingAddress) error
	ForOrder(ctx context.Context, orderID uint) (*ShippingAddress, error)
}
