package domain

import "context"

// SaleFilter narrows product listings by their sale state.
type SaleFilter int

const (
	SaleAny SaleFilter = iota
	// SaleOnly returns discounted products, steepest discount first.
	SaleOnly
	// SaleNone returns products without a discount.
	SaleNone
)

type ProductFilter struct {
	CategoryID uint
	Sale       SaleFilter
	Offset     int
	Limit      int
}

type ProductRepository interface {
	Save(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, id uint) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*Product, int, error)
	ListByIDs(ctx context.Context, ids []uint) ([]*Product, error)
	Delete(ctx context.Context, id uint) error
}

type CategoryRepository interface {
	Save(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, id uint) (*Category, error)
	// ListRoots returns top-level categories with their direct children.
	ListRoots(ctx context.Context) ([]*Category, error)
	Delete(ctx context.Context, id uint) error
}

type SubscriberRepository interface {
	// Save is idempotent: re-subscribing an already known email is not an
	// error.
	Save(ctx context.Context, subscriber *Subscriber) error
}

type GeoRepository interface {
	ListRegions(ctx context.Context) ([]*Region, error)
	ListCities(ctx context.Context, regionID uint) ([]*City, error)
}
