package domain

import "context"

type RatingRepository interface {
	Save(ctx context.Context, rating *Rating) error
	// DeleteFor removes any existing rating by the user for the product.
	DeleteFor(ctx context.Context, userID, productID uint) error
	GetFor(ctx context.Context, userID, productID uint) (*Rating, error)
	RatingsFor(ctx context.Context, productID uint) ([]Rating, error)
	// TopProduct returns the product id with the highest average rating and
	// that average; (0, 0) when no ratings exist.
	TopProduct(ctx context.Context) (uint, float64, error)
}

type ReviewRepository interface {
	Save(ctx context.Context, review *Review) error
	ListForProduct(ctx context.Context, productID uint) ([]Review, error)
}

// EventPublisher records rating events for downstream consumers.
type EventPublisher interface {
	PublishProductRated(ctx context.Context, event ProductRatedEvent) error
}
