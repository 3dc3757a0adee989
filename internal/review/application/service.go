package application

import (
	"context"
	"strings"
	"time"

	catalogdomain "github.com/wyfcoding/fruitable/internal/catalog/domain"
	"github.com/wyfcoding/fruitable/internal/review/domain"
	"github.com/wyfcoding/fruitable/pkg/logger"
)

type SubmitReviewCommand struct {
	AuthorID  uint
	ProductID uint
	Text      string
	Name      string
	Email     string
	Rating    int
}

type ReviewApplicationService struct {
	ratings   domain.RatingRepository
	reviews   domain.ReviewRepository
	products  catalogdomain.ProductRepository
	publisher domain.EventPublisher
}

func NewReviewApplicationService(
	ratings domain.RatingRepository,
	reviews domain.ReviewRepository,
	products catalogdomain.ProductRepository,
	publisher domain.EventPublisher,
) *ReviewApplicationService {
	return &ReviewApplicationService{
		ratings:   ratings,
		reviews:   reviews,
		products:  products,
		publisher: publisher,
	}
}

// Rate records the user's score for a product. Any previous rating by the
// same user is deleted first, so exactly one row remains per (user, product).
func (s *ReviewApplicationService) Rate(ctx context.Context, userID, productID uint, value int) error {
	if value < 1 || value > 5 {
		return domain.ErrInvalidRating
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return err
	}
	if err := s.ratings.DeleteFor(ctx, userID, productID); err != nil {
		return err
	}
	if err := s.ratings.Save(ctx, &domain.Rating{UserID: userID, ProductID: productID, Value: value}); err != nil {
		return err
	}
	if s.publisher != nil {
		event := domain.ProductRatedEvent{
			UserID:     userID,
			ProductID:  productID,
			Value:      value,
			OccurredOn: time.Now(),
		}
		if err := s.publisher.PublishProductRated(ctx, event); err != nil {
			logger.Warn(ctx, "failed to record rating event", "product_id", productID, "error", err)
		}
	}
	return nil
}

// AverageRating recomputes the mean on every call; zero when unrated.
func (s *ReviewApplicationService) AverageRating(ctx context.Context, productID uint) (float64, error) {
	ratings, err := s.ratings.RatingsFor(ctx, productID)
	if err != nil {
		return 0, err
	}
	return domain.AverageRating(ratings), nil
}

// UserRating returns the user's own score for the product, zero when absent.
func (s *ReviewApplicationService) UserRating(ctx context.Context, userID, productID uint) (int, error) {
	rating, err := s.ratings.GetFor(ctx, userID, productID)
	if err != nil {
		return 0, err
	}
	if rating == nil {
		return 0, nil
	}
	return rating.Value, nil
}

// TopProduct satisfies the catalog's RatingSource.
func (s *ReviewApplicationService) TopProduct(ctx context.Context) (uint, float64, error) {
	return s.ratings.TopProduct(ctx)
}

func (s *ReviewApplicationService) SubmitReview(ctx context.Context, cmd SubmitReviewCommand) (uint, error) {
	if strings.TrimSpace(cmd.Text) == "" {
		return 0, domain.ErrEmptyReview
	}
	if cmd.Rating < 0 || cmd.Rating > 5 {
		return 0, domain.ErrInvalidRating
	}
	if _, err := s.products.GetByID(ctx, cmd.ProductID); err != nil {
		return 0, err
	}
	review := &domain.Review{
		Text:      cmd.Text,
		AuthorID:  &cmd.AuthorID,
		Name:      cmd.Name,
		Email:     cmd.Email,
		ProductID: cmd.ProductID,
		Rating:    cmd.Rating,
	}
	if err := s.reviews.Save(ctx, review); err != nil {
		return 0, err
	}
	return review.ID, nil
}

func (s *ReviewApplicationService) ListReviews(ctx context.Context, productID uint) ([]domain.Review, error) {
	return s.reviews.ListForProduct(ctx, productID)
}
