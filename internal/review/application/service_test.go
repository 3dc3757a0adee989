package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdomain "github.com/wyfcoding/fruitable/internal/catalog/domain"
	"github.com/wyfcoding/fruitable/internal/review/domain"
)

type fakeRatingRepo struct {
	ratings []domain.Rating
	nextID  uint
}

func (f *fakeRatingRepo) Save(_ context.Context, r *domain.Rating) error {
	f.nextID++
	r.ID = f.nextID
	f.ratings = append(f.ratings, *r)
	return nil
}

func (f *fakeRatingRepo) DeleteFor(_ context.Context, userID, productID uint) error {
	kept := f.ratings[:0]
	for _, r := range f.ratings {
		if r.UserID != userID || r.ProductID != productID {
			kept = append(kept, r)
		}
	}
	f.ratings = kept
	return nil
}

func (f *fakeRatingRepo) GetFor(_ context.Context, userID, productID uint) (*domain.Rating, error) {
	for _, r := range f.ratings {
		if r.UserID == userID && r.ProductID == productID {
			out := r
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeRatingRepo) RatingsFor(_ context.Context, productID uint) ([]domain.Rating, error) {
	var out []domain.Rating
	for _, r := range f.ratings {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRatingRepo) TopProduct(_ context.Context) (uint, float64, error) {
	sums := map[uint]int{}
	counts := map[uint]int{}
	for _, r := range f.ratings {
		sums[r.ProductID] += r.Value
		counts[r.ProductID]++
	}
	var bestID uint
	var best float64
	for id, sum := range sums {
		avg := float64(sum) / float64(counts[id])
		if avg > best {
			best = avg
			bestID = id
		}
	}
	return bestID, best, nil
}

type fakeReviewRepo struct {
	reviews []domain.Review
	nextID  uint
}

func (f *fakeReviewRepo) Save(_ context.Context, r *domain.Review) error {
	f.nextID++
	r.ID = f.nextID
	f.reviews = append(f.reviews, *r)
	return nil
}

func (f *fakeReviewRepo) ListForProduct(_ context.Context, productID uint) ([]domain.Review, error) {
	var out []domain.Review
	for _, r := range f.reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeProductRepo struct {
	products map[uint]*catalogdomain.Product
}

func newFakeProductRepo(products ...*catalogdomain.Product) *fakeProductRepo {
	f := &fakeProductRepo{products: map[uint]*catalogdomain.Product{}}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
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

func (f *fakeProductRepo) GetBySlug(_ context.Context, slug string) (*catalogdomain.Product, error) {
	for _, p := range f.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, catalogdomain.ErrNotFound
}

func (f *fakeProductRepo) List(_ context.Context, _ catalogdomain.ProductFilter) ([]*catalogdomain.Product, int, error) {
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

func newService(products ...*catalogdomain.Product) (*ReviewApplicationService, *fakeRatingRepo, *fakeReviewRepo) {
	ratings := &fakeRatingRepo{}
	reviews := &fakeReviewRepo{}
	svc := NewReviewApplicationService(ratings, reviews, newFakeProductRepo(products...), nil)
	return svc, ratings, reviews
}

func apple() *catalogdomain.Product {
	return &catalogdomain.Product{ID: 1, Name: "Apple", Price: decimal.RequireFromString("2.50")}
}

func TestRateRejectsOutOfRangeValues(t *testing.T) {
	svc, _, _ := newService(apple())

	assert.ErrorIs(t, svc.Rate(context.Background(), 10, 1, 0), domain.ErrInvalidRating)
	assert.ErrorIs(t, svc.Rate(context.Background(), 10, 1, 6), domain.ErrInvalidRating)
}

func TestRateUnknownProduct(t *testing.T) {
	svc, _, _ := newService()

	assert.ErrorIs(t, svc.Rate(context.Background(), 10, 99, 4), catalogdomain.ErrNotFound)
}

func TestRateReplacesPreviousRating(t *testing.T) {
	svc, ratings, _ := newService(apple())
	ctx := context.Background()

	require.NoError(t, svc.Rate(ctx, 10, 1, 2))
	require.NoError(t, svc.Rate(ctx, 10, 1, 5))

	require.Len(t, ratings.ratings, 1)
	assert.Equal(t, 5, ratings.ratings[0].Value)

	got, err := svc.UserRating(ctx, 10, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, got)
}

type failingPublisher struct {
	calls int
}

func (f *failingPublisher) PublishProductRated(context.Context, domain.ProductRatedEvent) error {
	f.calls++
	return context.DeadlineExceeded
}

func TestRateSurvivesPublishFailure(t *testing.T) {
	publisher := &failingPublisher{}
	svc := NewReviewApplicationService(&fakeRatingRepo{}, &fakeReviewRepo{}, newFakeProductRepo(apple()), publisher)

	// The rating is the user-visible outcome; a lost event only gets logged.
	require.NoError(t, svc.Rate(context.Background(), 10, 1, 4))
	assert.Equal(t, 1, publisher.calls)
}

func TestUserRatingZeroWhenAbsent(t *testing.T) {
	svc, _, _ := newService(apple())

	got, err := svc.UserRating(context.Background(), 10, 1)
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestAverageRatingAcrossUsers(t *testing.T) {
	svc, _, _ := newService(apple())
	ctx := context.Background()

	require.NoError(t, svc.Rate(ctx, 10, 1, 5))
	require.NoError(t, svc.Rate(ctx, 11, 1, 2))

	avg, err := svc.AverageRating(ctx, 1)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, avg, 1e-9)
}

func TestSubmitReviewValidation(t *testing.T) {
	svc, _, _ := newService(apple())
	ctx := context.Background()

	_, err := svc.SubmitReview(ctx, SubmitReviewCommand{ProductID: 1, Text: "   "})
	assert.ErrorIs(t, err, domain.ErrEmptyReview)

	_, err = svc.SubmitReview(ctx, SubmitReviewCommand{ProductID: 1, Text: "fine", Rating: 6})
	assert.ErrorIs(t, err, domain.ErrInvalidRating)

	_, err = svc.SubmitReview(ctx, SubmitReviewCommand{ProductID: 42, Text: "fine"})
	assert.ErrorIs(t, err, catalogdomain.ErrNotFound)
}

func TestSubmitAndListReviews(t *testing.T) {
	svc, _, _ := newService(apple())
	ctx := context.Background()

	id, err := svc.SubmitReview(ctx, SubmitReviewCommand{
		AuthorID:  10,
		ProductID: 1,
		Text:      "crisp and sweet",
		Name:      "alice",
		Rating:    5,
	})
	require.NoError(t, err)
	assert.NotZero(t, id)

	reviews, err := svc.ListReviews(ctx, 1)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "crisp and sweet", reviews[0].Text)
}
