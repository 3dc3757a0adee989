package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/fruitable/internal/review/domain"
	"gorm.io/gorm"
)

type ratingRepository struct{ db *gorm.DB }

func NewRatingRepository(db *gorm.DB) domain.RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Save(ctx context.Context, rating *domain.Rating) error {
	return r.db.WithContext(ctx).Create(rating).Error
}

func (r *ratingRepository) DeleteFor(ctx context.Context, userID, productID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&domain.Rating{}).Error
}

func (r *ratingRepository) GetFor(ctx context.Context, userID, productID uint) (*domain.Rating, error) {
	var rating domain.Rating
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&rating).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) RatingsFor(ctx context.Context, productID uint) ([]domain.Rating, error) {
	var ratings []domain.Rating
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Find(&ratings).Error
	return ratings, err
}

func (r *ratingRepository) TopProduct(ctx context.Context) (uint, float64, error) {
	var row struct {
		ProductID uint
		Average   float64
	}
	err := r.db.WithContext(ctx).Model(&domain.Rating{}).
		Select("product_id, AVG(value) AS average").
		Group("product_id").
		Order("average DESC").
		Limit(1).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.ProductID, row.Average, nil
}

type reviewRepository struct{ db *gorm.DB }

func NewReviewRepository(db *gorm.DB) domain.ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Save(ctx context.Context, review *domain.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) ListForProduct(ctx context.Context, productID uint) ([]domain.Review, error) {
	var reviews []domain.Review
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}
