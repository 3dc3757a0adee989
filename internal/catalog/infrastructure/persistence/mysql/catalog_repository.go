package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/fruitable/internal/catalog/domain"
	"gorm.io/gorm"
)

type productRepository struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) domain.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Save(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uint) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, int, error) {
	var products []*domain.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&domain.Product{})
	if filter.CategoryID != 0 {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	switch filter.Sale {
	case domain.SaleOnly:
		q = q.Where("sale_percent > 0").Order("sale_percent DESC")
	case domain.SaleNone:
		q = q.Where("sale_percent = 0")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if filter.Limit > 0 {
		q = q.Offset(filter.Offset).Limit(filter.Limit)
	}
	err := q.Find(&products).Error
	return products, int(total), err
}

func (r *productRepository) ListByIDs(ctx context.Context, ids []uint) ([]*domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []*domain.Product
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (r *productRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.Product{}, id).Error
}

type categoryRepository struct{ db *gorm.DB }

func NewCategoryRepository(db *gorm.DB) domain.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Save(ctx context.Context, category *domain.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*domain.Category, error) {
	var c domain.Category
	err := r.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepository) ListRoots(ctx context.Context) ([]*domain.Category, error) {
	var categories []*domain.Category
	err := r.db.WithContext(ctx).
		Preload("Children").
		Where("parent_id IS NULL").
		Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	// Children carry an OnDelete:CASCADE constraint on parent_id; removing
	// the row removes the subtree.
	return r.db.WithContext(ctx).Delete(&domain.Category{}, id).Error
}

type geoRepository struct{ db *gorm.DB }

func NewGeoRepository(db *gorm.DB) domain.GeoRepository {
	return &geoRepository{db: db}
}

func (r *geoRepository) ListRegions(ctx context.Context) ([]*domain.Region, error) {
	var regions []*domain.Region
	err := r.db.WithContext(ctx).Order("name").Find(&regions).Error
	return regions, err
}

func (r *geoRepository) ListCities(ctx context.Context, regionID uint) ([]*domain.City, error) {
	var cities []*domain.City
	q := r.db.WithContext(ctx).Order("name")
	if regionID != 0 {
		q = q.Where("region_id = ?", regionID)
	}
	err := q.Find(&cities).Error
	return cities, err
}

type subscriberRepository struct{ db *gorm.DB }

func NewSubscriberRepository(db *gorm.DB) domain.SubscriberRepository {
	return &subscriberRepository{db: db}
}

func (r *subscriberRepository) Save(ctx context.Context, subscriber *domain.Subscriber) error {
	err := r.db.WithContext(ctx).Create(subscriber).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Already subscribed.
		return nil
	}
	return err
}
