package application

import (
	"context"

	"github.com/wyfcoding/fruitable/internal/catalog/domain"
)

// RatingSource reports rating aggregates owned by the review context.
type RatingSource interface {
	TopProduct(ctx context.Context) (productID uint, average float64, err error)
}

type CatalogQueryService struct {
	products   domain.ProductRepository
	categories domain.CategoryRepository
	geo        domain.GeoRepository
	ratings    RatingSource
}

func NewCatalogQueryService(products domain.ProductRepository, categories domain.CategoryRepository, geo domain.GeoRepository, ratings RatingSource) *CatalogQueryService {
	return &CatalogQueryService{products: products, categories: categories, geo: geo, ratings: ratings}
}

func (s *CatalogQueryService) GetProduct(ctx context.Context, id uint) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *CatalogQueryService) GetProductBySlug(ctx context.Context, productSlug string) (*domain.Product, error) {
	return s.products.GetBySlug(ctx, productSlug)
}

func (s *CatalogQueryService) ListProducts(ctx context.Context, filter domain.ProductFilter, page, size int) ([]*domain.Product, int, error) {
	if size <= 0 {
		size = 20
	}
	offset := (page - 1) * size
	if offset < 0 {
		offset = 0
	}
	filter.Offset = offset
	filter.Limit = size
	return s.products.List(ctx, filter)
}

// RelatedProducts lists other products in the same category, for the detail
// page sidebar.
func (s *CatalogQueryService) RelatedProducts(ctx context.Context, productID uint, limit int) ([]*domain.Product, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 6
	}
	related, _, err := s.products.List(ctx, domain.ProductFilter{CategoryID: p.CategoryID, Limit: limit})
	if err != nil {
		return nil, err
	}
	out := related[:0]
	for _, r := range related {
		if r.ID != productID {
			out = append(out, r)
		}
	}
	return out, nil
}

// TopRated resolves the product with the highest average rating. Returns
// ErrNotFound when no product has been rated yet.
func (s *CatalogQueryService) TopRated(ctx context.Context) (*domain.Product, float64, error) {
	productID, average, err := s.ratings.TopProduct(ctx)
	if err != nil {
		return nil, 0, err
	}
	if productID == 0 {
		return nil, 0, domain.ErrNotFound
	}
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, 0, err
	}
	return p, average, nil
}

func (s *CatalogQueryService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.ListRoots(ctx)
}

func (s *CatalogQueryService) ListRegions(ctx context.Context) ([]*domain.Region, error) {
	return s.geo.ListRegions(ctx)
}

func (s *CatalogQueryService) ListCities(ctx context.Context, regionID uint) ([]*domain.City, error) {
	return s.geo.ListCities(ctx, regionID)
}
