package application

import (
	"context"
	"strings"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/fruitable/internal/catalog/domain"
)

type CreateProductCommand struct {
	Name        string
	Description string
	CategoryID  uint
	Price       decimal.Decimal
	SalePercent int
	Image       string
	Stock       int
}

type UpdateProductCommand struct {
	ID          uint
	Name        string
	Description string
	CategoryID  uint
	Price       decimal.Decimal
	SalePercent int
	Image       string
	Stock       int
}

type CreateCategoryCommand struct {
	Name     string
	Image    string
	ParentID *uint
}

type UpdateCategoryCommand struct {
	ID       uint
	Name     string
	Image    string
	ParentID *uint
}

// CatalogCommandService covers the admin-managed side of the catalog plus
// the newsletter signup form posted from the listing pages.
type CatalogCommandService struct {
	products    domain.ProductRepository
	categories  domain.CategoryRepository
	subscribers domain.SubscriberRepository
}

func NewCatalogCommandService(
	products domain.ProductRepository,
	categories domain.CategoryRepository,
	subscribers domain.SubscriberRepository,
) *CatalogCommandService {
	return &CatalogCommandService{products: products, categories: categories, subscribers: subscribers}
}

// Subscribe stores a newsletter signup. Re-subscribing the same address is a
// no-op rather than an error.
func (s *CatalogCommandService) Subscribe(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return domain.ErrInvalidEmail
	}
	return s.subscribers.Save(ctx, &domain.Subscriber{Email: email})
}

func (s *CatalogCommandService) CreateProduct(ctx context.Context, cmd CreateProductCommand) (uint, error) {
	if err := validatePricing(cmd.Price, cmd.SalePercent); err != nil {
		return 0, err
	}
	if _, err := s.categories.GetByID(ctx, cmd.CategoryID); err != nil {
		return 0, err
	}
	p := &domain.Product{
		Name:        cmd.Name,
		Description: cmd.Description,
		CategoryID:  cmd.CategoryID,
		Price:       cmd.Price,
		SalePercent: cmd.SalePercent,
		Image:       cmd.Image,
		Stock:       cmd.Stock,
		Slug:        slug.Make(cmd.Name),
	}
	if err := s.products.Save(ctx, p); err != nil {
		return 0, err
	}
	return p.ID, nil
}

func (s *CatalogCommandService) UpdateProduct(ctx context.Context, cmd UpdateProductCommand) error {
	if err := validatePricing(cmd.Price, cmd.SalePercent); err != nil {
		return err
	}
	p, err := s.products.GetByID(ctx, cmd.ID)
	if err != nil {
		return err
	}
	if cmd.CategoryID != p.CategoryID {
		if _, err := s.categories.GetByID(ctx, cmd.CategoryID); err != nil {
			return err
		}
	}
	p.Name = cmd.Name
	p.Description = cmd.Description
	p.CategoryID = cmd.CategoryID
	p.Price = cmd.Price
	p.SalePercent = cmd.SalePercent
	p.Image = cmd.Image
	p.Stock = cmd.Stock
	p.Slug = slug.Make(cmd.Name)
	return s.products.Save(ctx, p)
}

func (s *CatalogCommandService) DeleteProduct(ctx context.Context, id uint) error {
	if _, err := s.products.GetByID(ctx, id); err != nil {
		return err
	}
	return s.products.Delete(ctx, id)
}

func (s *CatalogCommandService) CreateCategory(ctx context.Context, cmd CreateCategoryCommand) (uint, error) {
	if cmd.ParentID != nil {
		if _, err := s.categories.GetByID(ctx, *cmd.ParentID); err != nil {
			return 0, err
		}
	}
	c := &domain.Category{
		Name:     cmd.Name,
		Image:    cmd.Image,
		Slug:     slug.Make(cmd.Name),
		ParentID: cmd.ParentID,
	}
	if err := s.categories.Save(ctx, c); err != nil {
		return 0, err
	}
	return c.ID, nil
}

func (s *CatalogCommandService) UpdateCategory(ctx context.Context, cmd UpdateCategoryCommand) error {
	c, err := s.categories.GetByID(ctx, cmd.ID)
	if err != nil {
		return err
	}
	if cmd.ParentID != nil {
		if err := s.checkParentChain(ctx, cmd.ID, *cmd.ParentID); err != nil {
			return err
		}
	}
	c.Name = cmd.Name
	c.Image = cmd.Image
	c.Slug = slug.Make(cmd.Name)
	c.ParentID = cmd.ParentID
	return s.categories.Save(ctx, c)
}

// DeleteCategory removes the category; subcategories go with it via the
// cascade on parent_id.
func (s *CatalogCommandService) DeleteCategory(ctx context.Context, id uint) error {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		return err
	}
	return s.categories.Delete(ctx, id)
}

// checkParentChain walks up from the proposed parent and rejects the
// assignment if the chain reaches the category itself.
func (s *CatalogCommandService) checkParentChain(ctx context.Context, id, parentID uint) error {
	for current := parentID; ; {
		if current == id {
			return domain.ErrCategoryCycle
		}
		parent, err := s.categories.GetByID(ctx, current)
		if err != nil {
			return err
		}
		if parent.ParentID == nil {
			return nil
		}
		current = *parent.ParentID
	}
}

func validatePricing(price decimal.Decimal, salePercent int) error {
	if price.IsNegative() {
		return domain.ErrInvalidPrice
	}
	if salePercent < 0 || salePercent > 100 {
		return domain.ErrInvalidSale
	}
	return nil
}
