package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/fruitable/internal/catalog/domain"
)

type fakeProductRepo struct {
	products map[uint]*domain.Product
	nextID   uint
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[uint]*domain.Product{}}
}

func (f *fakeProductRepo) Save(_ context.Context, p *domain.Product) error {
	if p.ID == 0 {
		f.nextID++
		p.ID = f.nextID
	}
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) GetByID(_ context.Context, id uint) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeProductRepo) GetBySlug(_ context.Context, s string) (*domain.Product, error) {
	for _, p := range f.products {
		if p.Slug == s {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeProductRepo) List(_ context.Context, filter domain.ProductFilter) ([]*domain.Product, int, error) {
	var out []*domain.Product
	for _, p := range f.products {
		if filter.CategoryID != 0 && p.CategoryID != filter.CategoryID {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

func (f *fakeProductRepo) ListByIDs(_ context.Context, ids []uint) ([]*domain.Product, error) {
	var out []*domain.Product
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

type fakeCategoryRepo struct {
	categories map[uint]*domain.Category
	nextID     uint
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: map[uint]*domain.Category{}}
}

func (f *fakeCategoryRepo) Save(_ context.Context, c *domain.Category) error {
	if c.ID == 0 {
		f.nextID++
		c.ID = f.nextID
	}
	f.categories[c.ID] = c
	return nil
}

func (f *fakeCategoryRepo) GetByID(_ context.Context, id uint) (*domain.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (f *fakeCategoryRepo) ListRoots(_ context.Context) ([]*domain.Category, error) {
	var out []*domain.Category
	for _, c := range f.categories {
		if c.ParentID == nil {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCategoryRepo) Delete(_ context.Context, id uint) error {
	delete(f.categories, id)
	return nil
}

type fakeRatingSource struct {
	productID uint
	average   float64
}

func (f fakeRatingSource) TopProduct(context.Context) (uint, float64, error) {
	return f.productID, f.average, nil
}

type fakeSubscriberRepo struct {
	emails []string
}

func (f *fakeSubscriberRepo) Save(_ context.Context, s *domain.Subscriber) error {
	for _, e := range f.emails {
		if e == s.Email {
			return nil
		}
	}
	f.emails = append(f.emails, s.Email)
	return nil
}

func newCommandService() (*CatalogCommandService, *fakeProductRepo, *fakeCategoryRepo) {
	products := newFakeProductRepo()
	categories := newFakeCategoryRepo()
	return NewCatalogCommandService(products, categories, &fakeSubscriberRepo{}), products, categories
}

func seedCategory(t *testing.T, categories *fakeCategoryRepo) uint {
	t.Helper()
	c := &domain.Category{Name: "Fruit"}
	require.NoError(t, categories.Save(context.Background(), c))
	return c.ID
}

func TestCreateProductSlugifiesName(t *testing.T) {
	svc, products, categories := newCommandService()
	catID := seedCategory(t, categories)

	id, err := svc.CreateProduct(context.Background(), CreateProductCommand{
		Name:       "Golden Delicious Apple",
		CategoryID: catID,
		Price:      decimal.RequireFromString("2.50"),
	})
	require.NoError(t, err)

	assert.Equal(t, "golden-delicious-apple", products.products[id].Slug)
}

func TestCreateProductValidation(t *testing.T) {
	svc, _, categories := newCommandService()
	catID := seedCategory(t, categories)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, CreateProductCommand{
		Name: "Apple", CategoryID: catID, Price: decimal.RequireFromString("-1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	_, err = svc.CreateProduct(ctx, CreateProductCommand{
		Name: "Apple", CategoryID: catID, Price: decimal.RequireFromString("1"), SalePercent: 101,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidSale)

	_, err = svc.CreateProduct(ctx, CreateProductCommand{
		Name: "Apple", CategoryID: 999, Price: decimal.RequireFromString("1"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateCategoryRejectsCycle(t *testing.T) {
	svc, _, categories := newCommandService()
	ctx := context.Background()

	rootID, err := svc.CreateCategory(ctx, CreateCategoryCommand{Name: "Fruit"})
	require.NoError(t, err)
	childID, err := svc.CreateCategory(ctx, CreateCategoryCommand{Name: "Citrus", ParentID: &rootID})
	require.NoError(t, err)

	// Reparenting the root beneath its own child would form a cycle.
	err = svc.UpdateCategory(ctx, UpdateCategoryCommand{ID: rootID, Name: "Fruit", ParentID: &childID})
	assert.ErrorIs(t, err, domain.ErrCategoryCycle)
	assert.Nil(t, categories.categories[rootID].ParentID)
}

func TestSubscribeNormalizesEmail(t *testing.T) {
	subscribers := &fakeSubscriberRepo{}
	svc := NewCatalogCommandService(newFakeProductRepo(), newFakeCategoryRepo(), subscribers)
	ctx := context.Background()

	require.NoError(t, svc.Subscribe(ctx, "  Fan@Example.COM "))
	require.NoError(t, svc.Subscribe(ctx, "fan@example.com"))

	assert.Equal(t, []string{"fan@example.com"}, subscribers.emails)
}

func TestSubscribeRejectsEmptyEmail(t *testing.T) {
	svc := NewCatalogCommandService(newFakeProductRepo(), newFakeCategoryRepo(), &fakeSubscriberRepo{})

	err := svc.Subscribe(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
}

func TestTopRated(t *testing.T) {
	products := newFakeProductRepo()
	p := &domain.Product{Name: "Apple", Price: decimal.RequireFromString("2.50")}
	require.NoError(t, products.Save(context.Background(), p))

	svc := NewCatalogQueryService(products, newFakeCategoryRepo(), nil, fakeRatingSource{productID: p.ID, average: 4.5})

	got, avg, err := svc.TopRated(context.Background())
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.InDelta(t, 4.5, avg, 1e-9)
}

func TestTopRatedWithoutRatings(t *testing.T) {
	svc := NewCatalogQueryService(newFakeProductRepo(), newFakeCategoryRepo(), nil, fakeRatingSource{})

	_, _, err := svc.TopRated(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRelatedProductsExcludesSelf(t *testing.T) {
	products := newFakeProductRepo()
	ctx := context.Background()
	a := &domain.Product{Name: "Apple", CategoryID: 1, Price: decimal.RequireFromString("1")}
	b := &domain.Product{Name: "Pear", CategoryID: 1, Price: decimal.RequireFromString("1")}
	require.NoError(t, products.Save(ctx, a))
	require.NoError(t, products.Save(ctx, b))

	svc := NewCatalogQueryService(products, newFakeCategoryRepo(), nil, fakeRatingSource{})

	related, err := svc.RelatedProducts(ctx, a.ID, 10)
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, b.ID, related[0].ID)
}
