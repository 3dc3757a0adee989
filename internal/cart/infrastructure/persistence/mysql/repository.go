package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/fruitable/internal/cart/domain"
	pkgdb "github.com/wyfcoding/fruitable/pkg/db"
	"gorm.io/gorm"
)

type customerRepository struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) domain.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) GetOrCreateByUser(ctx context.Context, userID uint) (*domain.Customer, error) {
	var customer domain.Customer
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		customer = domain.Customer{UserID: &userID}
		if err := r.db.WithContext(ctx).Create(&customer).Error; err != nil {
			return nil, err
		}
		return &customer, nil
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

type orderRepository struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) domain.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) ActiveForCustomer(ctx context.Context, customerID uint) (*domain.Order, error) {
	var order domain.Order
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND active = ?", customerID, true).
		Order("created_at DESC").
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id uint) (*domain.Order, error) {
	var order domain.Order
	err := r.db.WithContext(ctx).First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	return pkgdb.FromContext(ctx, r.db).WithContext(ctx).Create(order).Error
}

// Save joins a transaction opened by db.WithTx when one is carried in ctx.
func (r *orderRepository) Save(ctx context.Context, order *domain.Order) error {
	return pkgdb.FromContext(ctx, r.db).WithContext(ctx).Save(order).Error
}

type lineRepository struct{ db *gorm.DB }

func NewLineRepository(db *gorm.DB) domain.LineRepository {
	return &lineRepository{db: db}
}

func (r *lineRepository) LinesFor(ctx context.Context, orderID uint) ([]domain.OrderProduct, error) {
	var lines []domain.OrderProduct
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("order_id = ?", orderID).
		Order("added_at").
		Find(&lines).Error
	return lines, err
}

func (r *lineRepository) GetLine(ctx context.Context, orderID, productID uint) (*domain.OrderProduct, error) {
	var line domain.OrderProduct
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND product_id = ?", orderID, productID).
		First(&line).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *lineRepository) Save(ctx context.Context, line *domain.OrderProduct) error {
	return r.db.WithContext(ctx).Save(line).Error
}

func (r *lineRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.OrderProduct{}, id).Error
}

type shippingAddressRepository struct{ db *gorm.DB }

func NewShippingAddressRepository(db *gorm.DB) domain.ShippingAddressRepository {
	return &shippingAddressRepository{db: db}
}

func (r *shippingAddressRepository) Save(ctx context.Context, address *domain.ShippingAddress) error {
	return r.db.WithContext(ctx).Save(address).Error
}

func (r *shippingAddressRepository) ForOrder(ctx context.Context, orderID uint) (*domain.ShippingAddress, error) {
	var address domain.ShippingAddress
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&address).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &address, nil
}
