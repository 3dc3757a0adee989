package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/wyfcoding/fruitable/internal/cart/domain"
	"github.com/wyfcoding/fruitable/pkg/cache"
)

const guestCartTTL = 14 * 24 * time.Hour

// guestCartRepository stores anonymous carts as redis hashes keyed by the
// explicit cart id: field = product id, value = quantity.
type guestCartRepository struct {
	cache *cache.RedisCache
}

func NewGuestCartRepository(c *cache.RedisCache) domain.GuestCartRepository {
	return &guestCartRepository{cache: c}
}

func cartKey(cartID string) string {
	return fmt.Sprintf("cart:guest:%s", cartID)
}

func (r *guestCartRepository) Get(ctx context.Context, cartID string) (*domain.GuestCart, error) {
	fields, err := r.cache.HGetAll(ctx, cartKey(cartID))
	if err != nil {
		return nil, err
	}
	cart := domain.NewGuestCart(cartID)
	for field, value := range fields {
		productID, err := strconv.ParseUint(field, 10, 32)
		if err != nil {
			continue
		}
		qty, err := strconv.Atoi(value)
		if err != nil || qty <= 0 {
			continue
		}
		cart.Items[uint(productID)] = qty
	}
	return cart, nil
}

func (r *guestCartRepository) SetItem(ctx context.Context, cartID string, productID uint, quantity int) error {
	key := cartKey(cartID)
	if err := r.cache.HSet(ctx, key, strconv.FormatUint(uint64(productID), 10), quantity); err != nil {
		return err
	}
	return r.cache.Expire(ctx, key, guestCartTTL)
}

func (r *guestCartRepository) RemoveItem(ctx context.Context, cartID string, productID uint) error {
	return r.cache.HDel(ctx, cartKey(cartID), strconv.FormatUint(uint64(productID), 10))
}

func (r *guestCartRepository) Clear(ctx context.Context, cartID string) error {
	return r.cache.Delete(ctx, cartKey(cartID))
}
