package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/wyfcoding/fruitable/internal/auth/domain"
	"github.com/wyfcoding/fruitable/pkg/cache"
)

// sessionRepository stores one redis key per issued token, keyed by the
// token's sha256 so raw JWTs never land in redis.
type sessionRepository struct {
	cache *cache.RedisCache
}

func NewSessionRepository(c *cache.RedisCache) domain.SessionRepository {
	return &sessionRepository{cache: c}
}

func sessionKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "session:" + hex.EncodeToString(sum[:])
}

func (r *sessionRepository) Save(ctx context.Context, token string, userID uint, ttl time.Duration) error {
	return r.cache.Set(ctx, sessionKey(token), strconv.FormatUint(uint64(userID), 10), ttl)
}

func (r *sessionRepository) Exists(ctx context.Context, token string) (bool, error) {
	val, err := r.cache.Get(ctx, sessionKey(token))
	if err != nil {
		return false, err
	}
	return val != "", nil
}

func (r *sessionRepository) Delete(ctx context.Context, token string) error {
	return r.cache.Delete(ctx, sessionKey(token))
}
