package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/user/log-vault/internal/adapter/metrics"
	"github.com/user/log-vault/internal/domain"
)

const userKeyPrefix = "logvault:user:"

// UserCache is a read-through cache over a domain.UserRepository. Users
// are immutable once provisioned, so a cached resolution never needs
// invalidation; entries expire only to bound memory. Redis failures
// degrade to the underlying repository rather than failing the request.
type UserCache struct {
	client  *redis.Client
	next    domain.UserRepository
	logger  *slog.Logger
	ttl     time.Duration
	metrics *metrics.ServiceMetrics
}

// NewUserCache wraps next with a Redis-backed resolution cache.
func NewUserCache(client *redis.Client, next domain.UserRepository, logger *slog.Logger, ttl time.Duration, m *metrics.ServiceMetrics) *UserCache {
	return &UserCache{
		client:  client,
		next:    next,
		logger:  logger.With("component", "user_cache"),
		ttl:     ttl,
		metrics: m,
	}
}

func (c *UserCache) FindByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	key := userKeyPrefix + externalID

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var u domain.User
		if jsonErr := json.Unmarshal(payload, &u); jsonErr == nil {
			if c.metrics != nil {
				c.metrics.UserCacheHits.Inc()
			}
			return &u, nil
		}
		c.logger.Warn("discarding undecodable cache entry", "key", key)
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("user cache read failed, falling back to store", "error", err)
	}

	if c.metrics != nil {
		c.metrics.UserCacheMisses.Inc()
	}

	u, err := c.next.FindByExternalID(ctx, externalID)
	if err != nil {
		// Negative results are never cached: the identity may be
		// provisioned an instant later.
		return nil, err
	}

	c.store(ctx, u)
	return u, nil
}

func (c *UserCache) Create(ctx context.Context, externalID string) (*domain.User, error) {
	u, err := c.next.Create(ctx, externalID)
	if err != nil {
		return nil, err
	}
	c.store(ctx, u)
	return u, nil
}

func (c *UserCache) store(ctx context.Context, u *domain.User) {
	payload, err := json.Marshal(u)
	if err != nil {
		c.logger.Warn("failed to encode user for cache", "error", err)
		return
	}
	if err := c.client.Set(ctx, userKeyPrefix+u.ExternalID, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("user cache write failed", "error", fmt.Errorf("set %s: %w", userKeyPrefix+u.ExternalID, err))
	}
}
