package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"coupon-engine/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	issuableAllKey         = "coupons:issuable:all"
	issuableStoreKeyPrefix = "coupons:issuable:store:"
)

// IssuableListCache caches issuable coupon listings in redis. Every failure
// degrades to a cache miss; the read side falls through to the database and
// the claim path never consults the cache at all.
type IssuableListCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewIssuableListCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) queries.IssuableListCache {
	return &IssuableListCache{client: client, ttl: ttl, logger: logger}
}

func (c *IssuableListCache) GetList(ctx context.Context, storeID uuid.UUID) ([]*queries.CouponView, bool) {
	raw, err := c.client.Get(ctx, listKey(storeID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("issuable list cache read failed", "error", err.Error())
		}
		return nil, false
	}

	var items []*queries.CouponView
	if err := json.Unmarshal(raw, &items); err != nil {
		c.logger.Warn("issuable list cache entry corrupt", "error", err.Error())
		return nil, false
	}
	return items, true
}

func (c *IssuableListCache) SetList(ctx context.Context, storeID uuid.UUID, items []*queries.CouponView) {
	raw, err := json.Marshal(items)
	if err != nil {
		c.logger.Warn("failed to marshal issuable list", "error", err.Error())
		return
	}
	if err := c.client.Set(ctx, listKey(storeID), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("issuable list cache write failed", "error", err.Error())
	}
}

// Invalidate drops both the store-scoped and the all-stores listing, since a
// definition change affects either.
func (c *IssuableListCache) Invalidate(ctx context.Context, storeID uuid.UUID) {
	keys := []string{issuableAllKey}
	if storeID != uuid.Nil {
		keys = append(keys, listKey(storeID))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("issuable list cache invalidation failed", "error", err.Error())
	}
}

func listKey(storeID uuid.UUID) string {
	if storeID == uuid.Nil {
		return issuableAllKey
	}
	return issuableStoreKeyPrefix + storeID.String()
}
