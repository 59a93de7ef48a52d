package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/umalmyha/loyalty/internal/domain/loyalty"
)

// TierCache keeps computed customer tiers keyed by customer id and
// reference date. Rule changes must purge the cache wholesale so that new
// rules take effect for subsequent classifications immediately
type TierCache interface {
	Find(ctx context.Context, customerID string, asOf time.Time) (*loyalty.Tier, error)
	Cache(ctx context.Context, customerID string, asOf time.Time, tier loyalty.Tier) error
	Purge(context.Context) error
}

type redisTierCache struct {
	client     *redis.Client
	timeToLive time.Duration
}

// NewRedisTierCache creates tier cache over redis with msgpack encoding
func NewRedisTierCache(client *redis.Client, timeToLive time.Duration) TierCache {
	return &redisTierCache{client: client, timeToLive: timeToLive}
}

func (r *redisTierCache) Find(ctx context.Context, customerID string, asOf time.Time) (*loyalty.Tier, error) {
	res, err := r.client.Get(ctx, r.key(customerID, asOf)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var tier loyalty.Tier
	if err := msgpack.Unmarshal([]byte(res), &tier); err != nil {
		return nil, err
	}
	return &tier, nil
}

func (r *redisTierCache) Cache(ctx context.Context, customerID string, asOf time.Time, tier loyalty.Tier) error {
	encoded, err := msgpack.Marshal(&tier)
	if err != nil {
		return err
	}

	if _, err := r.client.SetNX(ctx, r.key(customerID, asOf), encoded, r.timeToLive).Result(); err != nil {
		return err
	}
	return nil
}

func (r *redisTierCache) Purge(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, "tier:*", 0).Iterator()
	for iter.Next(ctx) {
		if _, err := r.client.Del(ctx, iter.Val()).Result(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (r *redisTierCache) key(customerID string, asOf time.Time) string {
	return fmt.Sprintf("tier:%s:%s", customerID, asOf.Format("2006-01-02"))
}

type noopTierCache struct{}

// NewNoopTierCache creates tier cache which caches nothing. It is wired
// when no redis is configured, so every classification is computed afresh
func NewNoopTierCache() TierCache {
	return noopTierCache{}
}

func (noopTierCache) Find(context.Context, string, time.Time) (*loyalty.Tier, error) {
	return nil, nil
}

func (noopTierCache) Cache(context.Context, string, time.Time, loyalty.Tier) error {
	return nil
}

func (noopTierCache) Purge(context.Context) error {
	return nil
}
