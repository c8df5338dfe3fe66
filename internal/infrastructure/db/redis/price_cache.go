package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/cointrail/tracker-api/internal/core/ports"
)

const defaultPriceTTL = time.Minute

// PriceCache is a read-through price cache backed by Redis.
// Key format: price:<network>
//
// On a cache miss, or when Redis itself is unreachable, the lookup
// falls back to the wrapped source; a stale or absent cache must never
// make valuation fail.
type PriceCache struct {
	client *redis.Client
	source ports.PriceSource
	ttl    time.Duration
}

// NewPriceCache wraps source with a Redis cache. A non-positive ttl
// selects the default.
func NewPriceCache(client *redis.Client, source ports.PriceSource, ttl time.Duration) *PriceCache {
	if ttl <= 0 {
		ttl = defaultPriceTTL
	}
	return &PriceCache{client: client, source: source, ttl: ttl}
}

// Price implements ports.PriceSource.
func (c *PriceCache) Price(ctx context.Context, network string) (decimal.Decimal, error) {
	cached, err := c.client.Get(ctx, c.key(network)).Result()
	if err == nil {
		if price, perr := decimal.NewFromString(cached); perr == nil {
			return price, nil
		}
		// Unparseable entry: drop through and rewrite it.
	} else if !errors.Is(err, redis.Nil) && ctx.Err() != nil {
		return decimal.Decimal{}, ctx.Err()
	}

	return c.Refresh(ctx, network)
}

// Refresh fetches the current price from the wrapped source and
// rewrites the cache entry. Cache write failures are non-fatal: the
// fresh price is still returned.
func (c *PriceCache) Refresh(ctx context.Context, network string) (decimal.Decimal, error) {
	price, err := c.source.Price(ctx, network)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("price source %q: %w", network, err)
	}
	_ = c.client.Set(ctx, c.key(network), price.String(), c.ttl).Err()
	return price, nil
}

func (c *PriceCache) key(network string) string {
	return "price:" + network
}
