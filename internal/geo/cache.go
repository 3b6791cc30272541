// README: Redis-backed geocode result cache; degrades to the wrapped backend on cache errors.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CachedGeocoder memoizes geocode results in Redis. Cache misses and cache
// failures both fall through to the wrapped geocoder; only resolved
// locations are cached (a "not found" is cheap enough to re-ask).
type CachedGeocoder struct {
	next Geocoder
	rdb  *redis.Client
	ttl  time.Duration
	log  *zap.Logger
}

func NewCachedGeocoder(next Geocoder, rdb *redis.Client, ttl time.Duration, log *zap.Logger) *CachedGeocoder {
	if log == nil {
		log = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CachedGeocoder{next: next, rdb: rdb, ttl: ttl, log: log}
}

func (c *CachedGeocoder) Geocode(ctx context.Context, address string) (*Location, error) {
	key := "geo:fwd:" + strings.ToLower(strings.TrimSpace(address))
	if raw, err := c.rdb.Get(ctx, key).Result(); err == nil {
		var loc Location
		if json.Unmarshal([]byte(raw), &loc) == nil {
			return &loc, nil
		}
	} else if err != redis.Nil {
		c.log.Warn("geocode cache read failed", zap.Error(err))
	}

	loc, err := c.next.Geocode(ctx, address)
	if err != nil || loc == nil {
		return loc, err
	}
	if raw, err := json.Marshal(loc); err == nil {
		if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.log.Warn("geocode cache write failed", zap.Error(err))
		}
	}
	return loc, nil
}

func (c *CachedGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	key := fmt.Sprintf("geo:rev:%.5f,%.5f", lat, lng)
	if addr, err := c.rdb.Get(ctx, key).Result(); err == nil && addr != "" {
		return addr, nil
	} else if err != nil && err != redis.Nil {
		c.log.Warn("reverse geocode cache read failed", zap.Error(err))
	}

	addr, err := c.next.ReverseGeocode(ctx, lat, lng)
	if err != nil || addr == "" {
		return addr, err
	}
	if err := c.rdb.Set(ctx, key, addr, c.ttl).Err(); err != nil {
		c.log.Warn("reverse geocode cache write failed", zap.Error(err))
	}
	return addr, nil
}
