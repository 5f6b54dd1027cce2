package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	coreport "github.com/amirhossein-jamali/lab-lending/internal/domain/port/core"
	"github.com/amirhossein-jamali/lab-lending/internal/domain/port/persistence"
)

// RedisAvailabilityCache caches reserved quantities per barcode in Redis.
// Entries carry a TTL so a missed invalidation can only go stale for a
// bounded window.
type RedisAvailabilityCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger coreport.Logger
}

// NewRedisAvailabilityCache creates a Redis-backed availability cache
func NewRedisAvailabilityCache(rdb *redis.Client, ttl time.Duration, logger coreport.Logger) persistence.AvailabilityCache {
	return &RedisAvailabilityCache{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

func reservedKey(barcode string) string {
	return fmt.Sprintf("availability:reserved:%s", barcode)
}

// GetReserved returns the cached reserved quantity for a barcode
func (c *RedisAvailabilityCache) GetReserved(ctx context.Context, barcode string) (int, bool, error) {
	val, err := c.rdb.Get(ctx, reservedKey(barcode)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read availability cache: %w", err)
	}

	reserved, err := strconv.Atoi(val)
	if err != nil {
		// Corrupt entry, drop it and treat as a miss
		c.logger.Warn("Dropping corrupt availability cache entry", map[string]any{
			"barcode": barcode,
			"value":   val,
		})
		_ = c.rdb.Del(ctx, reservedKey(barcode)).Err()
		return 0, false, nil
	}

	return reserved, true, nil
}

// SetReserved stores the reserved quantity for a barcode
func (c *RedisAvailabilityCache) SetReserved(ctx context.Context, barcode string, reserved int) error {
	if err := c.rdb.Set(ctx, reservedKey(barcode), strconv.Itoa(reserved), c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write availability cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached entries for the given barcodes
func (c *RedisAvailabilityCache) Invalidate(ctx context.Context, barcodes ...string) error {
	if len(barcodes) == 0 {
		return nil
	}

	keys := make([]string, 0, len(barcodes))
	for _, barcode := range barcodes {
		keys = append(keys, reservedKey(barcode))
	}

	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate availability cache: %w", err)
	}
	return nil
}
