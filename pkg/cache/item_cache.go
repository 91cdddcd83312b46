package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// ItemCacheTTL is the time-to-live for cached items.
	ItemCacheTTL = 24 * time.Hour

	itemCacheKeyPrefix = "item"
)

// CachedItem is the denormalized read model stored in Redis.
// Fields are stored as a Redis hash. Additional fields from other aggregates
// can be added here for read optimization without touching the domain model.
type CachedItem struct {
	ID            string    `json:"id"`
	CompanyPrefix string    `json:"company_prefix"`
	TypeCode      string    `json:"type_code"`
	Serial        int       `json:"serial"`
	Name          string    `json:"name"`
	Status        string    `json:"status"`
	Location      string    `json:"location"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ItemCache provides structured read/write operations for item cache entries.
// Key format: "item:{itemID}"
type ItemCache struct {
	client *RedisClient
}

// NewItemCache creates a new ItemCache backed by the given RedisClient.
func NewItemCache(r *RedisClient) *ItemCache {
	return &ItemCache{client: r}
}

// Get retrieves a cached item by ID.
// Returns redis.Nil error when the key does not exist or has expired.
func (c *ItemCache) Get(ctx context.Context, itemID string) (*CachedItem, error) {
	key := c.key(itemID)
	vals, err := c.client.Client().HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil // key not found
	}

	serial, err := strconv.Atoi(vals["serial"])
	if err != nil {
		return nil, fmt.Errorf("cache parse serial: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, vals["updated_at"])
	if err != nil {
		return nil, fmt.Errorf("cache parse updated_at: %w", err)
	}

	return &CachedItem{
		ID:            vals["id"],
		CompanyPrefix: vals["company_prefix"],
		TypeCode:      vals["type_code"],
		Serial:        serial,
		Name:          vals["name"],
		Status:        vals["status"],
		Location:      vals["location"],
		UpdatedAt:     updatedAt,
	}, nil
}

// Set writes a cached item as a Redis hash with a 24-hour TTL.
// Uses a pipeline to set all fields and the TTL atomically.
func (c *ItemCache) Set(ctx context.Context, item *CachedItem) error {
	key := c.key(item.ID)
	pipe := c.client.Client().Pipeline()
	pipe.HSet(ctx, key,
		"id", item.ID,
		"company_prefix", item.CompanyPrefix,
		"type_code", item.TypeCode,
		"serial", strconv.Itoa(item.Serial),
		"name", item.Name,
		"status", item.Status,
		"location", item.Location,
		"updated_at", item.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	pipe.Expire(ctx, key, ItemCacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes a cached item.
func (c *ItemCache) Delete(ctx context.Context, itemID string) error {
	if err := c.client.Client().Del(ctx, c.key(itemID)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// key builds the Redis key: "item:{itemID}"
func (c *ItemCache) key(itemID string) string {
	return fmt.Sprintf("%s:%s", itemCacheKeyPrefix, itemID)
}
