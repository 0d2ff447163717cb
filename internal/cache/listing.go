package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/javajoker/catalog-backend/internal/models"
)

const generationKey = "catalog:generation"

// ListingCache holds visible-product listings. Entries are keyed by the
// catalog generation; bumping the generation retires every cached listing at
// once, so a committed mutation never has to know which scopes it touched.
type ListingCache interface {
	GetProducts(ctx context.Context, scope []uint64) ([]models.Product, bool, error)
	SetProducts(ctx context.Context, scope []uint64, products []models.Product) error
	Invalidate(ctx context.Context) error
}

type RedisListingCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisListingCache(addr, password string, db int, ttl time.Duration) (*RedisListingCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisListingCache{rdb: rdb, ttl: ttl}, nil
}

func (c *RedisListingCache) Close() error {
	return c.rdb.Close()
}

func (c *RedisListingCache) GetProducts(ctx context.Context, scope []uint64) ([]models.Product, bool, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return nil, false, err
	}

	raw, err := c.rdb.Get(ctx, listingKey(gen, scope)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached listing: %w", err)
	}

	var products []models.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached listing: %w", err)
	}
	return products, true, nil
}

func (c *RedisListingCache) SetProducts(ctx context.Context, scope []uint64, products []models.Product) error {
	gen, err := c.generation(ctx)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to encode listing: %w", err)
	}

	return c.rdb.Set(ctx, listingKey(gen, scope), raw, c.ttl).Err()
}

func (c *RedisListingCache) Invalidate(ctx context.Context) error {
	return c.rdb.Incr(ctx, generationKey).Err()
}

func (c *RedisListingCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read catalog generation: %w", err)
	}
	return gen, nil
}

// listingKey is independent of scope order and duplicates.
func listingKey(gen int64, scope []uint64) string {
	if len(scope) == 0 {
		return fmt.Sprintf("catalog:g%d:products:all", gen)
	}

	ids := append([]uint64(nil), scope...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	parts := make([]string, 0, len(ids))
	for i, id := range ids {
		if i > 0 && id == ids[i-1] {
			continue
		}
		parts = append(parts, strconv.FormatUint(id, 10))
	}
	return fmt.Sprintf("catalog:g%d:products:%s", gen, strings.Join(parts, ","))
}

// NopListingCache never hits. Used when Redis is not configured.
type NopListingCache struct{}

func (NopListingCache) GetProducts(context.Context, []uint64) ([]models.Product, bool, error) {
	return nil, false, nil
}

func (NopListingCache) SetProducts(context.Context, []uint64, []models.Product) error { return nil }

func (NopListingCache) Invalidate(context.Context) error { return nil }
