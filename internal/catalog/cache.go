package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quickpos/quickpos/internal/shared"
)

const bumpChannel = "quickpos.catalog.bump"

// Cache wraps Redis based caching with versioning controls.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Version returns the current cache version, initialising when missing.
func (c *Cache) Version(ctx context.Context) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, shared.CatalogVersionKey()).Int64()
	if errors.Is(err, redis.Nil) {
		if err := c.client.SetNX(ctx, shared.CatalogVersionKey(), 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	if ver <= 0 {
		ver = 1
	}
	return ver, nil
}

// BuildKey composes the cache key with the current version.
func (c *Cache) BuildKey(ctx context.Context, parts ...string) (string, error) {
	joined := strings.Join(append([]string{"quickpos", "catalog"}, parts...), ":")
	if c == nil || c.client == nil {
		return joined, nil
	}
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%d", joined, ver), nil
}

// FetchJSON loads a cached value or populates it using the loader.
func (c *Cache) FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error {
	if loader == nil {
		return errors.New("catalog cache: loader required")
	}
	if c == nil || c.client == nil {
		value, err := loader(ctx)
		if err != nil {
			return err
		}
		return roundTrip(value, dest)
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return json.Unmarshal(payload, dest)
	}
	if !errors.Is(err, redis.Nil) {
		return err
	}
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// Bump invalidates every cached entry by incrementing the version and publishing an event.
func (c *Cache) Bump(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	ver, err := c.client.Incr(ctx, shared.CatalogVersionKey()).Result()
	if err != nil {
		return err
	}
	return c.client.Publish(ctx, bumpChannel, strconv.FormatInt(ver, 10)).Err()
}

func roundTrip(value, dest any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// CachedProvider reads through Cache in front of another Provider.
type CachedProvider struct {
	next  Provider
	cache *Cache
}

// NewCachedProvider wraps next. A nil cache passes every call through.
func NewCachedProvider(next Provider, cache *Cache) *CachedProvider {
	return &CachedProvider{next: next, cache: cache}
}

// ListProducts implements Provider.
func (p *CachedProvider) ListProducts(ctx context.Context, filter Filter) ([]Product, error) {
	if p.cache == nil {
		return p.next.ListProducts(ctx, filter)
	}
	key, err := p.cache.BuildKey(ctx, "list", categoryToken(filter.Category), strconv.FormatBool(filter.ActiveOnly))
	if err != nil {
		return p.next.ListProducts(ctx, filter)
	}
	var out []Product
	err = p.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (any, error) {
		return p.next.ListProducts(ctx, filter)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetProduct implements Provider.
func (p *CachedProvider) GetProduct(ctx context.Context, id int64) (Product, error) {
	if p.cache == nil {
		return p.next.GetProduct(ctx, id)
	}
	key, err := p.cache.BuildKey(ctx, "product", strconv.FormatInt(id, 10))
	if err != nil {
		return p.next.GetProduct(ctx, id)
	}
	var out Product
	err = p.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (any, error) {
		return p.next.GetProduct(ctx, id)
	})
	if err != nil {
		return Product{}, err
	}
	return out, nil
}

func categoryToken(c Category) string {
	if c == "" {
		return "all"
	}
	return strings.ReplaceAll(strings.ToLower(string(c)), " ", "_")
}
