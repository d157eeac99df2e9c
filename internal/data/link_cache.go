package data

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"trimlink/internal/conf"
	"trimlink/internal/domain"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"
)

const linkCachePrefix = "link:"

// LinkCache defines the interface for link caching operations.
// Implementations should handle cache misses gracefully by returning nil, nil.
type LinkCache interface {
	// Get retrieves a link by identifier.
	// Returns nil, nil on a cache miss.
	Get(ctx context.Context, identifier string) (*domain.ShortLink, error)

	// Set stores the link under each of its identifiers.
	Set(ctx context.Context, link *domain.ShortLink) error

	// Invalidate removes the given identifiers.
	Invalidate(ctx context.Context, identifiers ...string) error
}

// Compile-time interface checks
var (
	_ LinkCache = (*RedisLinkCache)(nil)
	_ LinkCache = (*noopLinkCache)(nil)
)

// RedisLinkCache implements LinkCache using Redis.
type RedisLinkCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *log.Helper
}

// NewLinkCache returns a Redis cache, or a no-op cache when Data has no
// Redis client.
func NewLinkCache(d *Data, c *conf.Data, logger log.Logger) LinkCache {
	if d.rdb == nil {
		return &noopLinkCache{}
	}
	ttl := conf.DefaultCacheTTL
	if c != nil && c.Redis != nil && c.Redis.CacheTTL > 0 {
		ttl = c.Redis.CacheTTL.AsDuration()
	}
	return &RedisLinkCache{
		rdb: d.rdb,
		ttl: ttl,
		log: log.NewHelper(logger),
	}
}

// cachedLink is the serialization format for cached links.
type cachedLink struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	OriginalURL string    `json:"original_url"`
	ShortCode   string    `json:"short_code"`
	CustomAlias string    `json:"custom_alias,omitempty"`
	QRAssetRef  string    `json:"qr_asset_ref,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (c *RedisLinkCache) cacheKey(identifier string) string {
	return linkCachePrefix + identifier
}

// Get retrieves a link from Redis.
func (c *RedisLinkCache) Get(ctx context.Context, identifier string) (*domain.ShortLink, error) {
	data, err := c.rdb.Get(ctx, c.cacheKey(identifier)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		c.log.WithContext(ctx).Warnf("Failed to get link from cache: %v", err)
		return nil, nil // Treat errors as cache miss
	}

	var cached cachedLink
	if err := json.Unmarshal(data, &cached); err != nil {
		c.log.WithContext(ctx).Warnf("Failed to unmarshal cached link: %v", err)
		return nil, nil
	}

	originalURL, err := domain.NewOriginalURL(cached.OriginalURL)
	if err != nil {
		return nil, nil
	}

	return domain.ReconstructShortLink(
		cached.ID,
		cached.OwnerID,
		cached.Title,
		originalURL,
		cached.ShortCode,
		cached.CustomAlias,
		cached.QRAssetRef,
		cached.CreatedAt,
	), nil
}

// Set stores a link in Redis under every identifier it answers to.
func (c *RedisLinkCache) Set(ctx context.Context, link *domain.ShortLink) error {
	cached := cachedLink{
		ID:          link.ID(),
		OwnerID:     link.OwnerID(),
		Title:       link.Title(),
		OriginalURL: link.OriginalURL().String(),
		ShortCode:   link.ShortCode(),
		CustomAlias: link.CustomAlias(),
		QRAssetRef:  link.QRAssetRef(),
		CreatedAt:   link.CreatedAt(),
	}

	data, err := json.Marshal(cached)
	if err != nil {
		c.log.WithContext(ctx).Warnf("Failed to marshal link for cache: %v", err)
		return nil // Don't fail the operation due to cache errors
	}

	pipe := c.rdb.Pipeline()
	for _, identifier := range link.Identifiers() {
		pipe.Set(ctx, c.cacheKey(identifier), data, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.WithContext(ctx).Warnf("Failed to cache link: %v", err)
	}

	return nil
}

// Invalidate removes identifiers from Redis.
func (c *RedisLinkCache) Invalidate(ctx context.Context, identifiers ...string) error {
	if len(identifiers) == 0 {
		return nil
	}
	keys := make([]string, 0, len(identifiers))
	for _, identifier := range identifiers {
		keys = append(keys, c.cacheKey(identifier))
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.log.WithContext(ctx).Warnf("Failed to invalidate link cache: %v", err)
	}
	return nil
}

// noopLinkCache is a no-op implementation when Redis is not available.
type noopLinkCache struct{}

func (c *noopLinkCache) Get(context.Context, string) (*domain.ShortLink, error) {
	return nil, nil
}

func (c *noopLinkCache) Set(context.Context, *domain.ShortLink) error {
	return nil
}

func (c *noopLinkCache) Invalidate(context.Context, ...string) error {
	return nil
}
