package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/converse-gateway/internal/domain"
	"github.com/seu-repo/converse-gateway/internal/observability/telemetry"
	"github.com/seu-repo/converse-gateway/internal/ports"
)

const (
	cryptoKeyPrefix = "crypto:"
	newsKey         = "news:headline"
)

// cryptoEntry also records unknown currencies so repeated misses stay cheap.
type cryptoEntry struct {
	Found bool                `json:"found"`
	Quote *domain.CryptoQuote `json:"quote,omitempty"`
}

// CachedCrypto caches crypto quotes. Cache failures are logged and the
// lookup falls through to the wrapped service.
type CachedCrypto struct {
	next  ports.CryptoService
	cache ports.Cache
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachedCrypto(next ports.CryptoService, cache ports.Cache, ttl time.Duration, log *zap.Logger) *CachedCrypto {
	return &CachedCrypto{next: next, cache: cache, ttl: ttl, log: log}
}

func (c *CachedCrypto) Quote(ctx context.Context, name string) (*domain.CryptoQuote, bool, error) {
	key := cryptoKeyPrefix + strings.ToLower(name)

	var entry cryptoEntry
	if lookup(ctx, c.cache, key, "crypto", &entry, c.log) {
		return entry.Quote, entry.Found, nil
	}

	quote, found, err := c.next.Quote(ctx, name)
	if err != nil {
		return nil, false, err
	}

	store(ctx, c.cache, key, cryptoEntry{Found: found, Quote: quote}, c.ttl, c.log)
	return quote, found, nil
}

// CachedNews caches the news headline.
type CachedNews struct {
	next  ports.NewsService
	cache ports.Cache
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachedNews(next ports.NewsService, cache ports.Cache, ttl time.Duration, log *zap.Logger) *CachedNews {
	return &CachedNews{next: next, cache: cache, ttl: ttl, log: log}
}

func (c *CachedNews) Headline(ctx context.Context) (*domain.News, error) {
	var news domain.News
	if lookup(ctx, c.cache, newsKey, "news", &news, c.log) {
		return &news, nil
	}

	fresh, err := c.next.Headline(ctx)
	if err != nil {
		return nil, err
	}

	store(ctx, c.cache, newsKey, fresh, c.ttl, c.log)
	return fresh, nil
}

func lookup(ctx context.Context, cache ports.Cache, key, kind string, dst any, log *zap.Logger) bool {
	raw, err := cache.Get(ctx, key)
	switch {
	case errors.Is(err, ports.ErrCacheMiss):
		telemetry.CacheLookupsTotal.WithLabelValues(kind, "miss").Inc()
		return false
	case err != nil:
		telemetry.CacheLookupsTotal.WithLabelValues(kind, "error").Inc()
		log.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		telemetry.CacheLookupsTotal.WithLabelValues(kind, "error").Inc()
		log.Warn("Discarding unreadable cache entry", zap.String("key", key), zap.Error(err))
		return false
	}
	telemetry.CacheLookupsTotal.WithLabelValues(kind, "hit").Inc()
	return true
}

func store(ctx context.Context, cache ports.Cache, key string, value any, ttl time.Duration, log *zap.Logger) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Warn("Failed to encode cache entry", zap.String("key", key), zap.Error(err))
		return
	}
	if err := cache.Set(ctx, key, string(data), ttl); err != nil {
		log.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}
