package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/seu-repo/converse-gateway/internal/domain"
	"github.com/seu-repo/converse-gateway/internal/mocks"
	"github.com/seu-repo/converse-gateway/internal/ports"
)

func newRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewRedisCache("redis://"+mr.Addr(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestRedisCache_GetSetDelete(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ports.ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	value, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", value)
	assert.True(t, mr.Exists(KeyPrefix+"k"))

	mr.FastForward(2 * time.Minute)
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ports.ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "k", "v", 0))
	require.NoError(t, c.Delete(ctx, "k"))
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ports.ErrCacheMiss)

	assert.NoError(t, c.Ping())
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisCache("redis://"+addr, zap.NewNop())

	assert.Error(t, err)
}

func TestLocalCache_Expiry(t *testing.T) {
	c := NewLocalCache(time.Hour, zap.NewNop())
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", "v", time.Millisecond))
	require.NoError(t, c.Set(ctx, "forever", "v", 0))
	time.Sleep(5 * time.Millisecond)

	_, err := c.Get(ctx, "short")
	assert.ErrorIs(t, err, ports.ErrCacheMiss)
	value, err := c.Get(ctx, "forever")
	require.NoError(t, err)
	assert.Equal(t, "v", value)

	c.cleanup()
	assert.Len(t, c.data, 1)
}

func TestCachedCrypto_CachesFoundAndNotFound(t *testing.T) {
	// Arrange
	c, _ := newRedisCache(t)
	next := &mocks.MockCryptoService{
		QuoteFunc: func(ctx context.Context, name string) (*domain.CryptoQuote, bool, error) {
			if name == "Bitcoin" {
				return &domain.CryptoQuote{Value: 6543.21, Evolution: 1.5}, true, nil
			}
			return nil, false, nil
		},
	}
	cached := NewCachedCrypto(next, c, time.Minute, zap.NewNop())
	ctx := context.Background()

	// Act
	for i := 0; i < 3; i++ {
		quote, found, err := cached.Quote(ctx, "Bitcoin")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, 6543.21, quote.Value)

		_, found, err = cached.Quote(ctx, "unknowncoin")
		require.NoError(t, err)
		assert.False(t, found)
	}

	// Assert
	assert.Equal(t, 2, next.Calls())
}

func TestCachedCrypto_ErrorsAreNotCached(t *testing.T) {
	c := NewLocalCache(time.Hour, zap.NewNop())
	defer c.Close()
	next := &mocks.MockCryptoService{
		QuoteFunc: func(ctx context.Context, name string) (*domain.CryptoQuote, bool, error) {
			return nil, false, domain.NewExternalServiceError("API Services - Cryptonews", "HTTP 500")
		},
	}
	cached := NewCachedCrypto(next, c, time.Minute, zap.NewNop())

	for i := 0; i < 2; i++ {
		_, _, err := cached.Quote(context.Background(), "bitcoin")
		assert.ErrorIs(t, err, domain.ErrExternalService)
	}
	assert.Equal(t, 2, next.Calls())
}

func TestCachedNews_CacheFailureFallsThrough(t *testing.T) {
	broken := mocks.NewMockCache()
	broken.GetFunc = func(ctx context.Context, key string) (string, error) { return "", errors.New("connection refused") }
	broken.SetFunc = func(ctx context.Context, key, value string, expiration time.Duration) error {
		return errors.New("connection refused")
	}
	next := &mocks.MockNewsService{
		HeadlineFunc: func(ctx context.Context) (*domain.News, error) {
			return &domain.News{Message: "Ethereum en hausse"}, nil
		},
	}
	cached := NewCachedNews(next, broken, time.Minute, zap.NewNop())

	news, err := cached.Headline(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Ethereum en hausse", news.Message)
	assert.Equal(t, 1, next.Calls())
}

func TestCachedNews_Hit(t *testing.T) {
	c := NewLocalCache(time.Hour, zap.NewNop())
	defer c.Close()
	next := &mocks.MockNewsService{
		HeadlineFunc: func(ctx context.Context) (*domain.News, error) {
			return &domain.News{Message: "first"}, nil
		},
	}
	cached := NewCachedNews(next, c, time.Minute, zap.NewNop())

	first, err := cached.Headline(context.Background())
	require.NoError(t, err)
	second, err := cached.Headline(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.Calls())
}
