package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qa-workers/internal/common/config"
)

func TestPageCache_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewRedis(config.CacheConfig{Address: mr.Addr()})
	cache := NewPageCache(client, time.Hour)
	defer cache.Close()

	ctx := context.Background()
	require.NoError(t, cache.Ping(ctx))

	_, ok, err := cache.Get(ctx, "https://example.com/a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "https://example.com/a", "page text"))

	text, ok, err := cache.Get(ctx, "https://example.com/a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "page text", text)

	key := PageKey("https://example.com/a")
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Hour, mr.TTL(key))

	mr.FastForward(2 * time.Hour)
	_, ok, err = cache.Get(ctx, "https://example.com/a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPageKey(t *testing.T) {
	key := PageKey("https://example.com")
	assert.Regexp(t, `^qa:page:[0-9a-f]{64}$`, key)
	assert.NotEqual(t, key, PageKey("https://example.org"))
}

func TestPageCache_Errors(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewPageCache(client, time.Minute)
	ctx := context.Background()
	url := "https://example.com/b"

	mock.ExpectGet(PageKey(url)).SetErr(errors.New("connection reset"))
	_, ok, err := cache.Get(ctx, url)
	assert.Error(t, err)
	assert.False(t, ok)

	mock.ExpectGet(PageKey(url)).RedisNil()
	_, ok, err = cache.Get(ctx, url)
	assert.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectSet(PageKey(url), "text", time.Minute).SetErr(errors.New("READONLY"))
	assert.Error(t, cache.Set(ctx, url, "text"))

	assert.NoError(t, mock.ExpectationsWereMet())
}
