package snapshot_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	currency "github.com/malusev998/currency-converter"
	"github.com/malusev998/currency-converter/snapshot"
)

func redisStore(t *testing.T) (snapshot.RedisStore, *redis.Client, string) {
	addr := os.Getenv("CURRENCY_CONVERTER_REDIS")

	if addr == "" {
		t.Skip("CURRENCY_CONVERTER_REDIS is not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	prefix := "currency_converter_test:" + uuid.New().String() + ":"

	return snapshot.NewRedisStore(client, prefix), client, prefix
}

func TestRedisStore(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	ctx := context.Background()
	store, client, prefix := redisStore(t)
	defer client.Close()
	defer client.Del(ctx, prefix+"currencies", prefix+"exchange_rates")

	_, err := store.LoadSnapshot(ctx)
	asserts.True(errors.Is(err, currency.ErrNotFound))

	_, err = store.LoadCatalog(ctx)
	asserts.True(errors.Is(err, currency.ErrNotFound))

	asserts.NoError(store.SaveCatalog(ctx, currency.DefaultCatalog))
	catalog, err := store.LoadCatalog(ctx)
	asserts.NoError(err)
	asserts.Equal(currency.DefaultCatalog, catalog)

	asserts.NoError(store.SaveSnapshot(ctx, currency.Snapshot{Timestamp: 42, Rates: currency.Rates{"EUR": 0.85}}))
	s, err := store.LoadSnapshot(ctx)
	asserts.NoError(err)
	asserts.Equal(float64(42), s.Timestamp)
	asserts.Equal(0.85, s.Rates["EUR"])

	asserts.NoError(client.Set(ctx, prefix+"exchange_rates", "garbage", 0).Err())
	_, err = store.LoadSnapshot(ctx)
	asserts.True(errors.Is(err, snapshot.ErrCorrupt))
}
