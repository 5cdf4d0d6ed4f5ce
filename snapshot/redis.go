package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	currency "github.com/malusev998/currency-converter"
)

const (
	catalogKey  = "currencies"
	snapshotKey = "exchange_rates"
)

// RedisStore keeps the same JSON payloads as FileStore under prefixed keys.
// Keys carry no redis expiry; freshness is decided by the snapshot timestamp.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) RedisStore {
	return RedisStore{client: client, prefix: prefix}
}

func (r RedisStore) key(key string) string {
	return r.prefix + key
}

func (r RedisStore) get(ctx context.Context, key string, v interface{}) error {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()

	if errors.Is(err, redis.Nil) {
		return currency.ErrNotFound
	}

	if err != nil {
		return err
	}

	if err := json.Unmarshal(val, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, r.key(key), err)
	}

	return nil
}

func (r RedisStore) set(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)

	if err != nil {
		return err
	}

	return r.client.Set(ctx, r.key(key), data, 0).Err()
}

func (r RedisStore) LoadCatalog(ctx context.Context) (currency.Catalog, error) {
	var catalog currency.Catalog

	if err := r.get(ctx, catalogKey, &catalog); err != nil {
		return nil, err
	}

	if catalog == nil {
		return nil, fmt.Errorf("%w: %s: null catalog", ErrCorrupt, r.key(catalogKey))
	}

	return catalog, nil
}

func (r RedisStore) SaveCatalog(ctx context.Context, catalog currency.Catalog) error {
	return r.set(ctx, catalogKey, catalog)
}

func (r RedisStore) LoadSnapshot(ctx context.Context) (currency.Snapshot, error) {
	var snapshot currency.Snapshot

	if err := r.get(ctx, snapshotKey, &snapshot); err != nil {
		return currency.Snapshot{}, err
	}

	if snapshot.Rates == nil {
		return currency.Snapshot{}, fmt.Errorf("%w: %s: rates are missing", ErrCorrupt, r.key(snapshotKey))
	}

	return snapshot, nil
}

func (r RedisStore) SaveSnapshot(ctx context.Context, snapshot currency.Snapshot) error {
	return r.set(ctx, snapshotKey, snapshot)
}

func (r RedisStore) Close() error {
	return r.client.Close()
}

var _ Store = RedisStore{}
