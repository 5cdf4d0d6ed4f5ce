package currency

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found in store")

type (
	CatalogStore interface {
		LoadCatalog(ctx context.Context) (Catalog, error)
		SaveCatalog(ctx context.Context, catalog Catalog) error
	}

	SnapshotStore interface {
		LoadSnapshot(ctx context.Context) (Snapshot, error)
		SaveSnapshot(ctx context.Context, snapshot Snapshot) error
	}

	// Storage archives every refreshed rate.
	Storage interface {
		Store([]ArchivedRate) ([]ArchivedRateWithID, error)
		Get(from, to string, page, perPage int64) ([]ArchivedRateWithID, error)
		GetByProvider(from, to string, provider Provider, page, perPage int64) ([]ArchivedRateWithID, error)
		GetByDate(from, to string, start, end time.Time, page, perPage int64) ([]ArchivedRateWithID, error)
		GetByDateAndProvider(from, to string, provider Provider, start, end time.Time, page, perPage int64) ([]ArchivedRateWithID, error)
		GetStorageProviderName() string
		Migrate() error
		Drop() error
		Close() error
	}
)
