// Package snapshot persists the currency catalog and the latest rate snapshot
// between runs.
package snapshot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	currency "github.com/malusev998/currency-converter"
)

type (
	Backend string

	// Store holds both the catalog and the rate snapshot.
	Store interface {
		currency.CatalogStore
		currency.SnapshotStore
	}

	FileConfig struct {
		CatalogPath  string
		SnapshotPath string
	}

	RedisConfig struct {
		Addr     string
		Password string
		DB       int
		Prefix   string
	}
)

const (
	File  Backend = "file"
	Redis Backend = "redis"

	DefaultCatalogPath  = "currencies.json"
	DefaultSnapshotPath = "exchange_rates.json"
)

var (
	ErrCorrupt         = errors.New("stored data is corrupt")
	ErrBackendNotFound = errors.New("snapshot backend is not found")
)

func ConvertToBackendFromString(str string) (Backend, error) {
	switch strings.ToLower(str) {
	case "", "file":
		return File, nil
	case "redis":
		return Redis, nil
	}

	return "", fmt.Errorf("value %s is not valid Backend", str)
}

func NewStore(backend Backend, config interface{}) (Store, error) {
	switch backend {
	case File:
		c := config.(FileConfig)
		return NewFileStore(c.CatalogPath, c.SnapshotPath), nil
	case Redis:
		c := config.(RedisConfig)
		client := redis.NewClient(&redis.Options{
			Addr:     c.Addr,
			Password: c.Password,
			DB:       c.DB,
		})

		return NewRedisStore(client, c.Prefix), nil
	}

	return nil, ErrBackendNotFound
}
