package services

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	currency "github.com/malusev998/currency-converter"
)

const ErrorTitle = "Error"

type CatalogLoader struct {
	Store    currency.CatalogStore
	Fetcher  currency.Fetcher
	Notifier currency.Notifier
	Logger   zerolog.Logger

	mu sync.Mutex
}

// Load never fails. A stored catalog is returned as-is; otherwise the remote
// endpoint is only probed for reachability and currency.DefaultCatalog is
// persisted. Any failure yields currency.FallbackCatalog.
func (c *CatalogLoader) Load(ctx context.Context) currency.Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()

	catalog, err := c.load(ctx)

	if err != nil {
		c.Logger.Error().Err(err).Msg("unable to load currencies, using fallback catalog")
		notify(c.Notifier, "Failed to load currencies: "+err.Error())

		return currency.FallbackCatalog.Clone()
	}

	return catalog
}

func (c *CatalogLoader) load(ctx context.Context) (currency.Catalog, error) {
	catalog, err := c.Store.LoadCatalog(ctx)

	if err == nil {
		c.Logger.Debug().Int("count", len(catalog)).Msg("currencies loaded from store")
		return catalog, nil
	}

	if !errors.Is(err, currency.ErrNotFound) {
		return nil, err
	}

	if _, err := c.Fetcher.Fetch(ctx, currency.BaseCurrency); err != nil {
		return nil, err
	}

	catalog = currency.DefaultCatalog.Clone()

	if err := c.Store.SaveCatalog(ctx, catalog); err != nil {
		return nil, err
	}

	c.Logger.Info().Int("count", len(catalog)).Msg("default currencies saved")

	return catalog, nil
}

func notify(notifier currency.Notifier, message string) {
	if notifier != nil {
		notifier.Error(ErrorTitle, message)
	}
}

var _ currency.CatalogProvider = (*CatalogLoader)(nil)
