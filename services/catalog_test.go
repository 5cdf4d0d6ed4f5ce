package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	currency "github.com/malusev998/currency-converter"
	"github.com/malusev998/currency-converter/snapshot"
)

func TestCatalogLoader_Stored(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	ctx := context.Background()

	stored := currency.Catalog{"USD": "US Dollar", "CHF": "Swiss Franc"}
	store := &MockStore{}
	fetcher := &MockFetcher{}
	store.On("LoadCatalog", ctx).Return(stored, nil).Once()

	loader := &CatalogLoader{Store: store, Fetcher: fetcher}

	asserts.Equal(stored, loader.Load(ctx))
	fetcher.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "SaveCatalog", mock.Anything, mock.Anything)
}

func TestCatalogLoader_FirstRun(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	ctx := context.Background()

	store := &MockStore{}
	fetcher := &MockFetcher{}
	notifier := &MockNotifier{}
	store.On("LoadCatalog", ctx).Return(nil, currency.ErrNotFound).Once()
	fetcher.On("Fetch", ctx, currency.BaseCurrency).
		Return(currency.LatestRates{Rates: currency.Rates{"XYZ": 3}}, nil).Once()
	store.On("SaveCatalog", ctx, currency.DefaultCatalog).Return(nil).Once()

	loader := &CatalogLoader{Store: store, Fetcher: fetcher, Notifier: notifier}
	catalog := loader.Load(ctx)

	asserts.Equal(currency.DefaultCatalog, catalog)
	asserts.Len(catalog, 10)
	asserts.NotContains(catalog, "XYZ")
	store.AssertExpectations(t)
	fetcher.AssertExpectations(t)
	notifier.AssertNotCalled(t, "Error", mock.Anything, mock.Anything)
}

func TestCatalogLoader_Fallback(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("Fetch failure", func(t *testing.T) {
		asserts := require.New(t)
		store := &MockStore{}
		fetcher := &MockFetcher{}
		notifier := &MockNotifier{}

		store.On("LoadCatalog", ctx).Return(nil, currency.ErrNotFound).Once()
		fetcher.On("Fetch", ctx, currency.BaseCurrency).
			Return(currency.LatestRates{}, errors.New("no such host")).Once()
		notifier.On("Error", ErrorTitle, "Failed to load currencies: no such host").Once()

		loader := &CatalogLoader{Store: store, Fetcher: fetcher, Notifier: notifier}

		asserts.Equal(currency.FallbackCatalog, loader.Load(ctx))
		notifier.AssertNumberOfCalls(t, "Error", 1)
		store.AssertNotCalled(t, "SaveCatalog", mock.Anything, mock.Anything)
	})

	t.Run("Save failure", func(t *testing.T) {
		asserts := require.New(t)
		store := &MockStore{}
		fetcher := &MockFetcher{}
		notifier := &MockNotifier{}

		store.On("LoadCatalog", ctx).Return(nil, currency.ErrNotFound).Once()
		fetcher.On("Fetch", ctx, currency.BaseCurrency).Return(currency.LatestRates{}, nil).Once()
		store.On("SaveCatalog", ctx, mock.Anything).Return(errors.New("permission denied")).Once()
		notifier.On("Error", ErrorTitle, "Failed to load currencies: permission denied").Once()

		loader := &CatalogLoader{Store: store, Fetcher: fetcher, Notifier: notifier}

		asserts.Equal(currency.FallbackCatalog, loader.Load(ctx))
		notifier.AssertExpectations(t)
	})

	t.Run("Corrupt catalog", func(t *testing.T) {
		asserts := require.New(t)
		store := &MockStore{}
		fetcher := &MockFetcher{}
		notifier := &MockNotifier{}

		store.On("LoadCatalog", ctx).Return(nil, snapshot.ErrCorrupt).Once()
		notifier.On("Error", ErrorTitle, mock.AnythingOfType("string")).Once()

		loader := &CatalogLoader{Store: store, Fetcher: fetcher, Notifier: notifier}
		catalog := loader.Load(ctx)

		asserts.Equal(currency.FallbackCatalog, catalog)
		asserts.Len(catalog, 3)
		fetcher.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)

		catalog["XXX"] = "Mutated"
		asserts.NotContains(currency.FallbackCatalog, "XXX")
	})
}
