package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	currency "github.com/malusev998/currency-converter"
)

// RateCache serves rates from a time-boxed snapshot and refreshes it from the
// fetcher when it is missing, unreadable or stale.
type RateCache struct {
	Store    currency.SnapshotStore
	Fetcher  currency.Fetcher
	Clock    currency.Clock
	Notifier currency.Notifier
	Logger   zerolog.Logger
	// Zero means currency.SnapshotTTL.
	TTL time.Duration
	// Optional; refreshed rates are archived best-effort.
	Archive  currency.Archiver
	Provider currency.Provider

	mu sync.Mutex
}

func (r *RateCache) ttl() time.Duration {
	if r.TTL <= 0 {
		return currency.SnapshotTTL
	}

	return r.TTL
}

func (r *RateCache) now() time.Time {
	if r.Clock == nil {
		return currency.SystemClock.Now()
	}

	return r.Clock.Now()
}

// Load never fails; on error the user is notified and
// currency.FallbackRates are returned.
func (r *RateCache) Load(ctx context.Context) currency.Rates {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()

	snapshot, err := r.Store.LoadSnapshot(ctx)

	switch {
	case err == nil && snapshot.IsFresh(now, r.ttl()):
		r.Logger.Debug().Dur("age", snapshot.Age(now)).Msg("rate snapshot is fresh")
		return snapshot.Rates
	case err == nil:
		r.Logger.Debug().Dur("age", snapshot.Age(now)).Msg("rate snapshot is stale")
	case errors.Is(err, currency.ErrNotFound):
		r.Logger.Debug().Msg("no rate snapshot stored")
	default:
		r.Logger.Warn().Err(err).Msg("unable to read rate snapshot, refreshing")
	}

	rates, err := r.refresh(ctx, now)

	if err != nil {
		r.Logger.Error().Err(err).Msg("unable to load exchange rates, using fallback rates")
		notify(r.Notifier, "Failed to load exchange rates: "+err.Error())

		return currency.FallbackRates.Clone()
	}

	return rates
}

func (r *RateCache) refresh(ctx context.Context, now time.Time) (currency.Rates, error) {
	latest, err := r.Fetcher.Fetch(ctx, currency.BaseCurrency)

	if err != nil {
		return nil, err
	}

	if err := r.Store.SaveSnapshot(ctx, currency.NewSnapshot(latest.Rates, now)); err != nil {
		return nil, err
	}

	r.Logger.Info().Int("count", len(latest.Rates)).Msg("rate snapshot refreshed")

	r.archive(latest.Rates, now)

	return latest.Rates, nil
}

func (r *RateCache) archive(rates currency.Rates, now time.Time) {
	if r.Archive == nil {
		return
	}

	provider := r.Provider

	if provider == currency.EmptyProvider {
		provider = currency.ExchangeRateAPIProvider
	}

	stored, err := r.Archive.Save(rates, provider, now)

	if err != nil {
		r.Logger.Warn().Err(err).Msg("unable to archive rates")
		return
	}

	for storage, archived := range stored {
		r.Logger.Debug().Str("storage", storage).Int("count", len(archived)).Msg("rates archived")
	}
}

var _ currency.RateLoader = (*RateCache)(nil)
