package fetchers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/eapache/go-resiliency/retrier"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	currency "github.com/malusev998/currency-converter"
)

type ExchangeRateAPIFetcher struct {
	URL     string
	Client  *http.Client
	Limiter *rate.Limiter
	Retrier *retrier.Retrier
	Logger  zerolog.Logger
}

func (e ExchangeRateAPIFetcher) fetch(ctx context.Context, client *http.Client, url, base string) (currency.LatestRates, error) {
	var data currency.LatestRates

	if e.Limiter != nil {
		if err := e.Limiter.Wait(ctx); err != nil {
			return data, err
		}
	}

	req, err := getData(ctx, url, base)

	if err != nil {
		return data, err
	}

	e.Logger.Debug().Str("url", req.URL.String()).Msg("fetching rates")

	res, err := client.Do(req)

	if err != nil {
		return data, err
	}

	defer res.Body.Close()

	if err := handleHTTPStatusCodeError(res); err != nil {
		return data, fmt.Errorf("%w: status %d", err, res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return data, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if data.Rates == nil {
		return data, ErrMalformedResponse
	}

	if data.Base == "" {
		data.Base = base
	}

	return data, nil
}

func (e ExchangeRateAPIFetcher) Fetch(ctx context.Context, base string) (currency.LatestRates, error) {
	var result currency.LatestRates

	url := e.URL

	if url == "" {
		url = ExchangeRateAPIURL
	}

	client := e.Client

	if client == nil {
		client = http.DefaultClient
	}

	if ctx == nil {
		ctx = context.Background()
	}

	attempt := func() error {
		data, err := e.fetch(ctx, client, url, base)
		if err != nil {
			e.Logger.Debug().Err(err).Str("base", base).Msg("rate fetch attempt failed")
			return err
		}

		result = data
		return nil
	}

	var err error

	if e.Retrier != nil {
		err = e.Retrier.RunCtx(ctx, func(context.Context) error { return attempt() })
	} else {
		err = attempt()
	}

	if err != nil {
		return currency.LatestRates{}, err
	}

	e.Logger.Debug().Str("base", result.Base).Int("count", len(result.Rates)).Msg("rates fetched")

	return result, nil
}

var _ currency.Fetcher = ExchangeRateAPIFetcher{}
