package fetchers

import (
	"errors"
	"net/http"
	"time"

	"github.com/eapache/go-resiliency/retrier"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	currency "github.com/malusev998/currency-converter"
)

type (
	BaseConfig struct {
		URL    string
		Logger zerolog.Logger
	}
	ExchangeRateAPIConfig struct {
		BaseConfig
		// Zero keeps the transport default.
		Timeout time.Duration
		Retries int
		Backoff time.Duration
		// Zero disables rate limiting.
		RequestsPerSecond float64
	}
)

// retryable skips retries on client errors, which will not improve.
type retryable struct{}

func (retryable) Classify(err error) retrier.Action {
	switch {
	case err == nil:
		return retrier.Succeed
	case errors.Is(err, ErrClient), errors.Is(err, ErrMalformedResponse):
		return retrier.Fail
	default:
		return retrier.Retry
	}
}

func NewCurrencyFetcher(provider currency.Provider, config interface{}) currency.Fetcher {
	switch provider {
	case currency.ExchangeRateAPIProvider:
		c := config.(ExchangeRateAPIConfig)

		fetcher := ExchangeRateAPIFetcher{
			URL:    c.URL,
			Client: &http.Client{Timeout: c.Timeout},
			Logger: c.Logger,
		}

		if c.Retries > 0 {
			fetcher.Retrier = retrier.New(retrier.ConstantBackoff(c.Retries, c.Backoff), retryable{})
		}

		if c.RequestsPerSecond > 0 {
			fetcher.Limiter = rate.NewLimiter(rate.Limit(c.RequestsPerSecond), 1)
		}

		return fetcher
	}

	return nil
}
