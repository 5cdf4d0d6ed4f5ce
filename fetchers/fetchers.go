package fetchers

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

const (
	ExchangeRateAPIURL = "https://api.exchangerate-api.com/v4/latest"
)

var (
	ErrClient            = errors.New("client error")
	ErrServer            = errors.New("server error")
	ErrUnknown           = errors.New("unknown error")
	ErrRateLimited       = errors.New("API rate limit reached")
	ErrMalformedResponse = errors.New("malformed response, rates are missing")
)

func getData(ctx context.Context, baseURL, base string) (*http.Request, error) {
	url := strings.TrimRight(baseURL, "/") + "/" + strings.ToUpper(base)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)

	if err != nil {
		return nil, err
	}

	req.Header.Add("Accept", "application/json")

	return req, nil
}

func handleHTTPStatusCodeError(res *http.Response) error {
	if res.StatusCode == http.StatusOK {
		return nil
	}

	switch {
	case res.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case res.StatusCode >= http.StatusBadRequest && res.StatusCode < http.StatusInternalServerError:
		return ErrClient
	case res.StatusCode >= http.StatusInternalServerError:
		return ErrServer
	default:
		return ErrUnknown
	}
}
