package currency

import (
	"context"
	"time"
)

type (
	// Fetcher retrieves the latest rates relative to base from a remote provider.
	Fetcher interface {
		Fetch(ctx context.Context, base string) (LatestRates, error)
	}

	Clock interface {
		Now() time.Time
	}

	// Notifier is the user-facing error channel.
	Notifier interface {
		Error(title, message string)
	}

	ClockFunc func() time.Time
)

func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock reports wall-clock time.
var SystemClock Clock = ClockFunc(time.Now)
