package currency

import "time"

const BaseCurrency = "USD"

// SnapshotTTL is the maximum age of a rate snapshot before it is refreshed.
const SnapshotTTL = 24 * time.Hour

type (
	// Catalog maps a currency code to its display name.
	Catalog map[string]string

	// Rates maps a currency code to units of that currency per one BaseCurrency.
	Rates map[string]float64

	Snapshot struct {
		Timestamp float64 `json:"timestamp"`
		Rates     Rates   `json:"rates"`
	}

	LatestRates struct {
		Base  string `json:"base,omitempty"`
		Date  string `json:"date,omitempty"`
		Rates Rates  `json:"rates"`
	}

	ConversionRequest struct {
		Amount float64
		From   string
		To     string
	}

	ConversionResult struct {
		Amount       float64   `json:"amount"`
		Result       float64   `json:"result"`
		From         string    `json:"from"`
		To           string    `json:"to"`
		CalculatedAt time.Time `json:"calculated_at"`
	}

	ArchivedRate struct {
		From      string
		To        string
		Provider  Provider
		Rate      float64
		CreatedAt time.Time
	}

	ArchivedRateWithID struct {
		ArchivedRate
		ID interface{}
	}
)

var (
	// DefaultCatalog is persisted after the first successful reachability check.
	// It is not derived from the remote payload.
	DefaultCatalog = Catalog{
		"USD": "US Dollar",
		"EUR": "Euro",
		"GBP": "British Pound",
		"JPY": "Japanese Yen",
		"CAD": "Canadian Dollar",
		"AUD": "Australian Dollar",
		"INR": "Indian Rupee",
		"CNY": "Chinese Yuan",
		"RUB": "Russian Ruble",
		"MXN": "Mexican Peso",
	}

	FallbackCatalog = Catalog{
		"USD": "US Dollar",
		"EUR": "Euro",
		"GBP": "British Pound",
	}

	// FallbackRates are illustrative values, not market data.
	FallbackRates = Rates{
		"USD": 1,
		"EUR": 0.85,
		"GBP": 0.75,
		"JPY": 110.25,
		"CAD": 1.25,
		"AUD": 1.35,
		"INR": 74.5,
		"CNY": 6.5,
		"RUB": 75.8,
		"MXN": 20.3,
	}
)

func (c Catalog) Clone() Catalog {
	clone := make(Catalog, len(c))
	for code, name := range c {
		clone[code] = name
	}

	return clone
}

func (r Rates) Clone() Rates {
	clone := make(Rates, len(r))
	for code, rate := range r {
		clone[code] = rate
	}

	return clone
}

// Rate returns the rate for code, or 1.0 when the code is unknown.
func (r Rates) Rate(code string) float64 {
	if rate, ok := r[code]; ok {
		return rate
	}

	return 1.0
}

// NewSnapshot stamps rates with t as fractional seconds since the epoch.
func NewSnapshot(rates Rates, t time.Time) Snapshot {
	return Snapshot{
		Timestamp: unixSeconds(t),
		Rates:     rates,
	}
}

// Age is measured in seconds so that a whole-second timestamp compares exactly.
func (s Snapshot) Age(now time.Time) time.Duration {
	return time.Duration((unixSeconds(now) - s.Timestamp) * float64(time.Second))
}

// IsFresh compares in float seconds; a Duration overflows for ancient timestamps.
func (s Snapshot) IsFresh(now time.Time, ttl time.Duration) bool {
	return unixSeconds(now)-s.Timestamp < ttl.Seconds()
}

func unixSeconds(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/float64(time.Second)
}
