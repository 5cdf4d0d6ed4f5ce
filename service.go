package currency

import (
	"context"
	"time"
)

type (
	CatalogProvider interface {
		Load(ctx context.Context) Catalog
	}

	// RateLoader never fails; on error it degrades to a built-in table.
	RateLoader interface {
		Load(ctx context.Context) Rates
	}

	Converter interface {
		ConvertInput(ctx context.Context, amount, from, to string) (ConversionResult, error)
	}

	Archiver interface {
		Save(rates Rates, provider Provider, at time.Time) (map[string][]ArchivedRateWithID, error)
	}
)
