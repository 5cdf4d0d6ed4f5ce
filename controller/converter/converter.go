package converter

import (
	"errors"
	"sort"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	currency "github.com/malusev998/currency-converter"
	"github.com/malusev998/currency-converter/services"
)

const (
	DefaultAmount = "1"
	DefaultFrom   = currency.BaseCurrency
	DefaultTo     = "EUR"
)

type (
	Converter struct {
		service currency.Converter
		catalog currency.CatalogProvider
		rates   currency.RateLoader
		logger  zerolog.Logger
	}

	Currency struct {
		Code string `json:"code"`
		Name string `json:"name"`
	}

	ConversionResponse struct {
		currency.ConversionResult
		Text   string `json:"text"`
		Status string `json:"status"`
	}

	ErrorResponse struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
)

func New(service currency.Converter, catalog currency.CatalogProvider, rates currency.RateLoader, logger zerolog.Logger) *Converter {
	return &Converter{
		service: service,
		catalog: catalog,
		rates:   rates,
		logger:  logger,
	}
}

func (c *Converter) Routes(app fiber.Router) {
	app.Get("/convert", c.Convert)
	app.Get("/currencies", c.Currencies)
	app.Get("/rates", c.Rates)
}

// Convert handles GET /convert?amount=&from=&to=. A non-numeric amount is a
// 400, any later failure a 500.
func (c *Converter) Convert(ctx *fiber.Ctx) error {
	amount := ctx.Query("amount", DefaultAmount)
	from := ctx.Query("from", DefaultFrom)
	to := ctx.Query("to", DefaultTo)

	c.logger.Debug().Str("amount", amount).Str("from", from).Str("to", to).Msg("converting")

	result, err := c.service.ConvertInput(ctx.UserContext(), amount, from, to)

	if err != nil {
		status, kind := fiber.StatusInternalServerError, "conversion failed"

		if errors.Is(err, services.ErrInvalidNumber) {
			status, kind = fiber.StatusBadRequest, "invalid number"
		} else {
			c.logger.Error().Err(err).Msg("conversion failed")
		}

		return ctx.Status(status).JSON(ErrorResponse{
			Error:   kind,
			Message: services.UserMessage(err),
		})
	}

	return ctx.JSON(ConversionResponse{
		ConversionResult: result,
		Text:             services.FormatResult(result),
		Status:           services.FormatStatus(result.CalculatedAt),
	})
}

// Currencies lists the catalog sorted by code.
func (c *Converter) Currencies(ctx *fiber.Ctx) error {
	catalog := c.catalog.Load(ctx.UserContext())
	currencies := make([]Currency, 0, len(catalog))

	for code, name := range catalog {
		currencies = append(currencies, Currency{Code: code, Name: name})
	}

	sort.Slice(currencies, func(i, j int) bool {
		return currencies[i].Code < currencies[j].Code
	})

	return ctx.JSON(currencies)
}

func (c *Converter) Rates(ctx *fiber.Ctx) error {
	return ctx.JSON(currency.LatestRates{
		Base:  currency.BaseCurrency,
		Rates: c.rates.Load(ctx.UserContext()),
	})
}
