package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	currency "github.com/malusev998/currency-converter"
)

const StatusTimeFormat = "2006-01-02 15:04:05"

var (
	ErrInvalidNumber    = errors.New("please enter a valid number")
	ErrConversionFailed = errors.New("conversion failed")
	ErrDivisionByZero   = errors.New("division by zero rate")
	ErrNotFinite        = errors.New("result is not a finite number")
)

type (
	ConversionService struct {
		Rates currency.RateLoader
		Clock currency.Clock
	}

	// ConversionError is any failure after the amount has been accepted.
	ConversionError struct {
		Err error
	}
)

func (e *ConversionError) Error() string {
	return ErrConversionFailed.Error() + ": " + e.Err.Error()
}

func (e *ConversionError) Is(target error) bool {
	return target == ErrConversionFailed
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// UserMessage renders err for the user-facing error channel.
func UserMessage(err error) string {
	var conversionErr *ConversionError

	switch {
	case errors.Is(err, ErrInvalidNumber):
		return "Please enter a valid number"
	case errors.As(err, &conversionErr):
		return "Conversion failed: " + conversionErr.Err.Error()
	default:
		return "Conversion failed: " + err.Error()
	}
}

// Convert expresses amount of from in to. Rates are units per one
// currency.BaseCurrency; a code missing from rates counts as 1.0.
func Convert(amount float64, from, to string, rates currency.Rates) (float64, error) {
	switch {
	case from == currency.BaseCurrency:
		return amount * rates.Rate(to), nil
	case to == currency.BaseCurrency:
		return divide(amount, from, rates.Rate(from))
	default:
		inBase, err := divide(amount, from, rates.Rate(from))
		if err != nil {
			return 0, err
		}

		return inBase * rates.Rate(to), nil
	}
}

func divide(amount float64, code string, rate float64) (float64, error) {
	if rate == 0 {
		return 0, fmt.Errorf("%w: %s", ErrDivisionByZero, code)
	}

	return amount / rate, nil
}

func ParseAmount(text string) (float64, error) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(text), 64)

	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, text)
	}

	return amount, nil
}

// ParseCode accepts either a bare code or a "CODE - Name" option label.
func ParseCode(option string) string {
	code := strings.SplitN(option, " - ", 2)[0]

	return strings.ToUpper(strings.TrimSpace(code))
}

func (c ConversionService) now() time.Time {
	if c.Clock == nil {
		return currency.SystemClock.Now()
	}

	return c.Clock.Now()
}

// ConvertInput validates the amount before any rate is loaded.
func (c ConversionService) ConvertInput(ctx context.Context, amount, from, to string) (currency.ConversionResult, error) {
	value, err := ParseAmount(amount)

	if err != nil {
		return currency.ConversionResult{}, err
	}

	return c.Convert(ctx, currency.ConversionRequest{
		Amount: value,
		From:   ParseCode(from),
		To:     ParseCode(to),
	})
}

func (c ConversionService) Convert(ctx context.Context, request currency.ConversionRequest) (currency.ConversionResult, error) {
	rates := c.Rates.Load(ctx)

	result, err := Convert(request.Amount, request.From, request.To, rates)

	if err == nil && (math.IsInf(result, 0) || math.IsNaN(result)) {
		err = fmt.Errorf("%w: %v %s to %s", ErrNotFinite, request.Amount, request.From, request.To)
	}

	if err != nil {
		return currency.ConversionResult{}, &ConversionError{Err: err}
	}

	return currency.ConversionResult{
		Amount:       request.Amount,
		Result:       result,
		From:         request.From,
		To:           request.To,
		CalculatedAt: c.now(),
	}, nil
}

// Round formats value with two decimals, half away from zero on the shortest
// decimal form of value. decimal rejects Inf and NaN, so those are printed as is.
func Round(value float64) string {
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return strconv.FormatFloat(value, 'f', 2, 64)
	}

	return decimal.NewFromFloat(value).StringFixed(2)
}

func FormatResult(result currency.ConversionResult) string {
	return fmt.Sprintf("%s %s = %s %s", Round(result.Amount), result.From, Round(result.Result), result.To)
}

func FormatStatus(t time.Time) string {
	return "Last updated: " + t.Format(StatusTimeFormat)
}

var _ currency.Converter = ConversionService{}
