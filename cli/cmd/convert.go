package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	currency "github.com/malusev998/currency-converter"
	"github.com/malusev998/currency-converter/services"
)

func printResult(out io.Writer, result currency.ConversionResult) {
	_, _ = fmt.Fprintln(out, services.FormatResult(result))
	_, _ = fmt.Fprintln(out, services.FormatStatus(result.CalculatedAt))
}

func convertCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:     "convert AMOUNT FROM TO",
		Short:   "Convert AMOUNT of FROM into TO",
		Example: "currency-converter convert 100 USD EUR",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app().Converter.ConvertInput(commandContext(cmd), args[0], args[1], args[2])

			if err != nil {
				return err
			}

			printResult(cmd.OutOrStdout(), result)

			return nil
		},
	}
}

func currenciesCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "currencies",
		Short: "List the available currencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := app().Catalog.Load(commandContext(cmd))

			for _, code := range sortedCodes(catalog) {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s - %s\n", code, catalog[code])
			}

			return nil
		},
	}
}

func ratesCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rates",
		Short: "Print the current exchange rates relative to " + currency.BaseCurrency,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rates := app().Rates.Load(commandContext(cmd))
			codes := make([]string, 0, len(rates))

			for code := range rates {
				codes = append(codes, code)
			}

			sort.Strings(codes)

			for _, code := range codes {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", code, decimal.NewFromFloat(rates[code]).String())
			}

			return nil
		},
	}
}

func sortedCodes(catalog currency.Catalog) []string {
	codes := make([]string, 0, len(catalog))

	for code := range catalog {
		codes = append(codes, code)
	}

	sort.Strings(codes)

	return codes
}
