package cmd

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	currency "github.com/malusev998/currency-converter"
	"github.com/malusev998/currency-converter/services"
	"github.com/malusev998/currency-converter/storage"
)

var ErrNoArchive = errors.New("no archive storage is configured (archive.storage)")

type historyOptions struct {
	storage  string
	provider string
	since    time.Duration
	page     int64
	perPage  int64
}

func (o historyOptions) query(st currency.Storage, from, to string, now time.Time) ([]currency.ArchivedRateWithID, error) {
	var provider currency.Provider

	if o.provider != "" {
		p, err := currency.ConvertToProviderFromString(o.provider)

		if err != nil {
			return nil, err
		}

		provider = p
	}

	switch {
	case o.since > 0 && provider != currency.EmptyProvider:
		return st.GetByDateAndProvider(from, to, provider, now.Add(-o.since), now, o.page, o.perPage)
	case o.since > 0:
		return st.GetByDate(from, to, now.Add(-o.since), now, o.page, o.perPage)
	case provider != currency.EmptyProvider:
		return st.GetByProvider(from, to, provider, o.page, o.perPage)
	default:
		return st.Get(from, to, o.page, o.perPage)
	}
}

func selectStorage(storages []currency.Storage, name string) (currency.Storage, error) {
	if len(storages) == 0 {
		return nil, ErrNoArchive
	}

	if name == "" {
		return storages[0], nil
	}

	for _, st := range storages {
		if strings.EqualFold(st.GetStorageProviderName(), name) {
			return st, nil
		}
	}

	return nil, fmt.Errorf("archive storage %s is not configured", name)
}

func historyCommand(app func() *App) *cobra.Command {
	opts := historyOptions{}

	historyCmd := &cobra.Command{
		Use:     "history FROM TO",
		Short:   "List archived exchange rates, newest first",
		Example: "currency-converter history USD EUR --since 168h",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.page < 1 || opts.perPage < 1 {
				return fmt.Errorf("%w: --page %d, --per-page %d", storage.ErrInvalidPage, opts.page, opts.perPage)
			}

			a := app()

			st, err := selectStorage(a.Archive.Storage, opts.storage)

			if err != nil {
				return err
			}

			from, to := strings.ToUpper(args[0]), strings.ToUpper(args[1])
			rates, err := opts.query(st, from, to, currency.SystemClock.Now())

			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "CREATED AT\tPAIR\tRATE\tPROVIDER")

			for _, rate := range rates {
				_, _ = fmt.Fprintf(w, "%s\t%s/%s\t%g\t%s\n",
					rate.CreatedAt.Local().Format(services.StatusTimeFormat),
					rate.From, rate.To, rate.Rate, rate.Provider)
			}

			return w.Flush()
		},
	}

	historyCmd.Flags().StringVar(&opts.storage, "storage", "", "Archive storage to read (default: first configured)")
	historyCmd.Flags().StringVar(&opts.provider, "provider", "", "Only rates from this provider")
	historyCmd.Flags().DurationVar(&opts.since, "since", 0, "Only rates newer than this duration")
	historyCmd.Flags().Int64Var(&opts.page, "page", 1, "Page number")
	historyCmd.Flags().Int64Var(&opts.perPage, "per-page", 20, "Rates per page")

	return historyCmd
}
