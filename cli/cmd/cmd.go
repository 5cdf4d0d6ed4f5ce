package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	currency "github.com/malusev998/currency-converter"
	"github.com/malusev998/currency-converter/fetchers"
	"github.com/malusev998/currency-converter/notify"
	"github.com/malusev998/currency-converter/services"
	"github.com/malusev998/currency-converter/snapshot"
	"github.com/malusev998/currency-converter/storage"
)

var ErrUnknownProvider = errors.New("rate provider is not supported")

type (
	// App holds everything a command needs, built once per invocation.
	App struct {
		Config    *Config
		Logger    zerolog.Logger
		Notifier  currency.Notifier
		Catalog   *services.CatalogLoader
		Rates     *services.RateCache
		Converter services.ConversionService
		Archive   services.Archive

		closers []io.Closer
	}

	options struct {
		debug      bool
		configFile string
	}
)

func newLogger(out io.Writer, debug, colored bool) zerolog.Logger {
	level := zerolog.InfoLevel

	if debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: out, NoColor: !colored}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func readConfig(v *viper.Viper, cmd *cobra.Command, configFile string) error {
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	absolutePath, err := filepath.Abs(configFile)

	if err != nil {
		return err
	}

	v.SetConfigFile(absolutePath)

	if err := v.ReadInConfig(); err != nil {
		// The default config file is optional.
		if os.IsNotExist(err) && !cmd.Flags().Changed("config") {
			return nil
		}

		return err
	}

	return nil
}

func newApp(config *Config, logger zerolog.Logger, errOut io.Writer) (*App, error) {
	store, err := snapshot.NewStore(config.Backend, config.BackendConfig)

	if err != nil {
		return nil, err
	}

	app := &App{
		Config:   config,
		Logger:   logger,
		Notifier: notify.NewConsole(errOut, config.Color),
	}

	if closer, ok := store.(io.Closer); ok {
		app.closers = append(app.closers, closer)
	}

	fetcher := fetchers.NewCurrencyFetcher(config.Provider, config.Fetcher)

	if fetcher == nil {
		return nil, ErrUnknownProvider
	}

	for _, provider := range config.Storage {
		st, err := storage.NewStorage(provider, config.StorageConfig[provider])

		if err != nil {
			_ = app.Close()
			return nil, err
		}

		logger.Debug().Str("storage", st.GetStorageProviderName()).Msg("archive storage ready")
		app.Archive.Storage = append(app.Archive.Storage, st)
	}

	app.Catalog = &services.CatalogLoader{
		Store:    store,
		Fetcher:  fetcher,
		Notifier: app.Notifier,
		Logger:   logger.With().Str("component", "catalog").Logger(),
	}

	app.Rates = &services.RateCache{
		Store:    store,
		Fetcher:  fetcher,
		Clock:    currency.SystemClock,
		Notifier: app.Notifier,
		Logger:   logger.With().Str("component", "rates").Logger(),
		TTL:      config.TTL,
		Provider: config.Provider,
	}

	if len(app.Archive.Storage) > 0 {
		app.Rates.Archive = app.Archive
	}

	app.Converter = services.ConversionService{
		Rates: app.Rates,
		Clock: currency.SystemClock,
	}

	return app, nil
}

// UseNotifier routes loader notifications to notifier.
func (a *App) UseNotifier(notifier currency.Notifier) {
	a.Notifier = notifier
	a.Catalog.Notifier = notifier
	a.Rates.Notifier = notifier
}

func (a *App) Close() error {
	err := a.Archive.Close()

	for _, closer := range a.closers {
		if closeErr := closer.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}

	return err
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}

func errorMessage(err error) string {
	if errors.Is(err, services.ErrInvalidNumber) || errors.Is(err, services.ErrConversionFailed) {
		return services.UserMessage(err)
	}

	return err.Error()
}

// NewRootCommand builds the command tree. The App is created in the
// persistent pre-run, after flags and configuration are parsed.
func NewRootCommand() *cobra.Command {
	var app *App
	opts := &options{}
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:           "currency-converter",
		Short:         "Convert amounts between currencies using cached exchange rates",
		Version:       "v2.0.0",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := readConfig(v, cmd, opts.configFile); err != nil {
				return err
			}

			logger := newLogger(cmd.ErrOrStderr(), opts.debug, v.GetBool("color"))

			config, err := getConfig(commandContext(cmd), v, logger)

			if err != nil {
				return err
			}

			app, err = newApp(config, logger, cmd.ErrOrStderr())

			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app == nil {
				return nil
			}

			return app.Close()
		},
	}

	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Debug flag")
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", DefaultConfigFile, "Path to config file")

	getApp := func() *App { return app }

	rootCmd.AddCommand(
		convertCommand(getApp),
		currenciesCommand(getApp),
		ratesCommand(getApp),
		interactiveCommand(getApp),
		serveCommand(getApp),
		historyCommand(getApp),
	)

	return rootCmd
}

// Execute runs the CLI and reports a failed command on stderr.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCommand()
	err := rootCmd.ExecuteContext(ctx)

	if err != nil {
		notify.NewConsole(rootCmd.ErrOrStderr(), !color.NoColor).Error(services.ErrorTitle, errorMessage(err))
	}

	return err
}
