package cmd

import (
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"

	"github.com/malusev998/currency-converter/controller/converter"
	"github.com/malusev998/currency-converter/notify"
)

func serveCommand(app func() *App) *cobra.Command {
	var addr string

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve conversions over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx := commandContext(cmd)

			if !cmd.Flags().Changed("addr") {
				addr = a.Config.HTTPAddr
			}

			a.UseNotifier(notify.Log{Logger: a.Logger})

			fiberApp := fiber.New(fiber.Config{DisableStartupMessage: true})
			converter.New(a.Converter, a.Catalog, a.Rates, a.Logger).Routes(fiberApp)

			go func() {
				<-ctx.Done()

				if err := fiberApp.Shutdown(); err != nil {
					a.Logger.Error().Err(err).Msg("unable to shut down http server")
				}
			}()

			a.Logger.Info().Str("addr", addr).Msg("http server listening")

			return fiberApp.Listen(addr)
		},
	}

	serveCmd.Flags().StringVar(&addr, "addr", DefaultHTTPAddr, "Listen address")

	return serveCmd
}
