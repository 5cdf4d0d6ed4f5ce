package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/malusev998/currency-converter/controller/converter"
	"github.com/malusev998/currency-converter/services"
)

type prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// ask returns false when the input ends or the user quits.
func (p prompter) ask(label, fallback string) (string, bool) {
	_, _ = fmt.Fprintf(p.out, "%s [%s]: ", label, fallback)

	if !p.scanner.Scan() {
		_, _ = fmt.Fprintln(p.out)
		return "", false
	}

	answer := strings.TrimSpace(p.scanner.Text())

	switch strings.ToLower(answer) {
	case "q", "quit", "exit":
		return "", false
	case "":
		return fallback, true
	}

	return answer, true
}

func interactiveCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i"},
		Short:   "Convert amounts in a prompt loop; q or EOF exits",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx := commandContext(cmd)
			out := cmd.OutOrStdout()
			p := prompter{scanner: bufio.NewScanner(cmd.InOrStdin()), out: out}

			catalog := a.Catalog.Load(ctx)
			_, _ = fmt.Fprintf(out, "Currencies: %s\n", strings.Join(sortedCodes(catalog), ", "))

			for {
				amount, ok := p.ask("Amount", converter.DefaultAmount)
				if !ok {
					return nil
				}

				from, ok := p.ask("From", converter.DefaultFrom)
				if !ok {
					return nil
				}

				to, ok := p.ask("To", converter.DefaultTo)
				if !ok {
					return nil
				}

				result, err := a.Converter.ConvertInput(ctx, amount, from, to)

				if err != nil {
					a.Notifier.Error(services.ErrorTitle, services.UserMessage(err))
					continue
				}

				printResult(out, result)
			}
		},
	}
}
