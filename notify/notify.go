package notify

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	currency "github.com/malusev998/currency-converter"
)

type (
	// Console writes notifications as "<title>: <message>" lines.
	Console struct {
		Out   io.Writer
		Color bool

		mu sync.Mutex
	}

	Log struct {
		Logger zerolog.Logger
	}
)

func NewConsole(out io.Writer, colored bool) *Console {
	if out == nil {
		out = os.Stderr
	}

	return &Console{Out: out, Color: colored}
}

func (c *Console) Error(title, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	printer := color.New(color.FgRed, color.Bold)

	if c.Color {
		printer.EnableColor()
	} else {
		printer.DisableColor()
	}

	_, _ = fmt.Fprintln(c.Out, printer.Sprint(title+":"), message)
}

func (l Log) Error(title, message string) {
	l.Logger.Error().Str("title", title).Msg(message)
}

var (
	_ currency.Notifier = (*Console)(nil)
	_ currency.Notifier = Log{}
)
