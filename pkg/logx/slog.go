package logx

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
	slogmulti "github.com/samber/slog-multi"
)

var Error = tint.Err //nolint:gochecknoglobals

func Stringer(name string, value fmt.Stringer) slog.Attr {
	return slog.String(name, value.String())
}

type Options struct {
	Level   slog.Leveler
	Console io.Writer
	// File receives JSON lines; nil disables the file sink.
	File    io.Writer
	NoColor bool
}

// NewLogger builds the operator logger: colored console output plus an
// optional machine-readable file sink.
func NewLogger(opts Options) *slog.Logger {
	handlers := []slog.Handler{
		tint.NewHandler(opts.Console, &tint.Options{
			Level:      opts.Level,
			TimeFormat: time.TimeOnly,
			NoColor:    opts.NoColor,
		}),
	}

	if opts.File != nil {
		handlers = append(handlers, slog.NewJSONHandler(opts.File, &slog.HandlerOptions{
			Level: opts.Level,
		}))
	}

	return slog.New(slogmulti.Fanout(handlers...))
}
