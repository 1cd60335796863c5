package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Options struct {
	LogLevel  string `doc:"log from debug, info, warn or error"`
	LogFile   string `doc:"append logs to file, - for stderr"`
	LogFormat string `doc:"format logs as text or json"         default:"text"`
}

func level(option string) (slog.Leveler, bool) {
	switch strings.ToLower(option) {
	case "":
		return nil, true
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return nil, false
	}
}

type handlerFunc = func(io.Writer, *slog.HandlerOptions) slog.Handler

func format(option string) (handlerFunc, bool) {
	switch strings.ToLower(option) {
	case "", "text":
		return func(w io.Writer, o *slog.HandlerOptions) slog.Handler { return slog.NewTextHandler(w, o) }, true
	case "json":
		return func(w io.Writer, o *slog.HandlerOptions) slog.Handler { return slog.NewJSONHandler(w, o) }, true
	default:
		return nil, false
	}
}

// New builds a logger writing to stderr, or to options.LogFile when set.
func New(options *Options) *slog.Logger {
	return NewWriter(options, os.Stderr)
}

// NewWriter is [New] with the default output replaced by w.
// Invalid options are reset to their default and reported with a warning
// once the logger is built.
func NewWriter(options *Options, w io.Writer) *slog.Logger {
	var warnings []slog.Attr

	lvl, ok := level(options.LogLevel)
	if !ok {
		warnings = append(warnings, slog.String("log_level", options.LogLevel))
		options.LogLevel = ""
	}
	newHandler, ok := format(options.LogFormat)
	if !ok {
		warnings = append(warnings, slog.String("log_format", options.LogFormat))
		options.LogFormat = "text"
		newHandler, _ = format(options.LogFormat)
	}

	var fileErr error
	output := w
	switch options.LogFile {
	case "", "-":
	case os.DevNull:
		return slog.New(slog.DiscardHandler)
	default:
		output, fileErr = os.OpenFile(options.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if fileErr != nil {
			options.LogFile = ""
			output = w
		}
	}

	logger := slog.New(newHandler(output, &slog.HandlerOptions{Level: lvl}))
	if len(warnings) > 0 {
		logger.LogAttrs(context.Background(), slog.LevelWarn, "could not parse logger options", warnings...)
	}
	if fileErr != nil {
		logger.Warn("could not open logger file", "err", fileErr)
	}
	return logger
}
