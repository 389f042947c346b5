// Package logging builds the process-wide slog logger from the recorder's
// logging settings.
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/mj1618/desktop-recorder/internal/config"
)

// Options describe how to configure a logger instance. Empty fields fall
// back to info level, text format and stderr.
type Options struct {
	Level  string
	Format string
	Output io.Writer
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// New creates a structured logger. Level and format names go through the
// same normalisation as the config file, so flags and files accept the
// same spellings.
func New(opts Options) (*slog.Logger, error) {
	level, format, err := resolve(opts)
	if err != nil {
		return nil, err
	}
	w := opts.Output
	if w == nil {
		w = os.Stderr
	}
	ho := &slog.HandlerOptions{Level: level, ReplaceAttr: utcTime}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, ho)), nil
	}
	return slog.New(slog.NewTextHandler(w, ho)), nil
}

// resolve applies defaults and returns the slog level and handler format.
// "console" is an alias of "text".
func resolve(opts Options) (slog.Level, string, error) {
	name := opts.Level
	if name == "" {
		name = "info"
	}
	name, err := config.NormalizeLogLevel(name)
	if err != nil {
		return 0, "", err
	}
	format := opts.Format
	if format == "" {
		format = "text"
	}
	format, err = config.NormalizeFormat(format)
	if err != nil {
		return 0, "", err
	}
	if format == "console" {
		format = "text"
	}
	return levels[name], format, nil
}

// utcTime renders top-level record times as UTC RFC3339.
func utcTime(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
		a.Value = slog.StringValue(a.Value.Time().UTC().Format(time.RFC3339))
	}
	return a
}
