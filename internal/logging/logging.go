// Package logging builds the one *slog.Logger the rest of LocalDNS Pro
// shares. cmd/localdnspro calls Configure once at startup with the level
// and structured-output settings resolved from flags and environment
// (see internal/config), installs the result as slog.Default(), and passes
// the same logger to the components that log: the server runner and UDP
// listener, the query handler, and the query-log worker (which falls back
// to slog.Default() when given nil).
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config controls the logger Configure builds. Structured/StructuredFormat
// select JSON versus key=value output for shipping logs to a log
// aggregator instead of a terminal; IncludePID and ExtraFields exist for
// deployments that run more than one localdnspro process on a host and
// need to tell their log lines apart.
type Config struct {
	Level            string
	Structured       bool
	StructuredFormat string
	IncludePID       bool
	ExtraFields      map[string]string
}

// Configure builds a *slog.Logger per cfg, installs it as slog.SetDefault,
// and returns it. Called exactly once, at process startup.
func Configure(cfg Config) *slog.Logger {
	level := parseLevel(cfg.Level)
	var handler slog.Handler
	out := io.Writer(os.Stderr)

	attrs := make([]slog.Attr, 0, len(cfg.ExtraFields)+1)
	for k, v := range cfg.ExtraFields {
		attrs = append(attrs, slog.String(k, v))
	}
	if cfg.IncludePID {
		attrs = append(attrs, slog.Int("pid", os.Getpid()))
	}

	if cfg.Structured {
		if strings.ToLower(cfg.StructuredFormat) == "json" {
			handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
		} else {
			// key=value-ish output
			handler = slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
		}
	} else {
		handler = slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	}

	if len(attrs) > 0 {
		handler = handler.WithAttrs(attrs)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// parseLevel maps a config string to a slog.Level, defaulting to Info for
// anything unrecognized rather than failing startup over a typo'd level.
func parseLevel(s string) slog.Level {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch s {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
