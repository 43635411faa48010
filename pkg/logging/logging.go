// Package logging configures the process-wide slog logger with tint.
//
// The level comes from the LOG_LEVEL environment variable (debug, info,
// warn, error; default info). Logs go to stderr so batch artifacts and
// report output on stdout stay clean.
package logging

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup installs the default logger. noColor disables ANSI colors, for
// batch runs whose stderr is captured rather than read in a terminal.
func Setup(noColor bool) {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      levelFromEnv(),
			TimeFormat: time.Kitchen,
			NoColor:    noColor,
		}),
	))
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
