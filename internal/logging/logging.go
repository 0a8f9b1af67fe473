// Package logging builds the diagnostic logger. User-facing results go
// through internal/ui; this logger only carries debugging detail.
package logging

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// Options configure New.
type Options struct {
	Level           string
	ReportTimestamp bool
	Prefix          string
}

// DefaultOptions keeps the logger quiet unless something goes wrong.
func DefaultOptions() Options {
	return Options{
		Level:  "warn",
		Prefix: "taskz",
	}
}

// New returns a text logger writing to w.
func New(w io.Writer, opts Options) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(opts.Level),
		Formatter:       log.TextFormatter,
		ReportTimestamp: opts.ReportTimestamp,
		Prefix:          opts.Prefix,
	})
}

// Discard is a logger that drops everything, handy in tests.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// ParseLevel maps a level name to a log.Level. Unknown names mean warn.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.WarnLevel
	}
}
