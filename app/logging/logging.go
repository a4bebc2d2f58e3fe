// Package logging builds the process logger with charmbracelet/log.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"

	"taskboard/app/config"
)

// New creates a leveled logger writing to stderr.
func New(cfg config.Log) *log.Logger {
	return NewWithWriter(os.Stderr, cfg)
}

// NewWithWriter creates a leveled logger writing to w.
func NewWithWriter(w io.Writer, cfg config.Log) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(cfg.Level),
		Formatter:       ParseFormatter(cfg.Format),
		ReportTimestamp: true,
		Prefix:          "taskboard",
	})
}

// ParseLevel parses a level name, defaulting to info.
func ParseLevel(level string) log.Level {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// ParseFormatter parses a formatter name, defaulting to text.
func ParseFormatter(format string) log.Formatter {
	switch format {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
