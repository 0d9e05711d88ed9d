// Package logging configures structured logging for listing-explorer.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup installs the default slog logger on stderr, keeping stdout free
// for command output. Dev mode uses human-readable text at debug level;
// otherwise JSON at info.
func Setup(devMode bool) {
	slog.SetDefault(slog.New(NewHandler(os.Stderr, devMode)))
}

// NewHandler returns the handler Setup installs, writing to w.
func NewHandler(w io.Writer, devMode bool) slog.Handler {
	if devMode {
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
}
