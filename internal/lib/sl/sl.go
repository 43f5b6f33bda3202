// Package sl holds small helpers for building slog attributes.
package sl

import (
	"io"
	"log/slog"
)

// Err returns an slog.Attr with the key "error" and the error text as value.
//
// Example:
//
//	log.Error("failed to do something", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{Key: "error", Value: slog.StringValue("<nil>")}
	}
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// New returns the process logger: debug level for local and development
// environments, info otherwise.
func New(env string, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if env == "local" || env == "development" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
