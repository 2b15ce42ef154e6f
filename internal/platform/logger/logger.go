package logger

import (
	"log/slog"
	"os"
)

// New returns the shared structured logger. All modules log key/value attrs
// through slog so audit lines stay machine-parseable.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}
