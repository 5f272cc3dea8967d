package logger

import (
	"log/slog"
	"os"
)

// New returns the root structured logger. Handlers and services receive it
// via constructor injection so tests can swap in a silent logger.
func New() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
