package logger

import (
	"log/slog"
	"os"
)

// New returns the process-wide structured logger. JSON output keeps kiosk
// scan logs machine-parseable for the ops pipeline.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
