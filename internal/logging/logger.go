package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Setup installs the process-wide JSON logger on stdout. The level
// comes from LOG_LEVEL (debug, info, warn, error; default info). The
// system_logs sink is attached separately once a database connection
// exists.
func Setup() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(os.Getenv("LOG_LEVEL")),
	})
	slog.SetDefault(slog.New(handler))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
