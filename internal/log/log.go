package log

import (
	"log/slog"
	"os"
	"strings"
)

// Setup configures the process-wide slog default: a text handler on stdout
// tagged with the component name, at the level named by LOG_LEVEL.
func Setup(component string) {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: levelFromEnv(),
	})
	slog.SetDefault(slog.New(handler).With("component", component))
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
