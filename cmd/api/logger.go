package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/adimehta/aiportal/internal/config"
	"github.com/adimehta/aiportal/internal/version"
)

func setupLogger(level string) *slog.Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(level),
	})
	return slog.New(handler)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warning", "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func printStartupBanner(cfg *config.Config) {
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "AI Portal %s - OpenAI API Service\n", version.Version)
	fmt.Fprintln(os.Stderr, "================================================")
	if cfg.EnableFrontend {
		fmt.Fprintf(os.Stderr, "Frontend:   http://localhost%s/\n", cfg.ServerPort)
	}
	fmt.Fprintf(os.Stderr, "API:        http://localhost%s/chat\n", cfg.ServerPort)
	fmt.Fprintf(os.Stderr, "Health:     http://localhost%s/health\n", cfg.ServerPort)
	fmt.Fprintf(os.Stderr, "Data:       %s\n", config.DataDir())
	fmt.Fprintln(os.Stderr, "================================================")
	for _, w := range cfg.Warnings() {
		fmt.Fprintf(os.Stderr, "WARNING: %s\n", w)
	}
	fmt.Fprintf(os.Stderr, "\n")
}
