package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	app "github.com/rocketscienceinc/tictactoe-session/internal"
	"github.com/rocketscienceinc/tictactoe-session/internal/config"
)

const serviceName = "tictactoe-session"

func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
			os.Exit(1)
		}
	}()

	conf := loadConfig()
	logger := newLogger(conf.LogLevel)

	if err := app.RunApp(logger, conf); err != nil {
		panic(fmt.Errorf("session server stopped: %w", err))
	}
}

// loadConfig - config.yml is looked up next to the working directory.
func loadConfig() *config.Config {
	workDir, err := os.Getwd()
	if err != nil {
		panic(fmt.Errorf("failed to get working directory: %w", err))
	}

	return config.MustLoad(filepath.Join(workDir, "config.yml"))
}

// newLogger - JSON logs on stdout; an unknown level falls back to info.
func newLogger(levelName string) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		level = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})

	return slog.New(handler).With("service", serviceName)
}
