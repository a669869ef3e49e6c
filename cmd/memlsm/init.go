package main

import (
	"log/slog"
	"os"

	"memlsm/pkg/config"
)

// initConfig loads the YAML config at path. A missing file yields config.Default().
func initConfig(path string) (config.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Info("config file not found, using default config", "path", path)
			return config.Default(), nil
		}
		return config.Config{}, err
	}

	return config.Parse(data)
}

// initLogger sets the global slog.Logger (JSON or text).
func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: true,
		Level:     cfg.Logger.SlogLevel(),
	}

	var handler slog.Handler
	if cfg.Logger.JSON {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Info("logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	return logger
}
