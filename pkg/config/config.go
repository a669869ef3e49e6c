package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config is the root configuration of a memlsm node.
type Config struct {
	Logger LoggerConfig `yaml:"logger"`
	Server ServerConfig `yaml:"http-server"`
	DB     DBConfig     `yaml:"db"`
}

type LoggerConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

type ServerConfig struct {
	Port              int           `yaml:"port"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
}

type DBConfig struct {
	// Path is handed to the store as its location; nothing is written there yet.
	Path     string         `yaml:"path"`
	Memtable MemtableConfig `yaml:"memtable"`
}

type MemtableConfig struct {
	FreezeThresholdBytes int `yaml:"freeze_threshold"`
	EventsBuffer         int `yaml:"events_buffer"`
}

// Default returns a baseline development config.
func Default() Config {
	return Config{
		Logger: LoggerConfig{
			Level: "INFO",
			JSON:  false,
		},
		Server: ServerConfig{
			Port:              8080,
			ReadHeaderTimeout: time.Second,
		},
		DB: DBConfig{
			Path: "./data",
			Memtable: MemtableConfig{
				FreezeThresholdBytes: 1024 * 1024,
				EventsBuffer:         1,
			},
		},
	}
}

// Parse decodes YAML on top of Default, so omitted fields keep their
// defaults, and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.DisallowUnknownField()); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	if _, err := parseLevel(c.Logger.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("%w: http-server.port %d out of range", ErrInvalidConfig, c.Server.Port))
	}
	if c.Server.ReadHeaderTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: http-server.read_header_timeout must be positive", ErrInvalidConfig))
	}
	if c.DB.Path == "" {
		errs = append(errs, fmt.Errorf("%w: db.path is required", ErrInvalidConfig))
	}
	if c.DB.Memtable.FreezeThresholdBytes < 1 {
		errs = append(errs, fmt.Errorf("%w: db.memtable.freeze_threshold must be positive", ErrInvalidConfig))
	}
	if c.DB.Memtable.EventsBuffer < 0 {
		errs = append(errs, fmt.Errorf("%w: db.memtable.events_buffer must not be negative", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// SlogLevel maps the configured level name, case-insensitively.
func (l LoggerConfig) SlogLevel() slog.Level {
	level, err := parseLevel(l.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%w: logger.level %q", ErrInvalidConfig, s)
}
