package config

import (
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/cellstore-dev/cellstore/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "cellstore.toml"

	// DefaultInspectAddr is the default inspector listen address.
	DefaultInspectAddr = "127.0.0.1:7811"

	// DefaultMetricsNamespace is the default Prometheus namespace.
	DefaultMetricsNamespace = "cellstore"

	// DefaultLogLevel is the default slog level name.
	DefaultLogLevel = "info"
)

// Config is the complete cellstore.toml configuration.
type Config struct {
	// Name labels the application in logs and traces.
	Name string `toml:"name" env:"CELLSTORE_NAME"`

	// Log contains logging configuration.
	Log LogConfig `toml:"log"`

	// Inspect contains store inspector configuration.
	Inspect InspectConfig `toml:"inspect"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `toml:"metrics"`
}

// LogConfig contains logging configuration.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level" env:"CELLSTORE_LOG_LEVEL"`
}

// InspectConfig contains store inspector configuration.
type InspectConfig struct {
	// Enabled starts the inspector HTTP listener.
	Enabled bool `toml:"enabled" env:"CELLSTORE_INSPECT_ENABLED"`

	// Addr is the inspector listen address.
	Addr string `toml:"addr" env:"CELLSTORE_INSPECT_ADDR"`
}

// MetricsConfig contains Prometheus configuration.
type MetricsConfig struct {
	// Enabled exposes /metrics on the inspector listener.
	Enabled bool `toml:"enabled" env:"CELLSTORE_METRICS_ENABLED"`

	// Namespace is the metrics namespace.
	Namespace string `toml:"namespace" env:"CELLSTORE_METRICS_NAMESPACE"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() Config {
	return Config{
		Name: "cellstore",
		Log:  LogConfig{Level: DefaultLogLevel},
		Inspect: InspectConfig{
			Enabled: false,
			Addr:    DefaultInspectAddr,
		},
		Metrics: MetricsConfig{
			Enabled:   false,
			Namespace: DefaultMetricsNamespace,
		},
	}
}

// Load reads the configuration file at path (falling back to defaults when
// it does not exist) and applies environment overrides on top.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = ConfigFileName
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.New("E102").Wrap(err)
		}
	case os.IsNotExist(err):
		// Defaults apply.
	default:
		return Config{}, errors.New("E101").Wrap(err)
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.New("E103").Wrap(err)
	}

	if _, err := parseLevel(cfg.Log.Level); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LogLevel returns the configured slog level. Load has already validated
// the name, so an unknown value here falls back to info.
func (c Config) LogLevel() slog.Level {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(name string) (slog.Level, error) {
	switch name {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, errors.New("E104").WithDetail("got log level " + name)
	}
}
