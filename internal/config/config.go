package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is the environment variable prefix shared by every setting.
const Prefix = "BIRTHS"

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `envconfig:"SERVER"`
	Data    DataConfig    `envconfig:"DATA"`
	Logging LoggingConfig `envconfig:"LOG"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `envconfig:"PORT" default:"8050"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// DataConfig contains the input data locations and the reference year.
// BoundariesFile, when set, points at a local GeoJSON file used instead
// of fetching BoundariesURL.
type DataConfig struct {
	Dir            string        `envconfig:"DIR" default:"data"`
	BirthsFile     string        `envconfig:"BIRTHS_FILE" default:"FD_NAIS_2019.csv"`
	BoundariesURL  string        `envconfig:"BOUNDARIES_URL" default:"https://france-geojson.gregoiredavid.fr/repo/departements.geojson"`
	BoundariesFile string        `envconfig:"BOUNDARIES_FILE"`
	Year           int           `envconfig:"YEAR" default:"2019"`
	FetchTimeout   time.Duration `envconfig:"FETCH_TIMEOUT" default:"30s"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `envconfig:"LEVEL" default:"info"`
	Format string `envconfig:"FORMAT" default:"json"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Data.BirthsFile == "" {
		return fmt.Errorf("births file path is required")
	}

	if c.Data.Year < 1900 || c.Data.Year > 2100 {
		return fmt.Errorf("invalid reference year: %d", c.Data.Year)
	}

	if c.Data.FetchTimeout <= 0 {
		return fmt.Errorf("boundary fetch timeout must be positive")
	}

	if c.Data.BoundariesURL == "" && c.Data.BoundariesFile == "" {
		return fmt.Errorf("either a boundaries URL or a local boundaries file is required")
	}

	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// SlogLevel maps the configured level name onto a slog level. Unknown
// names fall back to info.
func (l LoggingConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8050,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Data: DataConfig{
			Dir:           "data",
			BirthsFile:    "FD_NAIS_2019.csv",
			BoundariesURL: "https://france-geojson.gregoiredavid.fr/repo/departements.geojson",
			Year:          2019,
			FetchTimeout:  30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
