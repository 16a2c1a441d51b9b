package config

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8050, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)

	assert.Equal(t, "data", cfg.Data.Dir)
	assert.Equal(t, "FD_NAIS_2019.csv", cfg.Data.BirthsFile)
	assert.Equal(t, "https://france-geojson.gregoiredavid.fr/repo/departements.geojson", cfg.Data.BoundariesURL)
	assert.Empty(t, cfg.Data.BoundariesFile)
	assert.Equal(t, 2019, cfg.Data.Year)
	assert.Equal(t, 30*time.Second, cfg.Data.FetchTimeout)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	assert.Equal(t, ":8050", cfg.Addr())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BIRTHS_SERVER_PORT", "9000")
	t.Setenv("BIRTHS_SERVER_READ_TIMEOUT", "5s")
	t.Setenv("BIRTHS_DATA_DIR", "/srv/births")
	t.Setenv("BIRTHS_DATA_YEAR", "2020")
	t.Setenv("BIRTHS_DATA_BOUNDARIES_FILE", "departements.geojson")
	t.Setenv("BIRTHS_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "/srv/births", cfg.Data.Dir)
	assert.Equal(t, 2020, cfg.Data.Year)
	assert.Equal(t, "departements.geojson", cfg.Data.BoundariesFile)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, ":9000", cfg.Addr())
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "invalid port",
			env:     map[string]string{"BIRTHS_SERVER_PORT": "0"},
			wantErr: "invalid server port",
		},
		{
			name:    "invalid year",
			env:     map[string]string{"BIRTHS_DATA_YEAR": "1800"},
			wantErr: "invalid reference year",
		},
		{
			name:    "empty births file",
			env:     map[string]string{"BIRTHS_DATA_BIRTHS_FILE": ""},
			wantErr: "births file path is required",
		},
		{
			name:    "non-positive fetch timeout",
			env:     map[string]string{"BIRTHS_DATA_FETCH_TIMEOUT": "0s"},
			wantErr: "fetch timeout must be positive",
		},
		{
			name: "no boundary source",
			env: map[string]string{
				"BIRTHS_DATA_BOUNDARIES_URL":  "",
				"BIRTHS_DATA_BOUNDARIES_FILE": "",
			},
			wantErr: "either a boundaries URL or a local boundaries file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			_, err := Load()
			require.ErrorContains(t, err, "config validation failed")
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadParseError(t *testing.T) {
	t.Setenv("BIRTHS_SERVER_PORT", "not-a-port")

	_, err := Load()
	require.ErrorContains(t, err, "failed to load config from env")
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  slog.Level
	}{
		{name: "debug", level: "debug", want: slog.LevelDebug},
		{name: "info", level: "info", want: slog.LevelInfo},
		{name: "warn", level: "warn", want: slog.LevelWarn},
		{name: "warning alias", level: "warning", want: slog.LevelWarn},
		{name: "error", level: "error", want: slog.LevelError},
		{name: "mixed case", level: "DEBUG", want: slog.LevelDebug},
		{name: "unknown falls back to info", level: "verbose", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LoggingConfig{Level: tt.level}.SlogLevel())
		})
	}
}

func TestDataPaths(t *testing.T) {
	data := DataConfig{Dir: "data", BirthsFile: "FD_NAIS_2019.csv"}
	assert.Equal(t, filepath.Join("data", "FD_NAIS_2019.csv"), data.BirthsPath())
	assert.Empty(t, data.BoundariesPath(), "no local boundaries file configured")

	data.BoundariesFile = "departements.geojson"
	assert.Equal(t, filepath.Join("data", "departements.geojson"), data.BoundariesPath())

	data.BirthsFile = "/elsewhere/births.csv"
	assert.Equal(t, "/elsewhere/births.csv", data.BirthsPath(), "absolute paths ignore the data dir")
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.validate())
	assert.Equal(t, 8050, cfg.Server.Port)
	assert.Equal(t, 2019, cfg.Data.Year)
}
