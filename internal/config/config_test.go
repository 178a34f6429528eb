package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"port": 9090,
		"sqlite_path": "placement.db",
		"log_level": "debug",
		"log_format": "console",
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "placement.db", cfg.SQLitePath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644))

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://localhost/placement")
	t.Setenv("SQLITE_PATH", "")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "postgres://localhost/placement", cfg.DatabaseURL)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.False(t, cfg.UseSQLite())
}

func TestFromEnv_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "eighty")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid PORT")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "empty config", cfg: Config{}},
		{name: "valid values", cfg: Config{Port: 8080, LogLevel: "warn", LogFormat: "json"}},
		{name: "negative port", cfg: Config{Port: -1}, wantErr: "port"},
		{name: "port too large", cfg: Config{Port: 70000}, wantErr: "port"},
		{name: "bad log format", cfg: Config{LogFormat: "xml"}, wantErr: "log_format"},
		{name: "bad log level", cfg: Config{LogLevel: "chatty"}, wantErr: "log_level"},
		{name: "missing rules file", cfg: Config{RulesPath: "/nonexistent/rules.json"}, wantErr: "rules file not found"},
		{name: "missing model file", cfg: Config{ModelPath: "/nonexistent/model.json"}, wantErr: "model file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestUseSQLite(t *testing.T) {
	assert.True(t, (&Config{}).UseSQLite())
	assert.True(t, (&Config{SQLitePath: "a.db", DatabaseURL: "postgres://x"}).UseSQLite())
	assert.False(t, (&Config{DatabaseURL: "postgres://x"}).UseSQLite())
}

func TestMergeWithDefaults(t *testing.T) {
	defaults := Config{
		Port:      8080,
		RulesPath: "rules.json",
		LogLevel:  "info",
		LogFormat: "json",
	}

	partial := Config{
		Port:     9090,
		LogLevel: "debug",
	}

	merged := partial.MergeWithDefaults(defaults)

	// Custom values should be preserved
	assert.Equal(t, 9090, merged.Port)
	assert.Equal(t, "debug", merged.LogLevel)

	// Default values should fill in empty fields
	assert.Equal(t, "rules.json", merged.RulesPath)
	assert.Equal(t, "json", merged.LogFormat)
}

func TestWithBuiltinDefaults(t *testing.T) {
	merged := (&Config{}).WithBuiltinDefaults()
	assert.Equal(t, DefaultPort, merged.Port)
	assert.Equal(t, DefaultLogLevel, merged.LogLevel)
	assert.Equal(t, DefaultLogFormat, merged.LogFormat)
}
