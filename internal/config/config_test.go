package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"SPLITLEDGER_STORE", "SPLITLEDGER_DB_PATH", "PORT",
	"LOG_LEVEL", "LOG_FORMAT", "SPLITLEDGER_EVENT_BUFFER",
}

// clearEnv blanks every setting for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, "./data/splitledger.db", cfg.DBPath)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 100, cfg.EventBuffer)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SPLITLEDGER_STORE", "BOLT")
	t.Setenv("SPLITLEDGER_DB_PATH", "/tmp/ledger.bolt")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreBolt, cfg.Store)
	assert.Equal(t, "/tmp/ledger.bolt", cfg.DBPath)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	for _, k := range keys {
		// godotenv.Load never overrides variables that are already set.
		require.NoError(t, os.Unsetenv(k))
	}
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("SPLITLEDGER_STORE=memory\nPORT=7000\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("SPLITLEDGER_STORE")
		os.Unsetenv("PORT")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, 7000, cfg.Port)
}

func TestLoad_MissingEnvFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	assert.Error(t, err)
}

func TestLoad_InvalidInteger(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "eighty")

	_, err := Load()
	assert.ErrorContains(t, err, "PORT")
}

func TestValidate(t *testing.T) {
	valid := Config{Store: StoreSQLite, DBPath: "x.db", Port: 8080, LogLevel: "info", LogFormat: "text", EventBuffer: 10}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "memory needs no path", mutate: func(c *Config) { c.Store = StoreMemory; c.DBPath = "" }},
		{name: "unknown store", mutate: func(c *Config) { c.Store = "postgres" }, wantErr: "SPLITLEDGER_STORE"},
		{name: "empty path", mutate: func(c *Config) { c.DBPath = "" }, wantErr: "SPLITLEDGER_DB_PATH"},
		{name: "bad port", mutate: func(c *Config) { c.Port = 70000 }, wantErr: "PORT"},
		{name: "bad level", mutate: func(c *Config) { c.LogLevel = "trace" }, wantErr: "LOG_LEVEL"},
		{name: "bad format", mutate: func(c *Config) { c.LogFormat = "xml" }, wantErr: "LOG_FORMAT"},
		{name: "zero buffer", mutate: func(c *Config) { c.EventBuffer = 0 }, wantErr: "SPLITLEDGER_EVENT_BUFFER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
