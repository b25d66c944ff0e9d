package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9090

[storage]
driver = "memory"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 36, cfg.Availability.MaxQueryMonths)
	assert.Equal(t, "5 0 * * *", cfg.Scheduler.StatusRefreshCron)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
[database]
host = "db"
password = "from-file"
`)
	t.Setenv(EnvConfigPath, path)
	t.Setenv(EnvDBPassword, "s3cret")

	cfg, err := Load("does-not-exist.toml")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Contains(t, cfg.Database.DSN(), "db:5432")
	assert.Contains(t, cfg.Database.DSN(), "sslmode=disable")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"bad port", func(c *Config) { c.Server.HTTPPort = 0 }},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "mongo" }},
		{"bad cron", func(c *Config) { c.Scheduler.StatusRefreshCron = "every day" }},
		{"zero months", func(c *Config) { c.Availability.MaxQueryMonths = 0 }},
		{"idle above open", func(c *Config) { c.Database.MaxIdleConns = 100 }},
	}

	require.NoError(t, Default().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
