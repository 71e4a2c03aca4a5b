package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradejournal/equity"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Default().Validate())
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tradejournal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9090"
journal:
  type: sqlite
  db_path: /tmp/journal.db
defaults:
  starting_balance: 50000
  daily_drawdown:
    enabled: true
    pct: 4
    type: trailing
    reset_time: "17:00"
    reset_timezone: America/New_York
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "5s", cfg.Server.RequestTimeout)
	assert.Equal(t, "/tmp/journal.db", cfg.Journal.DBPath)
	assert.Equal(t, 50000.0, cfg.Defaults.StartingBalance)
	assert.Equal(t, 10.0, cfg.Defaults.ProfitTargetPct)
	assert.Equal(t, equity.Trailing, cfg.Defaults.Daily.Type)
	assert.Equal(t, "17:00", cfg.Defaults.Daily.ResetTime)
	assert.Equal(t, "America/New_York", cfg.Defaults.Daily.ResetTimezone)
	assert.Equal(t, equity.Static, cfg.Defaults.Max.Type)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TJ_SERVER_PORT", "7070")
	t.Setenv("TJ_JOURNAL_TYPE", "postgres")
	t.Setenv("TJ_JOURNAL_DSN", "postgres://tj:tj@localhost:5432/tj")
	t.Setenv("TJ_LOGGING_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Journal.Type)
	assert.Equal(t, "postgres://tj:tj@localhost:5432/tj", cfg.Journal.DSN)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("TJ_JOURNAL_TYPE", "csv")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "journal.type")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSaveToFileRoundTrip(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"cfg.yaml", "cfg.json"} {
		name := name
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), name)
			want := Default()
			want.Server.Port = "1234"
			require.NoError(t, want.SaveToFile(path))

			got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"no port", func(c *Config) { c.Server.Port = "" }, "server.port is required"},
		{"bad timeout", func(c *Config) { c.Server.RequestTimeout = "soon" }, "server.request_timeout"},
		{"zero timeout", func(c *Config) { c.Server.RequestTimeout = "0s" }, "server.request_timeout"},
		{"unknown journal", func(c *Config) { c.Journal.Type = "csv" }, "journal.type must be"},
		{"sqlite no path", func(c *Config) { c.Journal.DBPath = "" }, "journal.db_path required"},
		{"postgres no dsn", func(c *Config) { c.Journal.Type = "postgres" }, "journal.dsn required"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"negative balance", func(c *Config) { c.Defaults.StartingBalance = -1 }, "defaults.starting_balance"},
		{"daily pct", func(c *Config) { c.Defaults.Daily.Pct = 120 }, "defaults.daily_drawdown.pct"},
		{"daily type", func(c *Config) { c.Defaults.Daily.Type = "sliding" }, "defaults.daily_drawdown.type"},
		{"daily lock", func(c *Config) { c.Defaults.Daily.LocksAt = equity.LockNever }, "defaults.daily_drawdown.locks_at"},
		{"reset time", func(c *Config) { c.Defaults.Daily.ResetTime = "25:00" }, "defaults.daily_drawdown.reset_time"},
		{"reset zone", func(c *Config) { c.Defaults.Daily.ResetTimezone = "Mars/Olympus" }, "defaults.daily_drawdown.reset_timezone"},
		{"max pct", func(c *Config) { c.Defaults.Max.Pct = -2 }, "defaults.max_drawdown.pct"},
		{"max stop", func(c *Config) { c.Defaults.Max.TrailingStopsAt = equity.LockStartBalance }, "defaults.max_drawdown.trailing_stops_at"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := Default()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestAccountDefaults(t *testing.T) {
	t.Parallel()

	d := Default().Defaults
	a := d.Account("Challenge")

	assert.Equal(t, "Challenge", a.Name)
	assert.Equal(t, d.StartingBalance, a.StartingBalance)
	assert.Equal(t, d.Daily, a.Daily)
	require.NotNil(t, a.Max)
	assert.Equal(t, d.Max, *a.Max)

	a.Max.Pct = 1
	assert.Equal(t, 10.0, d.Max.Pct)
}
