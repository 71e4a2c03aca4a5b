package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/tradejournal/equity"
)

// EnvPrefix prefixes every environment override, e.g. TJ_SERVER_PORT.
const EnvPrefix = "TJ"

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig    `json:"server" yaml:"server" mapstructure:"server"`
	Journal  JournalConfig   `json:"journal" yaml:"journal" mapstructure:"journal"`
	Logging  LoggingConfig   `json:"logging" yaml:"logging" mapstructure:"logging"`
	Defaults AccountDefaults `json:"defaults" yaml:"defaults" mapstructure:"defaults"`
}

// ServerConfig contains HTTP API parameters
type ServerConfig struct {
	Port           string `json:"port" yaml:"port" mapstructure:"port"`
	RequestTimeout string `json:"request_timeout" yaml:"request_timeout" mapstructure:"request_timeout"` // e.g. "5s"
}

// Timeout parses RequestTimeout.
func (s ServerConfig) Timeout() (time.Duration, error) {
	return time.ParseDuration(s.RequestTimeout)
}

// JournalConfig selects the trade store
type JournalConfig struct {
	Type   string `json:"type" yaml:"type" mapstructure:"type"` // "sqlite" or "postgres"
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty" mapstructure:"db_path"`
	DSN    string `json:"dsn,omitempty" yaml:"dsn,omitempty" mapstructure:"dsn"`
}

type LoggingConfig struct {
	Level string `json:"level" yaml:"level" mapstructure:"level"`
}

// AccountDefaults is the template new accounts start from when a field is
// not given explicitly.
type AccountDefaults struct {
	StartingBalance float64              `json:"starting_balance" yaml:"starting_balance" mapstructure:"starting_balance"`
	ProfitTargetPct float64              `json:"profit_target_pct" yaml:"profit_target_pct" mapstructure:"profit_target_pct"`
	Daily           equity.DailyDrawdown `json:"daily_drawdown" yaml:"daily_drawdown" mapstructure:"daily_drawdown"`
	Max             equity.MaxDrawdown   `json:"max_drawdown" yaml:"max_drawdown" mapstructure:"max_drawdown"`
}

// Account builds a new account named name from the defaults.
func (d AccountDefaults) Account(name string) equity.Account {
	m := d.Max
	return equity.Account{
		Name:            name,
		StartingBalance: d.StartingBalance,
		ProfitTargetPct: d.ProfitTargetPct,
		Daily:           d.Daily,
		Max:             &m,
	}
}

// Load layers configuration: built-in defaults, then the optional file at
// path (YAML or JSON), then TJ_* environment variables, which may also come
// from a .env file in the working directory.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if filepath.Ext(path) == "" {
			v.SetConfigType("yaml")
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key so environment overrides reach Unmarshal.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.request_timeout", d.Server.RequestTimeout)

	v.SetDefault("journal.type", d.Journal.Type)
	v.SetDefault("journal.db_path", d.Journal.DBPath)
	v.SetDefault("journal.dsn", d.Journal.DSN)

	v.SetDefault("logging.level", d.Logging.Level)

	v.SetDefault("defaults.starting_balance", d.Defaults.StartingBalance)
	v.SetDefault("defaults.profit_target_pct", d.Defaults.ProfitTargetPct)

	v.SetDefault("defaults.daily_drawdown.enabled", d.Defaults.Daily.Enabled)
	v.SetDefault("defaults.daily_drawdown.pct", d.Defaults.Daily.Pct)
	v.SetDefault("defaults.daily_drawdown.type", string(d.Defaults.Daily.Type))
	v.SetDefault("defaults.daily_drawdown.locks_at", string(d.Defaults.Daily.LocksAt))
	v.SetDefault("defaults.daily_drawdown.locks_at_pct", d.Defaults.Daily.LocksAtPct)
	v.SetDefault("defaults.daily_drawdown.reset_time", d.Defaults.Daily.ResetTime)
	v.SetDefault("defaults.daily_drawdown.reset_timezone", d.Defaults.Daily.ResetTimezone)

	v.SetDefault("defaults.max_drawdown.enabled", d.Defaults.Max.Enabled)
	v.SetDefault("defaults.max_drawdown.pct", d.Defaults.Max.Pct)
	v.SetDefault("defaults.max_drawdown.type", string(d.Defaults.Max.Type))
	v.SetDefault("defaults.max_drawdown.trailing_stops_at", string(d.Defaults.Max.TrailingStopsAt))
	v.SetDefault("defaults.max_drawdown.locks_at_pct", d.Defaults.Max.LocksAtPct)
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if d, err := c.Server.Timeout(); err != nil || d <= 0 {
		return fmt.Errorf("server.request_timeout must be a positive duration")
	}

	switch c.Journal.Type {
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for sqlite type")
		}
	case "postgres":
		if c.Journal.DSN == "" {
			return fmt.Errorf("journal.dsn required for postgres type")
		}
	default:
		return fmt.Errorf("journal.type must be 'sqlite' or 'postgres'")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, fatal")
	}

	return c.Defaults.Validate()
}

// Validate checks the account template.
func (d AccountDefaults) Validate() error {
	if d.StartingBalance < 0 {
		return fmt.Errorf("defaults.starting_balance must not be negative")
	}
	if d.ProfitTargetPct < 0 {
		return fmt.Errorf("defaults.profit_target_pct must not be negative")
	}

	dd := d.Daily
	if dd.Pct < 0 || dd.Pct > 99 {
		return fmt.Errorf("defaults.daily_drawdown.pct must be between 0 and 99")
	}
	if !validType(dd.Type) {
		return fmt.Errorf("defaults.daily_drawdown.type must be 'static' or 'trailing'")
	}
	switch dd.LocksAt {
	case "", equity.LockStartBalance, equity.LockCustom:
	default:
		return fmt.Errorf("defaults.daily_drawdown.locks_at must be 'start_balance' or 'custom'")
	}
	if dd.ResetTime != "" {
		if _, err := time.Parse("15:04", dd.ResetTime); err != nil {
			return fmt.Errorf("defaults.daily_drawdown.reset_time must be HH:MM")
		}
	}
	if dd.ResetTimezone != "" {
		if _, err := time.LoadLocation(dd.ResetTimezone); err != nil {
			return fmt.Errorf("defaults.daily_drawdown.reset_timezone: %w", err)
		}
	}

	md := d.Max
	if md.Pct < 0 || md.Pct > 99 {
		return fmt.Errorf("defaults.max_drawdown.pct must be between 0 and 99")
	}
	if !validType(md.Type) {
		return fmt.Errorf("defaults.max_drawdown.type must be 'static' or 'trailing'")
	}
	switch md.TrailingStopsAt {
	case "", equity.LockInitial, equity.LockCustom, equity.LockNever:
	default:
		return fmt.Errorf("defaults.max_drawdown.trailing_stops_at must be 'initial', 'custom' or 'never'")
	}
	return nil
}

func validType(t equity.DrawdownType) bool {
	return t == "" || t == equity.Static || t == equity.Trailing
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			RequestTimeout: "5s",
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./tradejournal.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Defaults: AccountDefaults{
			StartingBalance: 100000,
			ProfitTargetPct: 10,
			Daily: equity.DailyDrawdown{
				Enabled:       true,
				Pct:           5,
				Type:          equity.Static,
				LocksAt:       equity.LockStartBalance,
				ResetTime:     "00:00",
				ResetTimezone: "UTC",
			},
			Max: equity.MaxDrawdown{
				Enabled:         true,
				Pct:             10,
				Type:            equity.Static,
				TrailingStopsAt: equity.LockInitial,
			},
		},
	}
}
