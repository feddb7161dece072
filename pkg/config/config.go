// Package config loads the dashboard configuration from YAML and the
// environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vsinha/pharmadash/pkg/application/dto"
	"github.com/vsinha/pharmadash/pkg/infrastructure/logging"
)

// Source kinds
const (
	SourceSupabase = "supabase"
	SourcePostgres = "postgres"
	SourceMySQL    = "mysql"
	SourceSQLite   = "sqlite"
	SourceCSV      = "csv"
)

// Environment variables that override the file
const (
	EnvSupabaseURL = "SUPABASE_URL"
	EnvSupabaseKey = "SUPABASE_KEY"
	EnvDSN         = "PHARMADASH_DSN"
	EnvListen      = "PHARMADASH_LISTEN"
)

type Config struct {
	Source    SourceConfig    `yaml:"source"`
	Server    ServerConfig    `yaml:"server"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Logging   logging.Config  `yaml:"logging"`
}

// SourceConfig selects where the items and batches tables are read from.
// URL and Key are only used by the supabase kind.
type SourceConfig struct {
	Kind     string        `yaml:"kind"`
	URL      string        `yaml:"url"`
	Key      string        `yaml:"key"`
	DSN      string        `yaml:"dsn"`
	DataDir  string        `yaml:"data_dir"`
	Timeout  time.Duration `yaml:"timeout"`
	RetryMax int           `yaml:"retry_max"`
}

type ServerConfig struct {
	Listen string `yaml:"listen"`
}

type DashboardConfig struct {
	ExpiryWindowDays int       `yaml:"expiry_window_days"`
	TopN             int       `yaml:"top_n"`
	Notes            dto.Notes `yaml:"notes"`
}

// ExpiryWindow returns the window as a duration of whole days
func (d DashboardConfig) ExpiryWindow() time.Duration {
	return time.Duration(d.ExpiryWindowDays) * 24 * time.Hour
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Kind:    SourceSupabase,
			Timeout: 30 * time.Second,
		},
		Server: ServerConfig{Listen: ":8080"},
		Dashboard: DashboardConfig{
			ExpiryWindowDays: 182,
			TopN:             10,
		},
		Logging: logging.Config{Level: "info", Format: "text"},
	}
}

// Override adjusts a loaded configuration before validation
type Override func(*Config)

// Load reads path over the defaults, applies the environment and overrides,
// and validates the result. An empty path skips the file.
func Load(path string, overrides ...Override) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := Parse(data, cfg); err != nil {
			return nil, err
		}
	}

	cfg.ApplyEnv(os.LookupEnv)
	for _, override := range overrides {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML data into cfg. Keys missing from data keep their
// current values.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config YAML: %w", err)
	}
	return nil
}

// ApplyEnv overrides file values with any variable that is set
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvSupabaseURL); ok {
		c.Source.URL = v
	}
	if v, ok := lookup(EnvSupabaseKey); ok {
		c.Source.Key = v
	}
	if v, ok := lookup(EnvDSN); ok {
		c.Source.DSN = v
	}
	if v, ok := lookup(EnvListen); ok {
		c.Server.Listen = v
	}
}

// Validate reports the first missing or invalid setting
func (c *Config) Validate() error {
	c.Source.Kind = strings.ToLower(strings.TrimSpace(c.Source.Kind))

	switch c.Source.Kind {
	case SourceSupabase:
		if c.Source.URL == "" {
			return fmt.Errorf("source supabase requires %s", EnvSupabaseURL)
		}
		if c.Source.Key == "" {
			return fmt.Errorf("source supabase requires %s", EnvSupabaseKey)
		}
	case SourcePostgres, SourceMySQL, SourceSQLite:
		if c.Source.DSN == "" {
			return fmt.Errorf("source %s requires a dsn (%s)", c.Source.Kind, EnvDSN)
		}
	case SourceCSV:
		if c.Source.DataDir == "" {
			return fmt.Errorf("source csv requires data_dir")
		}
	default:
		return fmt.Errorf("unsupported source kind: %q", c.Source.Kind)
	}

	if c.Source.RetryMax < 0 {
		return fmt.Errorf("retry_max cannot be negative, got %d", c.Source.RetryMax)
	}
	if c.Dashboard.ExpiryWindowDays <= 0 {
		return fmt.Errorf("expiry_window_days must be positive, got %d", c.Dashboard.ExpiryWindowDays)
	}
	if c.Dashboard.TopN <= 0 {
		return fmt.Errorf("top_n must be positive, got %d", c.Dashboard.TopN)
	}
	if c.Server.Listen == "" {
		return fmt.Errorf("server listen address cannot be empty")
	}
	return nil
}
