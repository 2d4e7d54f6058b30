package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Monitor     MonitorConfig     `toml:"monitor"`
	Covers      CoversConfig      `toml:"covers"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Osu OsuConfig `toml:"osu"`
}

// OsuConfig contains the osu! API v2 OAuth client credentials.
type OsuConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// MonitorConfig contains polling settings for the status monitor.
type MonitorConfig struct {
	IntervalMS int     `toml:"interval_ms"` // milliseconds between polling cycles
	AutoStop   bool    `toml:"auto_stop"`   // disable monitoring when a set reaches a terminal status
	Workers    int     `toml:"workers"`     // concurrent detail fetches per cycle
	RateLimit  float64 `toml:"rate_limit"`  // API requests per second
}

// Interval returns the polling interval as a [time.Duration], falling back to
// 1.5s when unset.
func (m MonitorConfig) Interval() time.Duration {
	if m.IntervalMS <= 0 {
		return 1500 * time.Millisecond
	}
	return time.Duration(m.IntervalMS) * time.Millisecond
}

// CoversConfig contains settings for the cover download pool.
type CoversConfig struct {
	Workers int `toml:"workers"` // max concurrent cover downloads
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
