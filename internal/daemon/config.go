// Package daemon holds the server configuration, loaded from a TOML file
// with sensible defaults for every field.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the full server configuration.
type Config struct {
	API     APIConfig     `toml:"api"`
	Ledger  LedgerConfig  `toml:"ledger"`
	Metrics MetricsConfig `toml:"metrics"`
}

// APIConfig controls the HTTP binding.
type APIConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the host:port listen address.
func (a APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

// LedgerConfig controls ledger policy and storage.
type LedgerConfig struct {
	// DataDir is where the SQLite store lives.
	DataDir string `toml:"data_dir"`

	// AllowNegativeBalance lets a seeker's balance go negative when a
	// service completes (a credit line).
	AllowNegativeBalance bool `toml:"allow_negative_balance"`

	// AllowSelfAccept lets a provider accept their own offer.
	AllowSelfAccept bool `toml:"allow_self_accept"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8710,
		},
		Ledger: LedgerConfig{
			DataDir:              defaultDataDir(),
			AllowNegativeBalance: true,
			AllowSelfAccept:      true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Load reads config from path over the defaults. A missing file is not an
// error — defaults apply.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultConfigPath returns the conventional config file location.
func DefaultConfigPath() string {
	return filepath.Join(homeDir(), ".hourbank", "config.toml")
}

func defaultDataDir() string {
	return filepath.Join(homeDir(), ".hourbank", "data")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
