package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file,
// with environment variables (optionally from a .env file) layered on top.
type Config struct {
	API      APIConfig      `toml:"api"`
	Session  SessionConfig  `toml:"session"`
	Cache    CacheConfig    `toml:"cache"`
	Realtime RealtimeConfig `toml:"realtime"`
}

// APIConfig contains settings for the remote REST API.
type APIConfig struct {
	BaseURL        string  `toml:"base_url"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	RatePerSecond  float64 `toml:"rate_per_second"`
}

// SessionConfig contains settings for durable credential storage.
type SessionConfig struct {
	Path string `toml:"path"`
}

// CacheConfig contains settings for the local collection snapshot cache.
type CacheConfig struct {
	Path         string `toml:"path"`
	Enabled      bool   `toml:"enabled"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// RealtimeConfig contains settings for the facility live channel.
type RealtimeConfig struct {
	URL               string `toml:"url"`
	BackoffBaseMillis int    `toml:"backoff_base_millis"`
	BackoffCapMillis  int    `toml:"backoff_cap_millis"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path,
// then applies environment overrides via [applyEnv].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyEnv()
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the
// embedded example config, with environment overrides applied.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyEnv()
	return &config
}

// LoadEnvFile loads variables from the given .env file into the process
// environment. A missing file is acceptable; configuration then comes from
// the environment and config file directly.
func LoadEnvFile(path string) error {
	if path == "" {
		_ = godotenv.Load()
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed loading env file %s: %w", path, err)
	}
	return nil
}

// applyEnv overlays ROOST_* environment variables onto the config.
func (c *Config) applyEnv() {
	if v := os.Getenv("ROOST_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("ROOST_API_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.API.TimeoutSeconds = secs
		}
	}
	if v := os.Getenv("ROOST_SESSION_PATH"); v != "" {
		c.Session.Path = v
	}
	if v := os.Getenv("ROOST_CACHE_PATH"); v != "" {
		c.Cache.Path = v
	}
	if v := os.Getenv("ROOST_REALTIME_URL"); v != "" {
		c.Realtime.URL = v
	}
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("%w: api.base_url must be set", ErrInvalidConfig)
	}
	if c.API.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: api.timeout_seconds must be positive", ErrInvalidConfig)
	}
	if c.Cache.Enabled && c.Cache.Path == "" {
		return fmt.Errorf("%w: cache.path must be set when cache is enabled", ErrInvalidConfig)
	}
	return nil
}

// SaveConfig writes the config back to the given path as TOML.
func SaveConfig(path string, config *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
