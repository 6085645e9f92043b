// Package common provides shared utilities for Foresight
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Foresight
type Config struct {
	Environment string         `toml:"environment"`
	Server      ServerConfig   `toml:"server"`
	Storage     StorageConfig  `toml:"storage"`
	Archive     ArchiveConfig  `toml:"archive"`
	Clients     ClientsConfig  `toml:"clients"`
	Pipeline    PipelineConfig `toml:"pipeline"`
	Logging     LoggingConfig  `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds SurrealDB connection configuration
type StorageConfig struct {
	Address   string `toml:"address"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
}

// ArchiveConfig holds the local archive sink configuration.
type ArchiveConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	TwelveData TwelveDataConfig `toml:"twelvedata"`
	Finnhub    FinnhubConfig    `toml:"finnhub"`
	Gemini     GeminiConfig     `toml:"gemini"`
}

// TwelveDataConfig holds Twelve Data symbol search configuration
type TwelveDataConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"` // requests per minute
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *TwelveDataConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// FinnhubConfig holds Finnhub company profile configuration
type FinnhubConfig struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
	Timeout string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *FinnhubConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// PipelineConfig holds feed processing configuration
type PipelineConfig struct {
	FeedURL      string `toml:"feed_url"`
	ItemDelay    string `toml:"item_delay"`    // pause between analyzed items
	PollInterval string `toml:"poll_interval"` // "0" disables the background poller
}

// GetItemDelay parses and returns the inter-item delay
func (c *PipelineConfig) GetItemDelay() time.Duration {
	d, err := time.ParseDuration(c.ItemDelay)
	if err != nil {
		return 3 * time.Second
	}
	return d
}

// GetPollInterval parses and returns the background poll interval.
// Zero disables polling.
func (c *PipelineConfig) GetPollInterval() time.Duration {
	d, err := time.ParseDuration(c.PollInterval)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Address:   "ws://localhost:8000/rpc",
			Namespace: "foresight",
			Database:  "foresight",
			Username:  "root",
			Password:  "root",
		},
		Archive: ArchiveConfig{
			Enabled: true,
			Path:    "data/archive",
		},
		Clients: ClientsConfig{
			TwelveData: TwelveDataConfig{
				BaseURL:   "https://api.twelvedata.com",
				RateLimit: 8,
				Timeout:   "30s",
			},
			Finnhub: FinnhubConfig{
				BaseURL: "https://finnhub.io/api/v1",
				Timeout: "30s",
			},
			Gemini: GeminiConfig{
				Model: "gemini-2.0-flash",
			},
		},
		Pipeline: PipelineConfig{
			FeedURL:      "https://finance.yahoo.com/news/rssindex",
			ItemDelay:    "3s",
			PollInterval: "0",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FORESIGHT_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("FORESIGHT_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("FORESIGHT_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("FORESIGHT_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if addr := os.Getenv("FORESIGHT_SURREALDB_URL"); addr != "" {
		config.Storage.Address = addr
	}
	if ns := os.Getenv("FORESIGHT_SURREALDB_NAMESPACE"); ns != "" {
		config.Storage.Namespace = ns
	}
	if db := os.Getenv("FORESIGHT_SURREALDB_DATABASE"); db != "" {
		config.Storage.Database = db
	}
	if user := os.Getenv("FORESIGHT_SURREALDB_USERNAME"); user != "" {
		config.Storage.Username = user
	}
	if pass := os.Getenv("FORESIGHT_SURREALDB_PASSWORD"); pass != "" {
		config.Storage.Password = pass
	}

	if feed := os.Getenv("FORESIGHT_FEED_URL"); feed != "" {
		config.Pipeline.FeedURL = feed
	}
	if path := os.Getenv("FORESIGHT_ARCHIVE_PATH"); path != "" {
		config.Archive.Path = path
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// ResolveAPIKey resolves an API key from environment or config fallback
func ResolveAPIKey(name string, fallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"twelvedata_api_key": {"TWELVEDATA_API_KEY", "FORESIGHT_TWELVEDATA_API_KEY"},
		"finnhub_api_key":    {"FINNHUB_API_KEY", "FORESIGHT_FINNHUB_API_KEY"},
		"gemini_api_key":     {"GEMINI_API_KEY", "FORESIGHT_GEMINI_API_KEY", "GOOGLE_API_KEY"},
	}

	// Environment variables win over config file values
	if envVarNames, ok := keyToEnvMapping[name]; ok {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	if fallback != "" {
		return fallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment or config", name)
}
