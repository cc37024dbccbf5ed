package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables that override file configuration.
const (
	EnvOMDbAPIKey   = "OMDB_API_KEY"
	EnvDatabasePath = "MOVIEDB_DB_PATH"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Fetch       FetchConfig       `toml:"fetch"`
	Site        SiteConfig        `toml:"site"`
	Server      ServerConfig      `toml:"server"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	OMDb OMDbConfig `toml:"omdb"`
}

// OMDbConfig contains OMDb API settings.
type OMDbConfig struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the configured request timeout, defaulting to 10 seconds.
func (c OMDbConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// FetchConfig contains enrichment settings.
type FetchConfig struct {
	RateLimit float64 `toml:"rate_limit"`
}

// SiteConfig contains static site generation defaults.
type SiteConfig struct {
	Template string `toml:"template"`
	Output   string `toml:"output"`
	Title    string `toml:"title"`
}

// ServerConfig contains preview server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the host:port the preview server listens on.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
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
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnvFile loads variables from a dotenv file into the process environment.
//
// A missing file is not an error. Variables already set in the environment win.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides configuration values with environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := strings.TrimSpace(getenv(EnvOMDbAPIKey)); v != "" {
		c.Credentials.OMDb.APIKey = v
	}
	if v := strings.TrimSpace(getenv(EnvDatabasePath)); v != "" {
		c.Database.Path = v
	}
}

// Validate checks settings that would otherwise fail later in confusing ways.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("%w: database.path is required", ErrInvalidConfig)
	}
	if c.Fetch.RateLimit < 0 {
		return fmt.Errorf("%w: fetch.rate_limit must not be negative", ErrInvalidConfig)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port out of range", ErrInvalidConfig)
	}
	return nil
}
