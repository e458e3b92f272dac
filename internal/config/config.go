// ABOUTME: Configuration loading for the Sentinel client binaries
// ABOUTME: YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when the config file is absent or leaves fields unset.
const (
	DefaultBaseURL = "http://127.0.0.1:8000"
	DefaultTimeout = 30 * time.Second
)

// Config is the complete client configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds backend connection settings.
type ServerConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"-"`

	// Raw string value for YAML unmarshaling
	TimeoutRaw string `yaml:"timeout"`
}

// DatabaseConfig holds the local history database location.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads the configuration from the first of: SENTINEL_CONFIG,
// ./sentinel.yaml, ~/.config/sentinel/config.yaml. A missing file is not an
// error; defaults apply. SENTINEL_SERVER overrides server.base_url.
func Load() (*Config, error) {
	for _, path := range candidatePaths() {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return LoadFromPath(path)
	}

	cfg := &Config{}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadFromPath reads and parses a specific configuration file. Environment
// variables in the format ${VAR_NAME} are expanded.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if cfg.Server.TimeoutRaw != "" {
		cfg.Server.Timeout, err = time.ParseDuration(cfg.Server.TimeoutRaw)
		if err != nil {
			return nil, fmt.Errorf("parsing server.timeout %q: %w", cfg.Server.TimeoutRaw, err)
		}
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func candidatePaths() []string {
	paths := []string{os.Getenv("SENTINEL_CONFIG"), "sentinel.yaml"}
	if dir, err := ConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "config.yaml"))
	}
	return paths
}

// ConfigDir returns ~/.config/sentinel, honoring XDG_CONFIG_HOME.
func ConfigDir() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "sentinel"), nil
}

func (c *Config) applyDefaults() {
	if server := os.Getenv("SENTINEL_SERVER"); server != "" {
		c.Server.BaseURL = server
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = DefaultBaseURL
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = DefaultTimeout
	}
	if c.Database.Path == "" {
		if dir, err := ConfigDir(); err == nil {
			c.Database.Path = filepath.Join(dir, "history.db")
		}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding
// environment variable values. Unset variables become empty strings.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}
