package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// HeaderEntry is one default request header. A list keeps order and allows
// repeated names.
type HeaderEntry struct {
	Name  string `yaml:"name" json:"name"`
	Value string `yaml:"value" json:"value"`
}

// Config represents the linkwalk configuration
type Config struct {
	Timeout         int           `yaml:"timeout,omitempty" json:"timeout,omitempty"` // milliseconds
	FollowRedirects *bool         `yaml:"followRedirects,omitempty" json:"followRedirects,omitempty"`
	MaxRedirects    int           `yaml:"maxRedirects,omitempty" json:"maxRedirects,omitempty"`
	ValidateSSL     *bool         `yaml:"validateSSL,omitempty" json:"validateSSL,omitempty"`
	Proxy           string        `yaml:"proxy,omitempty" json:"proxy,omitempty"`
	Headers         []HeaderEntry `yaml:"headers,omitempty" json:"headers,omitempty"`
	MaxPages        int           `yaml:"maxPages,omitempty" json:"maxPages,omitempty"` // 0 follows every link
	Rate            float64       `yaml:"rate,omitempty" json:"rate,omitempty"`         // requests per second, 0 is unlimited
	RequestIDHeader string        `yaml:"requestIdHeader,omitempty" json:"requestIdHeader,omitempty"`
	LogLevel        string        `yaml:"logLevel,omitempty" json:"logLevel,omitempty"`
	LogFormat       string        `yaml:"logFormat,omitempty" json:"logFormat,omitempty"`
	Archive         string        `yaml:"archive,omitempty" json:"archive,omitempty"` // sqlite connection string
	Verbose         *bool         `yaml:"verbose,omitempty" json:"verbose,omitempty"`
	NoColor         *bool         `yaml:"noColor,omitempty" json:"noColor,omitempty"`
}

// BoolPtr returns a pointer to b
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetFollowRedirects returns the follow redirects setting, defaulting to true
func (c *Config) GetFollowRedirects() bool {
	return getBool(c.FollowRedirects, true)
}

// GetValidateSSL returns the validate SSL setting, defaulting to true
func (c *Config) GetValidateSSL() bool {
	return getBool(c.ValidateSSL, true)
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// ConfigFilenames contains the possible config file names, in lookup order
var ConfigFilenames = []string{
	".linkwalk.yaml",
	"linkwalk.yaml",
	".linkwalk.json",
	"linkwalk.json",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	return DefaultConfig(), nil
}

// loadConfigFromFile decodes path over the defaults. JSON is valid YAML, so
// one decoder serves both formats.
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return config, nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c

	if other.Timeout > 0 {
		result.Timeout = other.Timeout
	}
	if other.MaxRedirects > 0 {
		result.MaxRedirects = other.MaxRedirects
	}
	if other.Proxy != "" {
		result.Proxy = other.Proxy
	}
	if other.MaxPages > 0 {
		result.MaxPages = other.MaxPages
	}
	if other.Rate > 0 {
		result.Rate = other.Rate
	}
	if other.RequestIDHeader != "" {
		result.RequestIDHeader = other.RequestIDHeader
	}
	if other.LogLevel != "" {
		result.LogLevel = other.LogLevel
	}
	if other.LogFormat != "" {
		result.LogFormat = other.LogFormat
	}
	if other.Archive != "" {
		result.Archive = other.Archive
	}

	// Boolean flags - only override if explicitly set in other config
	if other.FollowRedirects != nil {
		result.FollowRedirects = other.FollowRedirects
	}
	if other.ValidateSSL != nil {
		result.ValidateSSL = other.ValidateSSL
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	// Headers accumulate; other's come last
	if len(other.Headers) > 0 {
		headers := make([]HeaderEntry, 0, len(c.Headers)+len(other.Headers))
		headers = append(headers, c.Headers...)
		result.Headers = append(headers, other.Headers...)
	}

	return &result
}

// SaveConfig writes the configuration as YAML
func (c *Config) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
