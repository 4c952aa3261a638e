package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "LINKWALK_"

// LoadDotEnv exports the variables of a .env file into the process
// environment. Variables that are already set win. A missing file is not an
// error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides file values with LINKWALK_* variables read through
// lookup (os.LookupEnv in production).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) (*Config, error) {
	result := *c

	if v, ok := lookup(EnvPrefix + "TIMEOUT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%sTIMEOUT: %w", EnvPrefix, err)
		}
		result.Timeout = n
	}
	if v, ok := lookup(EnvPrefix + "MAX_PAGES"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%sMAX_PAGES: %w", EnvPrefix, err)
		}
		result.MaxPages = n
	}
	if v, ok := lookup(EnvPrefix + "RATE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("%sRATE: %w", EnvPrefix, err)
		}
		result.Rate = f
	}
	if v, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok {
		result.LogLevel = v
	}
	if v, ok := lookup(EnvPrefix + "PROXY"); ok {
		result.Proxy = v
	}

	return &result, nil
}

// ExpandHeaders resolves ${VAR} references in header values.
func (c *Config) ExpandHeaders(getenv func(string) string) []HeaderEntry {
	if len(c.Headers) == 0 {
		return nil
	}
	out := make([]HeaderEntry, len(c.Headers))
	for i, h := range c.Headers {
		out[i] = HeaderEntry{Name: h.Name, Value: os.Expand(h.Value, getenv)}
	}
	return out
}
