package config

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Timeout:         30000, // 30 seconds
		FollowRedirects: BoolPtr(true),
		MaxRedirects:    10,
		ValidateSSL:     BoolPtr(true),
		MaxPages:        0,
		Rate:            0,
		LogLevel:        "info",
		LogFormat:       "text",
		Verbose:         BoolPtr(false),
		NoColor:         BoolPtr(false),
	}
}
