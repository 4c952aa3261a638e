// Package config handles configuration loading and management for linkwalk.
//
// It provides functionality for:
//   - Loading configuration from .linkwalk.yaml or .linkwalk.json files
//   - Default configuration values
//   - .env files and LINKWALK_* environment overrides
package config
