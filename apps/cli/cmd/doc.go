// Package cmd implements the linkwalk CLI commands using Cobra.
//
// Available commands:
//   - walk: Fetch a URL and follow its Link rel="next" chain
//   - version: Show linkwalk version information
//
// Settings come from a config file, LINKWALK_* environment variables and
// flags, in increasing order of precedence.
package cmd
