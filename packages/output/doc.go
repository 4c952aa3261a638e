// Package output renders walked pages.
//
// Supported output formats:
//   - Console: Human-readable colored terminal output
//   - JSON: Machine-readable JSON document, written on Flush
//
// Both formatters implement Formatter.
package output
