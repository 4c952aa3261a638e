package cmd

import "fmt"

// Exit codes for linkwalk CLI
const (
	// ExitSuccess indicates every page was fetched and valid
	ExitSuccess = 0

	// ExitValidationFailure indicates one or more pages failed schema validation
	ExitValidationFailure = 1

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitNetworkError indicates a network/connection error
	ExitNetworkError = 4

	// ExitArchiveError indicates a fetched page could not be archived
	ExitArchiveError = 5

	// ExitOutputError indicates the report could not be written
	ExitOutputError = 6

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

// exitError carries the process exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func withExitCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

func withExitCodef(code int, format string, args ...any) error {
	return &exitError{code: code, err: fmt.Errorf(format, args...)}
}
