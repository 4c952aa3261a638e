package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "linkwalk",
		Short: "Follow Link rel=\"next\" pagination from the command line.",
		Long: `linkwalk fetches a URL and keeps following the Link: <url>; rel="next"
header of every response, printing each page as it arrives. Every request is
timed and logged; pages can be validated against a JSON Schema and archived
to SQLite.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newWalkCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitUsageError
}
