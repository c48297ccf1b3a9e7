// Package cli provides the command-line interface for dta.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/datetimeagg/dta/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	rootCmd := NewRootCommand()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		// SilenceErrors prevents Cobra from printing this
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dta",
		Short: "Aggregate records by their timestamps",
		Long: `dta reads line-oriented records, finds the timestamp in each one and
aggregates the records by time.

Timestamps may be the whole line, a CSV column or a JSON field, in almost any
format: ISO 8601, RFC 2822, epoch seconds or milliseconds, an explicit
--format, or a --formats dictionary of named patterns.

Aggregators:
  max, min      latest or earliest record
  maxs, mins    latest or earliest record per increment
  count, counts number of records, overall or per increment
  split         append records to files named by their timestamp
  range         records inside (or outside) a time window

Every flag can also be set from the environment as DTA_<FLAG>, e.g.
DTA_TZ=+02:00 or DTA_FORMATS=/etc/dta/formats.yml.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	commands.Register(rootCmd)

	return rootCmd
}
