package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datetimeagg/dta/pkg/config"
	"github.com/datetimeagg/dta/pkg/increment"
	"github.com/datetimeagg/dta/pkg/logging"
	"github.com/datetimeagg/dta/pkg/timestamp"
)

// ValidateOptions holds command-line options for the validate command.
type ValidateOptions struct {
	Increment string
	Try       []string
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(g *GlobalOptions) *cobra.Command {
	opts := &ValidateOptions{}

	cmd := &cobra.Command{
		Use:   "validate [formats-file]",
		Short: "Validate a format dictionary",
		Long: `Validate a format dictionary document without reading any input.

The file defaults to --formats, then $DTA_FORMATS.

Checks:
  - YAML syntax
  - Every entry has a non-empty fmt containing date or time directives
  - Entry names are unique

--increment also checks an increment expression, and --try parses sample
timestamps through the dictionary in order, showing which entry matched.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := g.Formats
			if len(args) == 1 {
				path = args[0]
			}
			return runValidate(cmd, config.ResolvePath(path), g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Increment, "increment", "n", "", "Also validate an increment expression")
	cmd.Flags().StringArrayVar(&opts.Try, "try", nil, "Parse a sample timestamp through the dictionary (can be repeated)")

	return cmd
}

func runValidate(cmd *cobra.Command, path string, g *GlobalOptions, opts *ValidateOptions) error {
	ctx := commandContext(cmd)
	w := cmd.OutOrStdout()
	p := func(format string, a ...any) { _, _ = fmt.Fprintf(w, format, a...) }

	if path == "" {
		return fmt.Errorf("no formats file given (pass one, or set --formats or %s)", config.EnvFormats)
	}

	p("Validating %s...\n", path)

	formats, err := config.Load(ctx, path)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	p("\nFormats valid!\n")
	p("  Entries: %d\n", len(formats.Entries))

	p("\nEntries (scan order):\n")
	for i, e := range formats.Entries {
		p("  %d. %s: %s\n", i+1, e.Name, e.Fmt)
		if e.Description != "" {
			p("     %s\n", e.Description)
		}
	}

	if opts.Increment != "" {
		inc, err := increment.Parse(opts.Increment)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		p("\nIncrement: %s (%d seconds)\n", inc, inc.TotalSeconds())
	}

	if len(opts.Try) == 0 {
		return nil
	}

	loc, err := timestamp.ResolveLocationOrUTC(g.TZ)
	if err != nil {
		return fmt.Errorf("--tz: %w", err)
	}

	var matched string
	dict, err := formats.Dictionary(
		timestamp.WithDictionaryLogger(logging.FromContext(ctx)),
		timestamp.WithAttemptHook(func(name string) { matched = name }),
	)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	p("\nSamples:\n")
	failed := 0
	for _, s := range opts.Try {
		t, err := dict.Parse(s, loc)
		if err != nil {
			failed++
			p("  %q: no match\n", s)
			continue
		}
		p("  %q: %s -> %s\n", s, matched, t.Format("2006-01-02T15:04:05.999999999Z07:00"))
	}

	if failed > 0 {
		ExitCode = 1
	}
	return nil
}
