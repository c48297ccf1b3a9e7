package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/cobra"

	"github.com/datetimeagg/dta/pkg/aggregator"
	"github.com/datetimeagg/dta/pkg/increment"
	"github.com/datetimeagg/dta/pkg/logging"
	"github.com/datetimeagg/dta/pkg/output"
	"github.com/datetimeagg/dta/pkg/pipeline"
	"github.com/datetimeagg/dta/pkg/timestamp"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// AggregateOptions holds the per-aggregator flags.
type AggregateOptions struct {
	Increment string
	Rounding  string

	Dir       string
	Template  string
	OpenFiles int

	Start      string
	End        string
	Invert     bool
	SpillLimit int
	SpillDir   string
}

var aggregateShort = map[aggregator.Kind]string{
	aggregator.KindMaximum:  "Print the record with the latest timestamp",
	aggregator.KindMinimum:  "Print the record with the earliest timestamp",
	aggregator.KindMaximums: "Print the latest record of each increment",
	aggregator.KindMinimums: "Print the earliest record of each increment",
	aggregator.KindCount:    "Count records",
	aggregator.KindCounts:   "Count records per increment",
	aggregator.KindSplit:    "Append records to files named by their timestamp",
	aggregator.KindRange:    "Print records inside (or outside) a time window",
}

// NewAggregateCommands creates one command per aggregator kind.
func NewAggregateCommands(g *GlobalOptions) []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(aggregator.Kinds()))
	for _, kind := range aggregator.Kinds() {
		cmds = append(cmds, NewAggregateCommand(kind, g))
	}
	return cmds
}

// NewAggregateCommand creates the command running the given aggregator.
func NewAggregateCommand(kind aggregator.Kind, g *GlobalOptions) *cobra.Command {
	opts := &AggregateOptions{}

	cmd := &cobra.Command{
		Use:   string(kind),
		Short: aggregateShort[kind],
		Long: aggregateShort[kind] + `.

Records are read from the --glob files, or standard input, one per line.
The timestamp is the whole line, a CSV column (--input csv --column N) or a
JSON field (--input json --field NAME). Lines whose timestamp cannot be
parsed are logged and skipped.

Exit codes:
  0 - At least one record was aggregated
  1 - No record was aggregated
  2 - Configuration or runtime error`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAggregate(cmd, kind, g, opts)
		},
	}

	flags := cmd.Flags()
	switch {
	case kind.Bucketed():
		flags.StringVarP(&opts.Increment, "increment", "n", "", "Bucket size: YYYY-MM-DD HH:MM:SS, YYYY-MM-DD or HH:MM:SS")
		flags.StringVar(&opts.Rounding, "rounding", "truncate", "Bucket rounding (truncate|nearest)")
		_ = cmd.MarkFlagRequired("increment")
	case kind == aggregator.KindSplit:
		flags.StringVarP(&opts.Dir, "dir", "d", ".", "Output directory")
		flags.StringVarP(&opts.Template, "template", "t", "", "File name template, e.g. %Y-%m-%d.log")
		flags.IntVar(&opts.OpenFiles, "open-files", aggregator.DefaultOpenFiles, "Maximum open output files")
		_ = cmd.MarkFlagRequired("template")
	case kind == aggregator.KindRange:
		flags.StringVar(&opts.Start, "start", "", "Window start (inclusive)")
		flags.StringVar(&opts.End, "end", "", "Window end (inclusive, default now)")
		flags.BoolVar(&opts.Invert, "invert", false, "Print records outside the window instead")
		flags.IntVar(&opts.SpillLimit, "spill-limit", aggregator.DefaultSpillLimit, "Bytes buffered in memory before spilling to disk")
		flags.StringVar(&opts.SpillDir, "spill-dir", "", "Directory for the spill file (default OS temp dir)")
		_ = cmd.MarkFlagRequired("start")
	}

	return cmd
}

func runAggregate(cmd *cobra.Command, kind aggregator.Kind, g *GlobalOptions, opts *AggregateOptions) error {
	ExitCode = 0
	ctx := commandContext(cmd)
	log := logging.FromContext(ctx)

	// Everything that can be misconfigured is checked before any input is read.
	norm, formatsFile, err := g.normalizer(ctx, log)
	if err != nil {
		return err
	}

	ex, err := g.extractor()
	if err != nil {
		return err
	}

	formatter, err := output.NewFormatter(g.Output, output.FormatOptions{
		Verbose: g.Verbose,
		Quiet:   g.Quiet,
	})
	if err != nil {
		return err
	}

	cfg, err := opts.aggregatorConfig(kind, norm.Location())
	if err != nil {
		return err
	}
	cfg.Sink = cmd.OutOrStdout()
	cfg.Fs = storage
	cfg.Logger = log

	var pipeOpts []pipeline.Option
	if g.Transform != "" {
		pipeOpts = append(pipeOpts, pipeline.WithTransform(g.Transform))
	}
	p, err := pipeline.New(ex, norm, pipeOpts...)
	if err != nil {
		return err
	}

	agg, err := aggregator.New(cfg)
	if err != nil {
		return fmt.Errorf("creating %s aggregator: %w", kind, err)
	}

	src, sources, err := g.source(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	result, err := p.Run(ctx, src, agg)
	if err != nil {
		return err
	}

	meta := output.Metadata{Sources: sources, FormatsFile: formatsFile}
	if kind.Bucketed() {
		meta.Increment = cfg.Increment.String()
	}
	report := output.NewReport(result, meta)

	// Range streams its records to stdout, so its report goes to stderr.
	var w io.Writer = cmd.OutOrStdout()
	if kind == aggregator.KindRange {
		w = cmd.ErrOrStderr()
	}
	if err := formatter.Format(ctx, report, w); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if report.Empty {
		ExitCode = 1
	}
	return nil
}

// aggregatorConfig validates the kind-specific flags. loc is the timezone
// for range bounds without an offset.
func (o *AggregateOptions) aggregatorConfig(kind aggregator.Kind, loc *time.Location) (aggregator.Config, error) {
	cfg := aggregator.Config{Kind: kind}

	switch {
	case kind.Bucketed():
		inc, err := increment.Parse(o.Increment)
		if err != nil {
			return cfg, err
		}
		rounding, err := increment.ParseRounding(o.Rounding)
		if err != nil {
			return cfg, err
		}
		cfg.Increment = inc
		cfg.Rounding = rounding

	case kind == aggregator.KindSplit:
		if o.Template == "" {
			return cfg, fmt.Errorf("split requires --template")
		}
		cfg.Dir = o.Dir
		cfg.Template = timestamp.NewPattern(o.Template)
		cfg.OpenFiles = o.OpenFiles

	case kind == aggregator.KindRange:
		start, err := parseBound("--start", o.Start, loc)
		if err != nil {
			return cfg, err
		}
		end := time.Now().In(loc)
		if o.End != "" {
			if end, err = parseBound("--end", o.End, loc); err != nil {
				return cfg, err
			}
		}
		cfg.Start = start
		cfg.End = end
		cfg.Inverted = o.Invert
		cfg.SpillLimit = o.SpillLimit
		cfg.SpillDir = o.SpillDir
	}

	return cfg, nil
}

func parseBound(flag, value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("%s is required", flag)
	}
	t, err := dateparse.ParseIn(value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: %w", flag, value, err)
	}
	return t, nil
}
