package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/datetimeagg/dta/pkg/config"
	"github.com/datetimeagg/dta/pkg/detector"
	"github.com/datetimeagg/dta/pkg/source"
	"github.com/datetimeagg/dta/pkg/timestamp"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	SampleSize    int
	ShowAll       bool
	MinConfidence float64
	Write         string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand(g *GlobalOptions) *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <file>",
		Short: "Detect timestamp formats in a file",
		Long: `Sample a file and report which built-in timestamp formats its records match.

The timestamp of each sampled line is selected the same way as for the
aggregator commands (--input, --column, --field). Zone-less samples are
read in --tz.

With --write, the matching formats are saved as a format dictionary that
can be passed to --formats.

Example:
  dta detect /var/log/app.log
  dta detect --input json --field ts --all events.jsonl
  dta detect --write formats.yml /var/log/app.log`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args[0], g, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "s", 100, "Number of lines to sample")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "Show all detected formats, not just the best match")
	cmd.Flags().Float64Var(&opts.MinConfidence, "min-confidence", 0.5, "Lowest confidence included by --write")
	cmd.Flags().StringVarP(&opts.Write, "write", "w", "", "Write a format dictionary to file (will not overwrite)")

	return cmd
}

func runDetect(cmd *cobra.Command, file string, g *GlobalOptions, opts *DetectOptions) error {
	ctx := commandContext(cmd)

	if _, err := storage.Stat(file); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", file)
	}

	loc, err := timestamp.ResolveLocationOrUTC(g.TZ)
	if err != nil {
		return fmt.Errorf("--tz: %w", err)
	}
	ex, err := g.extractor()
	if err != nil {
		return err
	}

	src := source.NewFileSource(storage, []string{file})
	defer func() { _ = src.Close() }()

	d := detector.New(detector.WithSampleSize(opts.SampleSize), detector.WithLocation(loc))
	result, err := d.Detect(ctx, src, ex)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	w := cmd.OutOrStdout()
	if opts.Write != "" {
		if err := writeFormats(result, opts, w); err != nil {
			return err
		}
	}

	switch g.Output {
	case "json":
		return outputDetectJSON(result, file, opts, w)
	default:
		return outputDetectText(result, file, opts, w)
	}
}

func outputDetectText(result *detector.DetectionResult, file string, opts *DetectOptions, w io.Writer) error {
	p := func(format string, a ...any) { _, _ = fmt.Fprintf(w, format, a...) }

	p("=== Timestamp Format Detection ===\n\n")
	p("File: %s\n", file)
	p("Lines sampled: %d\n", result.SampledLines)
	p("Lines with timestamps: %d\n\n", result.ParsedLines)

	if !result.HasMatch() {
		p("No timestamp format detected.\n\n")
		p("Tip: pass the format explicitly with --format, or check --input and --field.\n")
		return nil
	}

	best := result.BestMatch()
	p("Detected Format: %s\n", best.Format.Name)
	p("Confidence: %.1f%% (%d/%d lines matched)\n\n", best.Confidence*100, best.MatchCount, result.SampledLines)
	p("Sample match:\n  %s\n", best.SampleLine)
	p("Parsed as: %s\n\n", best.ParsedTime.Format("2006-01-02 15:04:05 -07:00"))

	if best.Format.Ambiguous {
		p("WARNING: This format has date ordering ambiguity (MM/DD vs DD/MM).\n")
		p("Please verify the format matches your data.\n\n")
	}
	if result.AmbiguityNote != "" {
		p("Note: %s\n\n", result.AmbiguityNote)
	}

	p("--- Format (use with --format) ---\n\n")
	p("  %s\n\n", best.Format.Pattern)

	if opts.ShowAll && len(result.Matches) > 1 {
		p("--- Alternative formats detected ---\n")
		for i, m := range result.Matches[1:] {
			p("%d. %s (%.1f%% confidence)\n", i+2, m.Format.Name, m.Confidence*100)
			p("   fmt: %s\n", m.Format.Pattern)
		}
		p("\n")
	}

	return nil
}

// JSONMatch represents a format match in JSON output.
type JSONMatch struct {
	Name       string  `json:"name"`
	Fmt        string  `json:"fmt"`
	Confidence float64 `json:"confidence"`
	MatchCount int     `json:"match_count"`
	SampleLine string  `json:"sample_line"`
	Ambiguous  bool    `json:"ambiguous,omitempty"`
}

// JSONOutput represents the full JSON output.
type JSONOutput struct {
	File          string      `json:"file"`
	Matches       []JSONMatch `json:"matches"`
	SampledLines  int         `json:"sampled_lines"`
	ParsedLines   int         `json:"parsed_lines"`
	AmbiguityNote string      `json:"ambiguity_note,omitempty"`
}

func outputDetectJSON(result *detector.DetectionResult, file string, opts *DetectOptions, w io.Writer) error {
	out := JSONOutput{
		File:          file,
		SampledLines:  result.SampledLines,
		ParsedLines:   result.ParsedLines,
		AmbiguityNote: result.AmbiguityNote,
		Matches:       make([]JSONMatch, 0),
	}

	matches := result.Matches
	if !opts.ShowAll && len(matches) > 1 {
		matches = matches[:1]
	}

	for _, m := range matches {
		out.Matches = append(out.Matches, JSONMatch{
			Name:       m.Format.Name,
			Fmt:        m.Format.Pattern.String(),
			Confidence: m.Confidence,
			MatchCount: m.MatchCount,
			SampleLine: m.SampleLine,
			Ambiguous:  m.Format.Ambiguous,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// writeFormats saves the matches as a dictionary document.
func writeFormats(result *detector.DetectionResult, opts *DetectOptions, w io.Writer) error {
	if exists, _ := afero.Exists(storage, opts.Write); exists {
		return fmt.Errorf("formats file already exists: %s (will not overwrite)", opts.Write)
	}

	formats := result.Formats(opts.MinConfidence)
	if len(formats.Entries) == 0 {
		return fmt.Errorf("cannot write formats: no timestamp format detected with confidence >= %.2f", opts.MinConfidence)
	}

	data, err := config.Marshal(formats)
	if err != nil {
		return err
	}

	// #nosec G306 - formats file doesn't need restrictive permissions
	if err := afero.WriteFile(storage, opts.Write, data, 0o644); err != nil {
		return fmt.Errorf("failed to write formats file: %w", err)
	}

	_, _ = fmt.Fprintf(w, "Wrote %d format(s) to: %s\n\n", len(formats.Entries), opts.Write)
	return nil
}
