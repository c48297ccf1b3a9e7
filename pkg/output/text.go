package output

import (
	"context"
	"fmt"
	"io"
	"time"
)

// TextFormatter formats reports as plain text, one result per line.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(_ context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatSummary(report, w)
	}
	if err := f.formatResult(report, w); err != nil {
		return err
	}
	if f.opts.Verbose {
		fmt.Fprintln(w, "---")
		if err := f.formatSummary(report, w); err != nil {
			return err
		}
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(time.Millisecond))
	}
	return nil
}

func (f *TextFormatter) formatSummary(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s: %d lines read, %d aggregated, %d skipped\n",
		report.Kind,
		report.Summary.LinesRead,
		report.Summary.Aggregated,
		report.Summary.Skipped)
	return err
}

func (f *TextFormatter) formatResult(report *Report, w io.Writer) error {
	var err error
	switch {
	case report.Record != nil:
		_, err = fmt.Fprintln(w, report.Record.Raw)
	case report.Count != nil:
		_, err = fmt.Fprintln(w, *report.Count)
	case len(report.Buckets) > 0:
		for _, b := range report.Buckets {
			if err = f.formatBucket(b, w); err != nil {
				return err
			}
		}
	case len(report.Targets) > 0:
		_, err = fmt.Fprintf(w, "Wrote %d file(s):\n", len(report.Targets))
		for _, t := range report.Targets {
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(w, "  %s\n", t)
		}
	case report.Matched != nil:
		// Matched records were already streamed; only verbose output
		// describes the range run.
		if f.opts.Verbose {
			_, err = fmt.Fprintf(w, "Matched %d record(s), spilled: %t\n", *report.Matched, report.Spilled)
		}
	case report.Empty:
		_, err = fmt.Fprintln(w, "no data")
	}
	return err
}

func (f *TextFormatter) formatBucket(b Bucket, w io.Writer) error {
	key := b.Key.UTC().Format(time.RFC3339)
	var err error
	switch {
	case b.Count != nil:
		_, err = fmt.Fprintf(w, "%s\t%d\n", key, *b.Count)
	case b.Record != nil:
		_, err = fmt.Fprintf(w, "%s\t%s\n", key, b.Record.Raw)
	}
	return err
}
