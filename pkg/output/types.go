// Package output provides formatting and output generation for aggregation results.
package output

import (
	"time"

	"github.com/datetimeagg/dta/pkg/aggregator"
	"github.com/datetimeagg/dta/pkg/pipeline"
	"github.com/datetimeagg/dta/pkg/record"
)

// Report is the complete aggregation output.
type Report struct {
	// Kind is the aggregator that produced the report.
	Kind string `json:"kind"`

	// Empty is true when no record was aggregated.
	Empty bool `json:"empty"`

	// Record is the extreme record (max, min).
	Record *Record `json:"record,omitempty"`

	// Count is the total (count).
	Count *int64 `json:"count,omitempty"`

	// Buckets are the per-increment results (maxs, mins, counts).
	Buckets []Bucket `json:"buckets,omitempty"`

	// Targets are the files written (split).
	Targets []string `json:"targets,omitempty"`

	// Matched is the number of records in range (range).
	Matched *int64 `json:"matched,omitempty"`

	// Spilled reports an overflow file was used (range).
	Spilled bool `json:"spilled,omitempty"`

	// Summary provides run statistics.
	Summary Summary `json:"summary"`

	// Metadata provides context about the run.
	Metadata Metadata `json:"metadata"`
}

// Record is a rendered record.
type Record struct {
	Timestamp time.Time `json:"timestamp"`
	Raw       string    `json:"raw"`
}

// Bucket is a rendered increment bucket.
type Bucket struct {
	Key    time.Time `json:"bucket"`
	Record *Record   `json:"record,omitempty"`
	Count  *int64    `json:"count,omitempty"`
}

// Summary provides run statistics.
type Summary struct {
	// LinesRead is the number of non-blank input lines.
	LinesRead int `json:"lines_read"`

	// Aggregated is the number of records passed to the aggregator.
	Aggregated int `json:"aggregated"`

	// Skipped is the number of lines dropped for extract or parse errors.
	Skipped int `json:"skipped"`
}

// Metadata provides context about the run.
type Metadata struct {
	// Sources lists the input files, or "-" for standard input.
	Sources []string `json:"sources"`

	// Increment is the bucketing increment, if any.
	Increment string `json:"increment,omitempty"`

	// FormatsFile is the dictionary document used, if any.
	FormatsFile string `json:"formats_file,omitempty"`

	// AggregatedAt is when the run completed.
	AggregatedAt time.Time `json:"aggregated_at"`

	// Duration is how long the run took.
	Duration time.Duration `json:"duration_ns"`
}

// NewReport creates a Report from a pipeline result. meta supplies the
// run context; its timing fields are filled from the result.
func NewReport(result *pipeline.Result, meta Metadata) *Report {
	agg := result.Aggregate
	stats := result.Stats

	meta.AggregatedAt = stats.EndTime
	meta.Duration = stats.EndTime.Sub(stats.StartTime)

	report := &Report{
		Kind:  string(agg.Kind),
		Empty: agg.Empty(),
		Summary: Summary{
			LinesRead:  stats.LinesRead,
			Aggregated: stats.Aggregated,
			Skipped:    stats.Skipped,
		},
		Metadata: meta,
	}

	switch agg.Kind {
	case aggregator.KindMaximum, aggregator.KindMinimum:
		report.Record = newRecord(agg.Record)
	case aggregator.KindCount:
		report.Count = int64Ptr(agg.Count)
	case aggregator.KindMaximums, aggregator.KindMinimums:
		for _, b := range agg.Buckets {
			report.Buckets = append(report.Buckets, Bucket{Key: b.Key, Record: newRecord(b.Record)})
		}
	case aggregator.KindCounts:
		for _, b := range agg.Buckets {
			report.Buckets = append(report.Buckets, Bucket{Key: b.Key, Count: int64Ptr(b.Count)})
		}
	case aggregator.KindSplit:
		report.Targets = agg.Targets
	case aggregator.KindRange:
		report.Matched = int64Ptr(agg.Matched)
		report.Spilled = agg.Spilled
	}

	return report
}

func newRecord(r *record.Record) *Record {
	if r == nil {
		return nil
	}
	return &Record{Timestamp: r.Timestamp, Raw: r.String()}
}

func int64Ptr(n int64) *int64 {
	return &n
}
