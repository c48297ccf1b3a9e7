// Package aggregator implements the fold operations applied to a stream of
// normalized records: extremes, counts, fan-out to files and range filtering.
package aggregator

import (
	"fmt"
	"time"

	"github.com/datetimeagg/dta/pkg/record"
)

// Kind enumerates the supported aggregators.
type Kind string

const (
	KindMaximum  Kind = "max"
	KindMinimum  Kind = "min"
	KindMaximums Kind = "maxs"
	KindMinimums Kind = "mins"
	KindCount    Kind = "count"
	KindCounts   Kind = "counts"
	KindSplit    Kind = "split"
	KindRange    Kind = "range"
)

// Kinds lists every aggregator kind in display order.
func Kinds() []Kind {
	return []Kind{
		KindMaximum, KindMinimum, KindMaximums, KindMinimums,
		KindCount, KindCounts, KindSplit, KindRange,
	}
}

// ParseKind converts a name into a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown aggregator: %q", s)
}

// Bucketed reports whether the kind groups records by increment.
func (k Kind) Bucketed() bool {
	return k == KindMaximums || k == KindMinimums || k == KindCounts
}

// Result is the finalized output of an aggregator. Which fields are set
// depends on Kind.
type Result struct {
	// Kind identifies the aggregator that produced the result.
	Kind Kind

	// Record is the extreme record for max and min. Nil when no record arrived.
	Record *record.Record

	// Count is the total for count.
	Count int64

	// Buckets holds per-increment results for maxs, mins and counts,
	// ordered by key.
	Buckets []Bucket

	// Targets lists the distinct split targets written, sorted.
	Targets []string

	// Matched is the number of records that passed the range filter.
	Matched int64

	// Spilled reports whether the range buffer overflowed to disk.
	Spilled bool
}

// Empty reports whether the aggregator saw no qualifying records.
func (r *Result) Empty() bool {
	switch r.Kind {
	case KindMaximum, KindMinimum:
		return r.Record == nil
	case KindCount:
		return r.Count == 0
	case KindMaximums, KindMinimums, KindCounts:
		return len(r.Buckets) == 0
	case KindSplit:
		return len(r.Targets) == 0
	case KindRange:
		return r.Matched == 0
	default:
		return true
	}
}

// Bucket is one increment-aligned group.
type Bucket struct {
	// Key is the bucket boundary in UTC.
	Key time.Time

	// Record is the bucket's extreme record (maxs, mins).
	Record *record.Record

	// Count is the number of records in the bucket (counts).
	Count int64
}
