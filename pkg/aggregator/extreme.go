package aggregator

import (
	"context"
	"sort"
	"time"

	"github.com/datetimeagg/dta/pkg/increment"
	"github.com/datetimeagg/dta/pkg/record"
)

// replaces reports whether candidate should replace the stored extreme.
type replaces func(candidate, stored time.Time) bool

// laterThan is strict, so a maximum keeps the earliest of equal records.
func laterThan(candidate, stored time.Time) bool {
	return candidate.After(stored)
}

// notLaterThan accepts ties, so a minimum keeps the latest of equal records.
func notLaterThan(candidate, stored time.Time) bool {
	return !candidate.After(stored)
}

// Extreme tracks a single maximum or minimum record.
type Extreme struct {
	kind    Kind
	better  replaces
	current *record.Record
}

// NewMaximum creates the global maximum aggregator. Ties keep the
// earliest-arriving record.
func NewMaximum() *Extreme {
	return &Extreme{kind: KindMaximum, better: laterThan}
}

// NewMinimum creates the global minimum aggregator. Ties keep the
// latest-arriving record.
func NewMinimum() *Extreme {
	return &Extreme{kind: KindMinimum, better: notLaterThan}
}

// Kind returns the aggregator kind.
func (e *Extreme) Kind() Kind {
	return e.kind
}

// Update replaces the stored record when rec is more extreme.
func (e *Extreme) Update(_ context.Context, rec record.Record) error {
	if e.current == nil || e.better(rec.Timestamp, e.current.Timestamp) {
		kept := rec.Clone()
		e.current = &kept
	}
	return nil
}

// Finalize returns the stored record, or an empty result.
func (e *Extreme) Finalize(_ context.Context) (*Result, error) {
	return &Result{Kind: e.kind, Record: e.current}, nil
}

// BucketedExtreme tracks a maximum or minimum per increment bucket.
type BucketedExtreme struct {
	kind     Kind
	better   replaces
	inc      increment.Increment
	rounding increment.Rounding
	buckets  map[int64]record.Record
}

// NewMaximums creates the per-bucket maximum aggregator.
func NewMaximums(inc increment.Increment, rounding increment.Rounding) *BucketedExtreme {
	return newBucketedExtreme(KindMaximums, laterThan, inc, rounding)
}

// NewMinimums creates the per-bucket minimum aggregator.
func NewMinimums(inc increment.Increment, rounding increment.Rounding) *BucketedExtreme {
	return newBucketedExtreme(KindMinimums, notLaterThan, inc, rounding)
}

func newBucketedExtreme(kind Kind, better replaces, inc increment.Increment, rounding increment.Rounding) *BucketedExtreme {
	return &BucketedExtreme{
		kind:     kind,
		better:   better,
		inc:      inc,
		rounding: rounding,
		buckets:  make(map[int64]record.Record),
	}
}

// Kind returns the aggregator kind.
func (b *BucketedExtreme) Kind() Kind {
	return b.kind
}

// Update replaces the bucket's record when rec is more extreme.
func (b *BucketedExtreme) Update(_ context.Context, rec record.Record) error {
	key := b.inc.Bucket(rec.Timestamp, b.rounding).Unix()
	stored, ok := b.buckets[key]
	if !ok || b.better(rec.Timestamp, stored.Timestamp) {
		b.buckets[key] = rec.Clone()
	}
	return nil
}

// Finalize returns every bucket ordered by key.
func (b *BucketedExtreme) Finalize(_ context.Context) (*Result, error) {
	keys := sortedKeys(b.buckets)
	buckets := make([]Bucket, 0, len(keys))
	for _, k := range keys {
		rec := b.buckets[k]
		buckets = append(buckets, Bucket{Key: time.Unix(k, 0).UTC(), Record: &rec})
	}
	return &Result{Kind: b.kind, Buckets: buckets}, nil
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
