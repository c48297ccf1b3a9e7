package aggregator

import (
	"context"
	"time"

	"github.com/datetimeagg/dta/pkg/increment"
	"github.com/datetimeagg/dta/pkg/record"
)

// Count counts every record.
type Count struct {
	n int64
}

// NewCount creates the global counter.
func NewCount() *Count {
	return &Count{}
}

// Kind returns the aggregator kind.
func (c *Count) Kind() Kind {
	return KindCount
}

// Update increments the counter.
func (c *Count) Update(_ context.Context, _ record.Record) error {
	c.n++
	return nil
}

// Finalize returns the total.
func (c *Count) Finalize(_ context.Context) (*Result, error) {
	return &Result{Kind: KindCount, Count: c.n}, nil
}

// Counts counts records per increment bucket.
type Counts struct {
	inc      increment.Increment
	rounding increment.Rounding
	buckets  map[int64]int64
}

// NewCounts creates the per-bucket counter.
func NewCounts(inc increment.Increment, rounding increment.Rounding) *Counts {
	return &Counts{
		inc:      inc,
		rounding: rounding,
		buckets:  make(map[int64]int64),
	}
}

// Kind returns the aggregator kind.
func (c *Counts) Kind() Kind {
	return KindCounts
}

// Update increments the record's bucket.
func (c *Counts) Update(_ context.Context, rec record.Record) error {
	c.buckets[c.inc.Bucket(rec.Timestamp, c.rounding).Unix()]++
	return nil
}

// Finalize returns every bucket ordered by key.
func (c *Counts) Finalize(_ context.Context) (*Result, error) {
	keys := sortedKeys(c.buckets)
	buckets := make([]Bucket, 0, len(keys))
	for _, k := range keys {
		buckets = append(buckets, Bucket{Key: time.Unix(k, 0).UTC(), Count: c.buckets[k]})
	}
	return &Result{Kind: KindCounts, Buckets: buckets}, nil
}
