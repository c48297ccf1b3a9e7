package aggregator

import (
	"context"

	"github.com/datetimeagg/dta/pkg/record"
)

// Aggregator consumes normalized records and produces a single result.
// Each kind (max, counts, split, ...) implements this interface.
// Implementations are not safe for concurrent use.
type Aggregator interface {
	// Kind returns the aggregator kind for reporting.
	Kind() Kind

	// Update folds one record into the aggregator state.
	// Only storage-backed kinds return errors, always as *StorageError.
	Update(ctx context.Context, rec record.Record) error

	// Finalize completes aggregation and returns the result.
	// It is called exactly once, after the input is exhausted, and
	// must succeed when Update was never called.
	Finalize(ctx context.Context) (*Result, error)
}

// Aborter is implemented by aggregators holding storage. Abort releases
// that storage when a run ends without Finalize.
type Aborter interface {
	Abort() error
}

// Abort calls agg.Abort if agg implements Aborter.
func Abort(agg Aggregator) error {
	if a, ok := agg.(Aborter); ok {
		return a.Abort()
	}
	return nil
}
