// Package pipeline drives records from a source through extraction,
// normalization and an aggregator.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/multierr"

	"github.com/datetimeagg/dta/pkg/aggregator"
	"github.com/datetimeagg/dta/pkg/extractor"
	"github.com/datetimeagg/dta/pkg/logging"
	"github.com/datetimeagg/dta/pkg/record"
	"github.com/datetimeagg/dta/pkg/source"
	"github.com/datetimeagg/dta/pkg/timestamp"
)

// Normalizer converts timestamp text to an instant.
type Normalizer interface {
	Normalize(s string) (time.Time, error)
}

// Stats counts what happened to each input line.
type Stats struct {
	// LinesRead is the number of non-blank lines read from the source.
	LinesRead int

	// Aggregated is the number of records passed to the aggregator.
	Aggregated int

	// Skipped is the number of lines dropped for extract or parse errors.
	Skipped int

	// StartTime is when the run began.
	StartTime time.Time

	// EndTime is when the run completed.
	EndTime time.Time
}

// Result is the outcome of a run.
type Result struct {
	Aggregate *aggregator.Result
	Stats     Stats
}

// Pipeline holds the per-line stages.
type Pipeline struct {
	extractor  extractor.Extractor
	normalizer Normalizer
	transform  timestamp.Pattern
	rewriter   extractor.Rewriter
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithTransform rewrites each record's timestamp field using pattern before
// it reaches the aggregator.
func WithTransform(pattern string) Option {
	return func(p *Pipeline) {
		p.transform = timestamp.NewPattern(pattern)
	}
}

// New creates a Pipeline.
func New(ex extractor.Extractor, n Normalizer, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{extractor: ex, normalizer: n}
	for _, opt := range opts {
		opt(p)
	}

	if !p.transform.IsZero() {
		rw, ok := ex.(extractor.Rewriter)
		if !ok {
			return nil, fmt.Errorf("%s input does not support --transform", ex.Name())
		}
		p.rewriter = rw
	}
	return p, nil
}

// Run reads src to exhaustion, feeding each record to agg, then finalizes agg.
// Extract and parse failures are logged and the line is skipped; aggregator
// and read errors end the run and abort agg.
func (p *Pipeline) Run(ctx context.Context, src source.Source, agg aggregator.Aggregator) (*Result, error) {
	log := logging.FromContext(ctx)
	result := &Result{Stats: Stats{StartTime: time.Now()}}
	stats := &result.Stats

	for {
		line, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, multierr.Append(fmt.Errorf("reading input: %w", err), aggregator.Abort(agg))
		}
		stats.LinesRead++

		rec, err := p.record(line.Raw)
		if err != nil {
			stats.Skipped++
			log.Warnw("Skipping line", "source", line.Source, "line", line.Num, "error", err)
			continue
		}

		if err := agg.Update(ctx, rec); err != nil {
			err = fmt.Errorf("%s aggregator at %s:%d: %w", agg.Kind(), line.Source, line.Num, err)
			return nil, multierr.Append(err, aggregator.Abort(agg))
		}
		stats.Aggregated++
	}

	final, err := agg.Finalize(ctx)
	if err != nil {
		return nil, fmt.Errorf("finalizing %s aggregator: %w", agg.Kind(), err)
	}
	result.Aggregate = final
	stats.EndTime = time.Now()

	log.Debugw("Run complete", "read", stats.LinesRead, "aggregated", stats.Aggregated, "skipped", stats.Skipped)
	return result, nil
}

func (p *Pipeline) record(raw []byte) (record.Record, error) {
	line, text, err := p.extractor.Extract(raw)
	if err != nil {
		return record.Record{}, err
	}

	ts, err := p.normalizer.Normalize(text)
	if err != nil {
		return record.Record{}, err
	}

	if p.rewriter != nil {
		line, err = p.rewriter.Rewrite(line, p.transform.Format(ts))
		if err != nil {
			return record.Record{}, err
		}
	}
	return record.New(ts, line), nil
}
