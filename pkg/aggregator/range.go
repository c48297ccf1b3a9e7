package aggregator

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/datetimeagg/dta/pkg/record"
)

// DefaultSpillLimit is the in-memory buffer size, in bytes, above which
// matched records are moved to the overflow file.
const DefaultSpillLimit = 1_000_000

// maxSpillLine matches the largest line a source will produce.
const maxSpillLine = 1024 * 1024

// RangeOption configures a Range aggregator.
type RangeOption func(*Range)

// WithInverted selects records outside the window instead of inside it.
func WithInverted(v bool) RangeOption {
	return func(r *Range) {
		r.inverted = v
	}
}

// WithSpillLimit sets the buffer ceiling in bytes.
func WithSpillLimit(n int) RangeOption {
	return func(r *Range) {
		if n > 0 {
			r.limit = n
		}
	}
}

// WithSpillStorage sets the filesystem and directory for the overflow file.
// An empty dir uses the filesystem's temp directory.
func WithSpillStorage(fs afero.Fs, dir string) RangeOption {
	return func(r *Range) {
		if fs != nil {
			r.fs = fs
		}
		r.dir = dir
	}
}

// WithSink sets where Finalize writes matched records.
func WithSink(w io.Writer) RangeOption {
	return func(r *Range) {
		if w != nil {
			r.sink = w
		}
	}
}

// WithRangeLogger sets the logger used for spill events.
func WithRangeLogger(logger *zap.SugaredLogger) RangeOption {
	return func(r *Range) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Range keeps records whose timestamp lies within [start, end], or outside
// it when inverted. Matched records are buffered in memory; when the raw
// bytes buffered exceed the spill limit the buffer is appended to an
// overflow file and cleared.
// Output order is in-memory records first, then the overflow file.
type Range struct {
	start    time.Time
	end      time.Time
	inverted bool
	limit    int

	fs     afero.Fs
	dir    string
	sink   io.Writer
	logger *zap.SugaredLogger

	buf     bytes.Buffer
	size    int // raw bytes in buf, terminators excluded
	spill   afero.File
	matched int64
}

// NewRange creates a range aggregator for the inclusive window [start, end].
func NewRange(start, end time.Time, opts ...RangeOption) (*Range, error) {
	if end.Before(start) {
		return nil, errors.New("range end is before start")
	}

	r := &Range{
		start:  start,
		end:    end,
		limit:  DefaultSpillLimit,
		fs:     afero.NewOsFs(),
		sink:   io.Discard,
		logger: zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Kind returns the aggregator kind.
func (r *Range) Kind() Kind {
	return KindRange
}

// Contains reports whether ts passes the filter.
func (r *Range) Contains(ts time.Time) bool {
	inside := !ts.Before(r.start) && !ts.After(r.end)
	if r.inverted {
		return !inside
	}
	return inside
}

// Update buffers rec if it passes the filter, spilling when the buffer is
// over the limit.
func (r *Range) Update(_ context.Context, rec record.Record) error {
	if !r.Contains(rec.Timestamp) {
		return nil
	}
	r.matched++
	r.buf.Write(rec.Raw)
	r.buf.WriteByte('\n')
	r.size += len(rec.Raw)

	if r.size > r.limit {
		return r.flush()
	}
	return nil
}

func (r *Range) flush() error {
	if r.spill == nil {
		f, err := afero.TempFile(r.fs, r.dir, "dta-range-*")
		if err != nil {
			return storageErr("create", r.dir, err)
		}
		r.spill = f
	}

	n := r.buf.Len()
	if _, err := r.spill.Write(r.buf.Bytes()); err != nil {
		return storageErr("write", r.spill.Name(), err)
	}
	r.buf.Reset()
	r.size = 0
	r.logger.Debugw("Spilled range buffer", "path", r.spill.Name(), "bytes", n)
	return nil
}

// SpillPath returns the overflow file path, or "" if nothing has spilled.
func (r *Range) SpillPath() string {
	if r.spill == nil {
		return ""
	}
	return r.spill.Name()
}

// Finalize writes buffered records and then the overflow file to the sink,
// and removes the overflow file. The file is removed even when writing fails.
func (r *Range) Finalize(_ context.Context) (*Result, error) {
	result := &Result{Kind: KindRange, Matched: r.matched, Spilled: r.spill != nil}

	_, err := r.sink.Write(r.buf.Bytes())
	r.buf.Reset()
	r.size = 0

	if r.spill != nil {
		if err == nil {
			err = r.drain(r.spill.Name())
		}
		err = multierr.Append(err, r.removeSpill())
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Abort discards buffered records and removes the overflow file without
// writing anything to the sink.
func (r *Range) Abort() error {
	r.buf.Reset()
	r.size = 0
	if r.spill == nil {
		return nil
	}
	return r.removeSpill()
}

func (r *Range) removeSpill() error {
	path := r.spill.Name()
	err := storageErr("close", path, r.spill.Close())
	err = multierr.Append(err, storageErr("remove", path, r.fs.Remove(path)))
	r.spill = nil
	return err
}

func (r *Range) drain(path string) error {
	if _, err := r.spill.Seek(0, io.SeekStart); err != nil {
		return storageErr("seek", path, err)
	}

	scanner := bufio.NewScanner(r.spill)
	scanner.Buffer(make([]byte, 64*1024), maxSpillLine+1)
	w := bufio.NewWriter(r.sink)
	for scanner.Scan() {
		if _, err := w.Write(scanner.Bytes()); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return storageErr("read", path, err)
	}
	return w.Flush()
}

