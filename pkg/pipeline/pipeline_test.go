package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/datetimeagg/dta/pkg/aggregator"
	"github.com/datetimeagg/dta/pkg/extractor"
	"github.com/datetimeagg/dta/pkg/increment"
	"github.com/datetimeagg/dta/pkg/logging"
	"github.com/datetimeagg/dta/pkg/record"
	"github.com/datetimeagg/dta/pkg/source"
	"github.com/datetimeagg/dta/pkg/timestamp"
)

func testContext() context.Context {
	return logging.WithLogger(context.Background(), zap.NewNop().Sugar())
}

func lines(s ...string) source.Source {
	return source.NewLineSource(strings.NewReader(strings.Join(s, "\n")), "test")
}

func TestRun_CountsByDay(t *testing.T) {
	p, err := New(extractor.Plain{}, timestamp.NewNormalizer())
	require.NoError(t, err)

	agg := aggregator.NewCounts(increment.MustParse("24:00:00"), increment.Truncate)
	result, err := p.Run(testContext(), lines(
		"2021-06-01T10:00:00Z",
		"2021-06-01T11:00:00Z",
		"2021-06-02T01:00:00Z",
	), agg)
	require.NoError(t, err)

	buckets := result.Aggregate.Buckets
	require.Len(t, buckets, 2)
	assert.True(t, buckets[0].Key.Equal(time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, int64(2), buckets[0].Count)
	assert.True(t, buckets[1].Key.Equal(time.Date(2021, 6, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, int64(1), buckets[1].Count)

	assert.Equal(t, 3, result.Stats.LinesRead)
	assert.Equal(t, 3, result.Stats.Aggregated)
	assert.Equal(t, 0, result.Stats.Skipped)
}

func TestRun_SkipsBadLines(t *testing.T) {
	ex, err := extractor.NewCSV(1)
	require.NoError(t, err)
	p, err := New(ex, timestamp.NewNormalizer())
	require.NoError(t, err)

	result, err := p.Run(testContext(), lines(
		"a,2021-06-01 10:00:00",
		"b,not a date",
		"c",
		"d,1622541600",
	), aggregator.NewMaximum())
	require.NoError(t, err)

	assert.Equal(t, 4, result.Stats.LinesRead)
	assert.Equal(t, 2, result.Stats.Aggregated)
	assert.Equal(t, 2, result.Stats.Skipped)
	require.NotNil(t, result.Aggregate.Record)
	assert.Equal(t, "a,2021-06-01 10:00:00", result.Aggregate.Record.String())
}

func TestRun_Transform(t *testing.T) {
	ex, err := extractor.NewJSON("ts")
	require.NoError(t, err)
	loc, err := timestamp.ResolveLocation("+02:00")
	require.NoError(t, err)

	p, err := New(ex, timestamp.NewNormalizer(timestamp.WithLocation(loc)), WithTransform("%Y-%m-%dT%H:%M:%S%z"))
	require.NoError(t, err)

	result, err := p.Run(testContext(), lines(`{"ts":"2021-06-01 10:00:00","n":1}`), aggregator.NewMinimum())
	require.NoError(t, err)
	require.NotNil(t, result.Aggregate.Record)
	assert.JSONEq(t, `{"n":1,"ts":"2021-06-01T10:00:00+0200"}`, result.Aggregate.Record.String())
}

func TestRun_Dictionary(t *testing.T) {
	dict, err := timestamp.NewDictionary([]timestamp.Entry{
		{Name: "slash", Format: "%d/%m/%Y %H:%M"},
		{Name: "iso", Format: "2006-01-02T15:04:05Z07:00"},
	})
	require.NoError(t, err)

	p, err := New(extractor.Plain{}, timestamp.NewNormalizer(timestamp.WithDictionary(dict)))
	require.NoError(t, err)

	result, err := p.Run(testContext(), lines("2021-06-01T10:00:00Z", "02/06/2021 10:00", "nope"), aggregator.NewCount())
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Aggregate.Count)
	assert.Equal(t, 1, result.Stats.Skipped)
	assert.Equal(t, "slash", dict.Priority()[0])
}

func TestRun_StorageErrorAborts(t *testing.T) {
	p, err := New(extractor.Plain{}, timestamp.NewNormalizer())
	require.NoError(t, err)

	agg, err := aggregator.NewSplit(afero.NewReadOnlyFs(afero.NewMemMapFs()), "/out",
		timestamp.NewPattern("%Y.log"), 0, nil)
	require.NoError(t, err)

	_, err = p.Run(testContext(), lines("2021-06-01T10:00:00Z"), agg)
	require.Error(t, err)
	assert.ErrorIs(t, err, aggregator.ErrStorage)
}

// failingRange fails every Update after the first n.
type failingRange struct {
	*aggregator.Range
	n         int
	spillPath string
}

func (f *failingRange) Update(ctx context.Context, rec record.Record) error {
	if f.n == 0 {
		f.spillPath = f.SpillPath()
		return &aggregator.StorageError{Op: "write", Path: "/spill", Err: errors.New("disk full")}
	}
	f.n--
	return f.Range.Update(ctx, rec)
}

func TestRun_AbortRemovesSpillFile(t *testing.T) {
	p, err := New(extractor.Plain{}, timestamp.NewNormalizer())
	require.NoError(t, err)

	fs := afero.NewMemMapFs()
	var sink strings.Builder
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	r, err := aggregator.NewRange(start, start.AddDate(1, 0, 0),
		aggregator.WithSpillStorage(fs, "/spill"),
		aggregator.WithSpillLimit(1),
		aggregator.WithSink(&sink))
	require.NoError(t, err)

	agg := &failingRange{Range: r, n: 1}
	_, err = p.Run(testContext(), lines("2021-06-01T10:00:00Z", "2021-06-02T10:00:00Z"), agg)
	require.ErrorIs(t, err, aggregator.ErrStorage)

	require.NotEmpty(t, agg.spillPath, "first record should have spilled")
	exists, err := afero.Exists(fs, agg.spillPath)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Empty(t, r.SpillPath())
	leftovers, err := afero.Glob(fs, "/spill/*")
	require.NoError(t, err)
	assert.Empty(t, leftovers)
	assert.Empty(t, sink.String())
}

func TestRun_Empty(t *testing.T) {
	p, err := New(extractor.Plain{}, timestamp.NewNormalizer())
	require.NoError(t, err)

	result, err := p.Run(testContext(), lines(), aggregator.NewMaximum())
	require.NoError(t, err)
	assert.True(t, result.Aggregate.Empty())
	assert.Equal(t, 0, result.Stats.LinesRead)
}

type noRewrite struct{}

func (noRewrite) Name() string { return "custom" }

func (noRewrite) Extract(raw []byte) ([]byte, string, error) {
	return raw, string(raw), nil
}

func TestNew_TransformNeedsRewriter(t *testing.T) {
	_, err := New(noRewrite{}, timestamp.NewNormalizer(), WithTransform("%Y"))
	assert.Error(t, err)

	_, err = New(noRewrite{}, timestamp.NewNormalizer())
	assert.NoError(t, err)
}
