package output

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datetimeagg/dta/pkg/aggregator"
	"github.com/datetimeagg/dta/pkg/pipeline"
	"github.com/datetimeagg/dta/pkg/record"
)

func format(t *testing.T, opts FormatOptions, report *Report) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, NewTextFormatter(opts).Format(context.Background(), report, &buf))
	return buf.String()
}

func TestNewTextFormatter(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})
	require.NotNil(t, f)
	assert.Equal(t, "text", f.Name())
}

func TestTextFormatter_Counts(t *testing.T) {
	output := format(t, FormatOptions{}, countsReport())
	assert.Equal(t, "2021-06-01T00:00:00Z\t2\n2021-06-02T00:00:00Z\t1\n", output)
}

func TestTextFormatter_Max(t *testing.T) {
	rec := record.New(day1, []byte("2021-06-01T00:00:00Z latest"))
	output := format(t, FormatOptions{}, maxReport(&rec))
	assert.Equal(t, "2021-06-01T00:00:00Z latest\n", output)
}

func TestTextFormatter_Empty(t *testing.T) {
	assert.Equal(t, "no data\n", format(t, FormatOptions{}, maxReport(nil)))
}

func TestTextFormatter_Count(t *testing.T) {
	report := NewReport(&pipeline.Result{
		Aggregate: &aggregator.Result{Kind: aggregator.KindCount, Count: 0},
		Stats:     testStats(),
	}, Metadata{})

	assert.Equal(t, "0\n", format(t, FormatOptions{}, report))
}

func TestTextFormatter_Mins(t *testing.T) {
	rec := record.New(day2, []byte("early"))
	report := NewReport(&pipeline.Result{
		Aggregate: &aggregator.Result{
			Kind:    aggregator.KindMinimums,
			Buckets: []aggregator.Bucket{{Key: day2, Record: &rec}},
		},
		Stats: testStats(),
	}, Metadata{})

	assert.Equal(t, "2021-06-02T00:00:00Z\tearly\n", format(t, FormatOptions{}, report))
}

func TestTextFormatter_Split(t *testing.T) {
	report := NewReport(&pipeline.Result{
		Aggregate: &aggregator.Result{Kind: aggregator.KindSplit, Targets: []string{"2021/06/01.log", "2021/06/02.log"}},
		Stats:     testStats(),
	}, Metadata{})

	output := format(t, FormatOptions{}, report)
	assert.Contains(t, output, "Wrote 2 file(s)")
	assert.Equal(t, 1, bytes.Count([]byte(output), []byte("2021/06/01.log")), "each target is listed once")
}

func TestTextFormatter_Range(t *testing.T) {
	report := NewReport(&pipeline.Result{
		Aggregate: &aggregator.Result{Kind: aggregator.KindRange, Matched: 7, Spilled: true},
		Stats:     testStats(),
	}, Metadata{})

	assert.Empty(t, format(t, FormatOptions{}, report), "records are streamed")
	assert.Contains(t, format(t, FormatOptions{Verbose: true}, report), "Matched 7 record(s), spilled: true")
}

func TestTextFormatter_Verbose(t *testing.T) {
	output := format(t, FormatOptions{Verbose: true}, countsReport())

	assert.Contains(t, output, "counts: 4 lines read, 3 aggregated, 1 skipped")
	assert.Contains(t, output, "Duration: 1.5s")
}

func TestTextFormatter_Quiet(t *testing.T) {
	output := format(t, FormatOptions{Quiet: true}, countsReport())
	assert.Equal(t, "counts: 4 lines read, 3 aggregated, 1 skipped\n", output)
}

func TestNewFormatter(t *testing.T) {
	for _, name := range []string{"", "text", "json"} {
		_, err := NewFormatter(name, FormatOptions{})
		assert.NoError(t, err, "NewFormatter(%q)", name)
	}
	_, err := NewFormatter("xml", FormatOptions{})
	assert.Error(t, err)
}
