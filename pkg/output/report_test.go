package output

import (
	"time"

	"github.com/datetimeagg/dta/pkg/aggregator"
	"github.com/datetimeagg/dta/pkg/pipeline"
	"github.com/datetimeagg/dta/pkg/record"
)

var (
	day1 = time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	day2 = time.Date(2021, 6, 2, 0, 0, 0, 0, time.UTC)
)

func testStats() pipeline.Stats {
	start := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	return pipeline.Stats{
		LinesRead:  4,
		Aggregated: 3,
		Skipped:    1,
		StartTime:  start,
		EndTime:    start.Add(1500 * time.Millisecond),
	}
}

func countsReport() *Report {
	return NewReport(&pipeline.Result{
		Aggregate: &aggregator.Result{
			Kind: aggregator.KindCounts,
			Buckets: []aggregator.Bucket{
				{Key: day1, Count: 2},
				{Key: day2, Count: 1},
			},
		},
		Stats: testStats(),
	}, Metadata{Sources: []string{"-"}, Increment: "0000-00-01 00:00:00"})
}

func maxReport(rec *record.Record) *Report {
	return NewReport(&pipeline.Result{
		Aggregate: &aggregator.Result{Kind: aggregator.KindMaximum, Record: rec},
		Stats:     testStats(),
	}, Metadata{Sources: []string{"in.log"}})
}
