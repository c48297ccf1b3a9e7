// Package detector samples input and reports which built-in timestamp
// formats it matches, and renders the matches as a dictionary document.
package detector

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/datetimeagg/dta/pkg/config"
	"github.com/datetimeagg/dta/pkg/extractor"
	"github.com/datetimeagg/dta/pkg/source"
)

// DetectionResult holds the result of sampling an input.
type DetectionResult struct {
	Matches       []FormatMatch // Formats that matched, sorted by confidence descending
	SampledLines  int           // Number of lines sampled
	ParsedLines   int           // Number of lines the best format parsed
	AmbiguityNote string        // Warning about date ordering if applicable
}

// FormatMatch represents a format that matched with its confidence score.
type FormatMatch struct {
	Format     *TimestampFormat
	Confidence float64   // 0.0 to 1.0 (fraction of sampled lines matched)
	MatchCount int       // Number of lines that matched
	SampleLine string    // Example timestamp that matched
	ParsedTime time.Time // Parsed timestamp from sample
}

// Detector identifies timestamp formats in sampled input.
type Detector struct {
	formats    []*TimestampFormat
	sampleSize int
	location   *time.Location
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample (default 100).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// WithLocation sets the timezone for zone-less samples (default UTC).
func WithLocation(loc *time.Location) Option {
	return func(d *Detector) {
		if loc != nil {
			d.location = loc
		}
	}
}

// New creates a new Detector with default formats.
func New(opts ...Option) *Detector {
	d := &Detector{
		formats:    DefaultFormats(),
		sampleSize: 100,
		location:   time.UTC,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect samples up to the sample size from src, extracts the timestamp
// text of each line with ex, and matches it against the catalog. Lines
// the extractor rejects count as sampled but unmatched.
func (d *Detector) Detect(ctx context.Context, src source.Source, ex extractor.Extractor) (*DetectionResult, error) {
	var samples []string
	for len(samples) < d.sampleSize {
		line, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if strings.HasPrefix(strings.TrimSpace(string(line.Raw)), "#") {
			continue
		}

		_, ts, err := ex.Extract(line.Raw)
		if err != nil {
			ts = ""
		}
		samples = append(samples, ts)
	}
	return d.DetectFromLines(samples), nil
}

// DetectFromLines matches each timestamp string against the catalog.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{
		SampledLines: len(lines),
	}

	if len(lines) == 0 {
		return result
	}

	type formatStats struct {
		format     *TimestampFormat
		order      int
		matchCount int
		sampleLine string
		parsedTime time.Time
	}

	stats := make(map[string]*formatStats)

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		for i, format := range d.formats {
			parsed, err := format.Pattern.Parse(line, d.location)
			if err != nil {
				continue
			}

			s := stats[format.Name]
			if s == nil {
				s = &formatStats{format: format, order: i, sampleLine: line, parsedTime: parsed}
				stats[format.Name] = s
			}
			s.matchCount++
		}
	}

	order := make(map[string]int, len(stats))
	for _, s := range stats {
		order[s.format.Name] = s.order
		result.Matches = append(result.Matches, FormatMatch{
			Format:     s.format,
			Confidence: float64(s.matchCount) / float64(len(lines)),
			MatchCount: s.matchCount,
			SampleLine: s.sampleLine,
			ParsedTime: s.parsedTime,
		})
	}

	// Sort by confidence descending, then by catalog order (more specific first)
	sort.Slice(result.Matches, func(i, j int) bool {
		if result.Matches[i].Confidence != result.Matches[j].Confidence {
			return result.Matches[i].Confidence > result.Matches[j].Confidence
		}
		return order[result.Matches[i].Format.Name] < order[result.Matches[j].Format.Name]
	})

	if len(result.Matches) > 0 {
		result.ParsedLines = result.Matches[0].MatchCount
	}

	if len(result.Matches) > 0 && result.Matches[0].Format.Ambiguous {
		result.AmbiguityNote = "This format has date ordering ambiguity (MM/DD vs DD/MM). " +
			"Check the samples and keep only the matching entry: " +
			"us-date reads 01/02 as January 2, eu-date reads it as 1 February."
	}

	return result
}

// BestMatch returns the highest confidence match, or nil if none found.
func (r *DetectionResult) BestMatch() *FormatMatch {
	if len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// HasMatch returns true if at least one format matched.
func (r *DetectionResult) HasMatch() bool {
	return len(r.Matches) > 0
}

// Formats returns a dictionary document of the matches with at least
// minConfidence, best match first.
func (r *DetectionResult) Formats(minConfidence float64) *config.Formats {
	f := &config.Formats{}
	for _, m := range r.Matches {
		if m.Confidence < minConfidence {
			continue
		}
		f.Entries = append(f.Entries, config.FormatEntry{
			Name: m.Format.Name,
			Fmt:  m.Format.Pattern.String(),
		})
	}
	return f
}
