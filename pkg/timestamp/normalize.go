// Package timestamp turns heterogeneous timestamp strings into offset-aware
// instants. It provides the offset resolver, the fallback parsing cascade and
// the self-reordering format dictionary.
package timestamp

import (
	"strconv"
	"strings"
	"time"
)

// Layouts tried, in order, when neither an explicit format nor a dictionary
// is configured. Zoned layouts are unambiguous and always come first.
var (
	zonedLayouts = []string{
		"2006-01-02 15:04:05 -0700",
		"2006-01-02 15:04:05 -07:00",
		"Mon, 2 Jan 2006 15:04:05 -0700", // RFC 2822
		"2 Jan 2006 15:04:05 -0700",      // RFC 2822 without day of week
		time.RFC3339Nano,
	}
	naiveLayouts = []string{
		"2006-01-02 15:04:05",
		"Mon, 2 Jan 2006 15:04:05",
		"2006-01-02T15:04:05",
	}
	namedZoneLayouts = []string{
		"Mon, 2 Jan 2006 15:04:05",
		"2 Jan 2006 15:04:05",
	}
)

// obsoleteZones are the RFC 2822 zone names, in hours east of UTC.
// time.Parse would give every unknown abbreviation a zero offset.
var obsoleteZones = map[string]int{
	"UT": 0, "GMT": 0, "Z": 0,
	"EST": -5, "EDT": -4,
	"CST": -6, "CDT": -5,
	"MST": -7, "MDT": -6,
	"PST": -8, "PDT": -7,
}

// Normalizer applies the parsing cascade with a fixed set of options.
type Normalizer struct {
	format   Pattern
	location *time.Location
	dict     *Dictionary
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithFormat sets an explicit pattern that takes precedence over everything else.
func WithFormat(format string) Option {
	return func(n *Normalizer) {
		n.format = NewPattern(format)
	}
}

// WithLocation sets the timezone applied to inputs without an offset.
func WithLocation(loc *time.Location) Option {
	return func(n *Normalizer) {
		if loc != nil {
			n.location = loc
		}
	}
}

// WithDictionary routes parsing through a format dictionary.
// The dictionary is mutated on every successful lookup, so a Normalizer
// holding one must not be shared between goroutines.
func WithDictionary(d *Dictionary) Option {
	return func(n *Normalizer) {
		n.dict = d
	}
}

// NewNormalizer creates a Normalizer. Without options it guesses formats and
// interprets zone-less inputs as UTC.
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{location: time.UTC}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize parses s into an offset-aware timestamp.
func (n *Normalizer) Normalize(s string) (time.Time, error) {
	return Normalize(s, n.format, n.location, n.dict)
}

// Location returns the timezone used for zone-less inputs.
func (n *Normalizer) Location() *time.Location {
	return n.location
}

// Normalize runs the cascade, first match wins:
//  1. an explicit format, zoned or naive in loc
//  2. otherwise the dictionary, when one is given
//  3. otherwise the built-in zoned layouts, then the naive ones in loc
//  4. finally an integer count of Unix epoch seconds
func Normalize(s string, format Pattern, loc *time.Location, dict *Dictionary) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	s = strings.TrimSpace(s)

	var stageErr error
	switch {
	case !format.IsZero():
		if t, err := format.Parse(s, loc); err == nil {
			return t, nil
		}
		stageErr = &ParseError{Input: s, Format: format.String()}
	case dict != nil:
		t, err := dict.Parse(s, loc)
		if err == nil {
			return t, nil
		}
		stageErr = err
	default:
		if t, ok := guess(s, loc); ok {
			return t, nil
		}
		stageErr = &ParseError{Input: s}
	}

	if t, ok := parseEpoch(s, loc); ok {
		return t, nil
	}

	return time.Time{}, stageErr
}

func guess(s string, loc *time.Location) (time.Time, bool) {
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	// RFC 3339 separators and the UTC designator are case-insensitive.
	if t, err := time.Parse(time.RFC3339Nano, strings.ToUpper(s)); err == nil {
		return t, true
	}
	if t, ok := parseNamedZone(s); ok {
		return t, true
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseNamedZone parses RFC 2822 dates ending in an obsolete zone name.
func parseNamedZone(s string) (time.Time, bool) {
	i := strings.LastIndexByte(s, ' ')
	if i < 0 {
		return time.Time{}, false
	}
	name := strings.ToUpper(s[i+1:])
	hours, ok := obsoleteZones[name]
	if !ok {
		return time.Time{}, false
	}
	zone := time.FixedZone(name, hours*3600)
	for _, layout := range namedZoneLayouts {
		if t, err := time.ParseInLocation(layout, s[:i], zone); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseEpoch(s string, loc *time.Location) (time.Time, bool) {
	secs, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(secs, 0).In(loc), true
}
