package timestamp

import (
	"strings"
	"time"

	"github.com/itchyny/timefmt-go"
)

// Pattern is a timestamp pattern. Patterns containing '%' use strftime
// directives (%Y-%m-%d %H:%M:%S %z); all others are Go reference-time layouts
// (2006-01-02 15:04:05 -0700).
type Pattern struct {
	raw      string
	strftime bool
}

// NewPattern wraps a pattern string.
func NewPattern(s string) Pattern {
	return Pattern{raw: s, strftime: strings.Contains(s, "%")}
}

// String returns the pattern as written.
func (p Pattern) String() string {
	return p.raw
}

// IsZero reports whether the pattern is empty.
func (p Pattern) IsZero() bool {
	return p.raw == ""
}

// Parse parses s with the pattern. When the input carries an offset it is
// used as-is; otherwise the wall clock is interpreted in loc.
func (p Pattern) Parse(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if p.strftime {
		return timefmt.ParseInLocation(s, p.raw, loc)
	}
	return time.ParseInLocation(p.raw, s, loc)
}

// Format renders t with the pattern.
func (p Pattern) Format(t time.Time) string {
	if p.strftime {
		return timefmt.Format(t, p.raw)
	}
	return t.Format(p.raw)
}
