// Package increment parses bucketing increments and maps timestamps onto
// bucket boundaries.
package increment

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Calendar approximations used when converting an increment to seconds.
// These are not calendar-exact: a year is 52 weeks and a month is 30 days.
const (
	secondsPerDay   = 24 * 60 * 60
	secondsPerMonth = 30 * secondsPerDay
	secondsPerYear  = 52 * 7 * secondsPerDay
)

var (
	fullPattern = regexp.MustCompile(`^([0-9]{4})-([0-9]{2})-([0-9]{2}) ([0-9]{2}):([0-9]{2}):([0-9]{2})$`)
	timePattern = regexp.MustCompile(`^([0-9]{2}):([0-9]{2}):([0-9]{2})$`)
	datePattern = regexp.MustCompile(`^([0-9]{4})-([0-9]{2})-([0-9]{2})$`)
)

// ErrInvalidIncrement matches every error returned by Parse.
var ErrInvalidIncrement = errors.New("invalid increment")

// Error describes an increment string that could not be parsed.
type Error struct {
	Input  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid increment %q: %s", e.Input, e.Reason)
}

// Is reports whether target is ErrInvalidIncrement.
func (e *Error) Is(target error) bool {
	return target == ErrInvalidIncrement
}

// Increment is a calendar-like span used to bucket timestamps.
// The zero value is not a valid increment.
type Increment struct {
	Years   int64
	Months  int64
	Days    int64
	Hours   int64
	Minutes int64
	Seconds int64
}

// Parse accepts "YYYY-MM-DD", "HH:MM:SS" or "YYYY-MM-DD HH:MM:SS".
// Each field is a count of that unit, not a calendar position: "0000-00-07"
// is seven days and "2021-01-01" is 2021 years, one month and one day.
func Parse(s string) (Increment, error) {
	var fields []string
	var inc Increment

	switch {
	case fullPattern.MatchString(s):
		fields = fullPattern.FindStringSubmatch(s)[1:]
	case timePattern.MatchString(s):
		fields = append([]string{"0", "0", "0"}, timePattern.FindStringSubmatch(s)[1:]...)
	case datePattern.MatchString(s):
		fields = append(datePattern.FindStringSubmatch(s)[1:], "0", "0", "0")
	default:
		return inc, &Error{Input: s, Reason: "expected YYYY-MM-DD, HH:MM:SS or YYYY-MM-DD HH:MM:SS"}
	}

	values := make([]int64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return inc, &Error{Input: s, Reason: err.Error()}
		}
		values[i] = v
	}

	inc = Increment{
		Years:   values[0],
		Months:  values[1],
		Days:    values[2],
		Hours:   values[3],
		Minutes: values[4],
		Seconds: values[5],
	}
	if inc.TotalSeconds() <= 0 {
		return Increment{}, &Error{Input: s, Reason: "increment must be longer than zero"}
	}
	return inc, nil
}

// MustParse is Parse that panics on error. Intended for constants and tests.
func MustParse(s string) Increment {
	inc, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return inc
}

// TotalSeconds returns the approximate length of the increment in seconds.
func (i Increment) TotalSeconds() int64 {
	return i.Years*secondsPerYear +
		i.Months*secondsPerMonth +
		i.Days*secondsPerDay +
		i.Hours*3600 +
		i.Minutes*60 +
		i.Seconds
}

// String renders the increment in the full grammar.
func (i Increment) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d",
		i.Years, i.Months, i.Days, i.Hours, i.Minutes, i.Seconds)
}

// Truncate returns the start of the bucket containing t: the greatest
// multiple of the increment, counted from the Unix epoch, not after t.
// Bucket keys are UTC.
func (i Increment) Truncate(t time.Time) time.Time {
	step := i.TotalSeconds()
	return time.Unix(floorDiv(t.Unix(), step)*step, 0).UTC()
}

// Round returns the multiple of the increment nearest to t, rounding half up.
func (i Increment) Round(t time.Time) time.Time {
	step := i.TotalSeconds()
	secs := t.Unix()
	floor := floorDiv(secs, step) * step
	rem := secs - floor

	up := 2*rem >= step || (2*rem+1 == step && 2*int64(t.Nanosecond()) >= int64(time.Second))
	if up {
		floor += step
	}
	return time.Unix(floor, 0).UTC()
}

// Bucket maps t to its bucket key with the given rounding mode.
func (i Increment) Bucket(t time.Time, mode Rounding) time.Time {
	if mode == Nearest {
		return i.Round(t)
	}
	return i.Truncate(t)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Rounding selects how timestamps are mapped to bucket keys.
type Rounding int

const (
	// Truncate assigns a timestamp to the bucket that starts at or before it.
	Truncate Rounding = iota

	// Nearest assigns a timestamp to the closest bucket boundary.
	Nearest
)

// ParseRounding parses "truncate" or "nearest". An empty string is Truncate.
func ParseRounding(s string) (Rounding, error) {
	switch s {
	case "", "truncate":
		return Truncate, nil
	case "nearest":
		return Nearest, nil
	default:
		return Truncate, fmt.Errorf("unknown rounding %q (use truncate or nearest)", s)
	}
}

// String returns the rounding name.
func (r Rounding) String() string {
	if r == Nearest {
		return "nearest"
	}
	return "truncate"
}
