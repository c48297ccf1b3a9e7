package timestamp

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var (
	colonOffsetPattern   = regexp.MustCompile(`^([+-])([0-1][0-9]):([0-9]{2})$`)
	compactOffsetPattern = regexp.MustCompile(`^([+-])([0-1][0-9])([0-9]{2})$`)
)

// ResolveOffset parses a fixed UTC offset token such as "+05:30" or "-0800"
// and returns the offset in seconds east of UTC.
// An empty token is an error; callers that tolerate a missing timezone
// should use ResolveLocationOrUTC.
func ResolveOffset(token string) (int, error) {
	if token == "" {
		return 0, fmt.Errorf("%w: no offset provided", ErrInvalidTimezone)
	}

	matches := colonOffsetPattern.FindStringSubmatch(token)
	if matches == nil {
		matches = compactOffsetPattern.FindStringSubmatch(token)
	}
	if matches == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimezone, token)
	}

	hours, err := strconv.Atoi(matches[2])
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimezone, token, err)
	}
	minutes, err := strconv.Atoi(matches[3])
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimezone, token, err)
	}

	seconds := 3600*hours + 60*minutes
	if matches[1] == "-" {
		seconds = -seconds
	}
	return seconds, nil
}

// ResolveLocation returns a fixed-offset location for the given token.
func ResolveLocation(token string) (*time.Location, error) {
	seconds, err := ResolveOffset(token)
	if err != nil {
		return nil, err
	}
	if seconds == 0 {
		return time.UTC, nil
	}
	return time.FixedZone(token, seconds), nil
}

// ResolveLocationOrUTC is ResolveLocation with UTC substituted for an empty
// token. A non-empty token that cannot be parsed is still an error.
func ResolveLocationOrUTC(token string) (*time.Location, error) {
	if token == "" {
		return time.UTC, nil
	}
	return ResolveLocation(token)
}
