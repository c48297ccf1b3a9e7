package timestamp

import (
	"errors"
	"fmt"
)

// ErrInvalidTimezone is returned when an offset token cannot be parsed.
var ErrInvalidTimezone = errors.New("invalid timezone")

// ParseError is returned when no stage of the normalization cascade
// could turn the input into a timestamp.
type ParseError struct {
	// Input is the raw timestamp string.
	Input string

	// Format is the explicit pattern that was attempted, if any.
	Format string
}

func (e *ParseError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("cannot parse %q as a timestamp", e.Input)
	}
	return fmt.Sprintf("cannot parse %q as a timestamp with format %q", e.Input, e.Format)
}

// FormatNotFoundError is returned when no dictionary pattern matches the input.
type FormatNotFoundError struct {
	Input string
}

func (e *FormatNotFoundError) Error() string {
	return fmt.Sprintf("no dictionary format matches %q", e.Input)
}
