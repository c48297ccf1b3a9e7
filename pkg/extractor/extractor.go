// Package extractor pulls the timestamp text out of an input line.
package extractor

import (
	"errors"
	"fmt"
)

// ErrExtract matches every *Error.
var ErrExtract = errors.New("extract failed")

// Error reports a malformed line or a missing field or column.
type Error struct {
	Extractor string
	Reason    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s extractor: %s", e.Extractor, e.Reason)
}

// Is reports whether target is ErrExtract.
func (e *Error) Is(target error) bool {
	return target == ErrExtract
}

// Extractor finds the timestamp text in a raw line.
type Extractor interface {
	// Name identifies the extractor in logs and errors.
	Name() string

	// Extract returns the raw line and the timestamp text within it.
	Extract(raw []byte) (line []byte, ts string, err error)
}

// Rewriter is implemented by extractors that can replace the timestamp
// field of a line with new text.
type Rewriter interface {
	Rewrite(raw []byte, ts string) ([]byte, error)
}

// Kind names an extractor.
type Kind string

const (
	KindNone Kind = "none"
	KindCSV  Kind = "csv"
	KindJSON Kind = "json"
)

// Config selects and configures an extractor.
type Config struct {
	Kind Kind

	// Column is the 0-based CSV column.
	Column int

	// Field is the JSON field name or gjson path.
	Field string
}

// New creates the extractor described by cfg. An empty Kind is KindNone.
func New(cfg Config) (Extractor, error) {
	switch cfg.Kind {
	case "", KindNone:
		return Plain{}, nil
	case KindCSV:
		return NewCSV(cfg.Column)
	case KindJSON:
		return NewJSON(cfg.Field)
	default:
		return nil, fmt.Errorf("unknown input type %q (use none, csv or json)", cfg.Kind)
	}
}

// Plain treats the whole line as the timestamp.
type Plain struct{}

// Name returns "none".
func (Plain) Name() string {
	return string(KindNone)
}

// Extract returns the line as both payload and timestamp text.
func (Plain) Extract(raw []byte) ([]byte, string, error) {
	return raw, string(raw), nil
}

// Rewrite replaces the whole line.
func (Plain) Rewrite(_ []byte, ts string) ([]byte, error) {
	return []byte(ts), nil
}
