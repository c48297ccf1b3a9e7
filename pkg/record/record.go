// Package record defines the normalized unit of work passed to aggregators.
package record

import (
	"bytes"
	"time"
)

// Record is a normalized (timestamp, raw bytes) pair.
// Aggregators compare records by Timestamp only; Raw is opaque payload.
// A Record must not be modified after construction; use Clone to retain one.
type Record struct {
	// Timestamp is the offset-aware instant extracted from the input.
	Timestamp time.Time

	// Raw is the original (or rewritten) input bytes, without a line terminator.
	Raw []byte
}

// New creates a Record. Trailing line terminators are stripped from raw.
func New(ts time.Time, raw []byte) Record {
	return Record{
		Timestamp: ts,
		Raw:       bytes.TrimRight(raw, "\r\n"),
	}
}

// Clone returns a copy that does not share Raw with r.
func (r Record) Clone() Record {
	raw := make([]byte, len(r.Raw))
	copy(raw, r.Raw)
	return Record{Timestamp: r.Timestamp, Raw: raw}
}

// Size returns the payload length in bytes.
func (r Record) Size() int {
	return len(r.Raw)
}

// String returns the payload as text.
func (r Record) String() string {
	return string(r.Raw)
}
