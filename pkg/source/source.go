// Package source provides line-oriented byte sources: standard input or an
// ordered list of files.
package source

import (
	"bufio"
	"bytes"
	"context"
	"io"
)

// MaxLineSize is the longest line a source will return.
const MaxLineSize = 1024 * 1024

// Line is one non-blank input line with its origin.
type Line struct {
	// Raw is the line content without the terminator. It is not reused
	// by the source.
	Raw []byte

	// Source names the file (or stream) the line came from.
	Source string

	// Num is the 1-based line number within Source.
	Num int
}

// Source is an iterator over input lines.
// Implementations must be safe for sequential access (not concurrent).
type Source interface {
	// Next returns the next non-blank line.
	// Returns io.EOF when no more lines are available.
	Next(ctx context.Context) (*Line, error)

	// Close releases any resources held by the source.
	Close() error
}

func newScanner(r io.Reader) *bufio.Scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	return s
}

// scanLine advances to the next non-blank line, returning a copy of it and
// the number of lines consumed. ok is false at the end of the reader.
func scanLine(s *bufio.Scanner) (line []byte, consumed int, ok bool) {
	for s.Scan() {
		consumed++
		b := bytes.TrimRight(s.Bytes(), "\r")
		if len(bytes.TrimSpace(b)) == 0 {
			continue
		}
		line = make([]byte, len(b))
		copy(line, b)
		return line, consumed, true
	}
	return nil, consumed, false
}
