package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

// LineSource reads lines from a single stream, typically standard input.
type LineSource struct {
	name    string
	r       io.Reader
	scanner *bufio.Scanner
	line    int
}

// NewLineSource creates a Source over r. name labels the stream in
// line metadata and errors.
func NewLineSource(r io.Reader, name string) *LineSource {
	return &LineSource{
		name:    name,
		r:       r,
		scanner: newScanner(r),
	}
}

// Next returns the next non-blank line, or io.EOF.
func (s *LineSource) Next(ctx context.Context) (*Line, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	raw, n, ok := scanLine(s.scanner)
	s.line += n
	if !ok {
		if err := s.scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", s.name, err)
		}
		return nil, io.EOF
	}
	return &Line{Raw: raw, Source: s.name, Num: s.line}, nil
}

// Close closes the underlying reader if it is an io.Closer.
func (s *LineSource) Close() error {
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
