package source

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/spf13/afero"
)

// FileSource reads lines from a list of files in order, moving to the next
// file when the current one is exhausted.
type FileSource struct {
	fs    afero.Fs
	files []string

	currentFile    afero.File
	currentScanner *bufio.Scanner
	currentSource  string
	currentLine    int
	fileIndex      int
}

// NewFileSource creates a Source that reads the given files from fs.
func NewFileSource(fs afero.Fs, files []string) *FileSource {
	return &FileSource{
		fs:        fs,
		files:     files,
		fileIndex: -1,
	}
}

// Files returns the files this source reads, in order.
func (s *FileSource) Files() []string {
	return s.files
}

// Next returns the next non-blank line.
// Returns io.EOF when all files have been exhausted.
func (s *FileSource) Next(ctx context.Context) (*Line, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if s.currentScanner == nil {
			if err := s.openNextFile(); err != nil {
				return nil, err
			}
		}

		raw, n, ok := scanLine(s.currentScanner)
		s.currentLine += n
		if ok {
			return &Line{Raw: raw, Source: s.currentSource, Num: s.currentLine}, nil
		}

		if err := s.currentScanner.Err(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", s.currentSource, err)
		}

		// Current file exhausted, try next
		if err := s.closeCurrentFile(); err != nil {
			return nil, err
		}
	}
}

// Close releases resources.
func (s *FileSource) Close() error {
	return s.closeCurrentFile()
}

func (s *FileSource) openNextFile() error {
	s.fileIndex++
	if s.fileIndex >= len(s.files) {
		return io.EOF
	}

	path := s.files[s.fileIndex]
	f, err := s.fs.Open(path)
	if err != nil {
		return fmt.Errorf("opening input file %s: %w", path, err)
	}

	s.currentFile = f
	s.currentScanner = newScanner(f)
	s.currentSource = path
	s.currentLine = 0
	return nil
}

func (s *FileSource) closeCurrentFile() error {
	if s.currentFile == nil {
		return nil
	}
	err := s.currentFile.Close()
	s.currentFile = nil
	s.currentScanner = nil
	if err != nil {
		return fmt.Errorf("closing %s: %w", s.currentSource, err)
	}
	return nil
}
