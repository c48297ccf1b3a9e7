package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/datetimeagg/dta/pkg/timestamp"
)

// sampleTime is formatted with each pattern to check it has directives.
var sampleTime = time.Date(2001, 2, 3, 4, 5, 6, 0, time.UTC)

// Load reads and validates a dictionary document.
func Load(_ context.Context, path string) (*Formats, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading formats file: %w", err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, err
	}
	f.Path = path
	return f, nil
}

// Parse decodes and validates a dictionary document.
func Parse(data []byte) (*Formats, error) {
	f := &Formats{}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("parsing formats file: %w", err)
	}

	if err := Validate(f); err != nil {
		return nil, fmt.Errorf("validating formats: %w", err)
	}
	return f, nil
}

// Validate checks a document for empty, duplicate and directive-free entries.
func Validate(f *Formats) error {
	if len(f.Entries) == 0 {
		return errors.New("at least one format is required")
	}

	seen := make(map[string]bool, len(f.Entries))
	for i, e := range f.Entries {
		if e.Name == "" {
			return fmt.Errorf("formats[%d]: name is required", i)
		}
		if seen[e.Name] {
			return fmt.Errorf("formats[%d] (%s): duplicate name", i, e.Name)
		}
		seen[e.Name] = true

		if err := validatePattern(e.Fmt); err != nil {
			return fmt.Errorf("formats[%d] (%s): %w", i, e.Name, err)
		}
	}
	return nil
}

func validatePattern(s string) error {
	if s == "" {
		return errors.New("fmt is required")
	}
	if timestamp.NewPattern(s).Format(sampleTime) == s {
		return fmt.Errorf("fmt %q contains no date or time directives", s)
	}
	return nil
}

// Dictionary builds a FormatDictionary from the document.
func (f *Formats) Dictionary(opts ...timestamp.DictionaryOption) (*timestamp.Dictionary, error) {
	entries := make([]timestamp.Entry, len(f.Entries))
	for i, e := range f.Entries {
		entries[i] = timestamp.Entry{Name: e.Name, Format: e.Fmt}
	}
	return timestamp.NewDictionary(entries, opts...)
}

// Marshal renders the document as YAML.
func Marshal(f *Formats) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
