package extractor

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSV reads the timestamp from a fixed 0-based column of a header-less,
// comma-separated line. Quoted fields follow RFC 4180.
type CSV struct {
	column int
}

// NewCSV creates a CSV extractor for the given column.
func NewCSV(column int) (*CSV, error) {
	if column < 0 {
		return nil, fmt.Errorf("csv column must be >= 0, got %d", column)
	}
	return &CSV{column: column}, nil
}

// Name returns "csv".
func (c *CSV) Name() string {
	return string(KindCSV)
}

// Extract returns the line and the configured column.
func (c *CSV) Extract(raw []byte) ([]byte, string, error) {
	fields, err := c.fields(raw)
	if err != nil {
		return nil, "", err
	}
	return raw, fields[c.column], nil
}

// Rewrite replaces the configured column and re-encodes the line.
func (c *CSV) Rewrite(raw []byte, ts string) ([]byte, error) {
	fields, err := c.fields(raw)
	if err != nil {
		return nil, err
	}
	fields[c.column] = ts

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(fields); err != nil {
		return nil, &Error{Extractor: c.Name(), Reason: err.Error()}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, &Error{Extractor: c.Name(), Reason: err.Error()}
	}
	return bytes.TrimRight(buf.Bytes(), "\r\n"), nil
}

func (c *CSV) fields(raw []byte) ([]string, error) {
	r := csv.NewReader(bytes.NewReader(raw))
	r.FieldsPerRecord = -1
	r.ReuseRecord = false

	fields, err := r.Read()
	if err != nil {
		return nil, &Error{Extractor: c.Name(), Reason: fmt.Sprintf("malformed line: %v", err)}
	}
	if c.column >= len(fields) {
		return nil, &Error{
			Extractor: c.Name(),
			Reason:    fmt.Sprintf("column %d out of range (line has %d)", c.column, len(fields)),
		}
	}
	return fields, nil
}
