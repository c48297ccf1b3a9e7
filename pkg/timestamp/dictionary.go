package timestamp

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Entry is a named pattern in a Dictionary.
type Entry struct {
	Name   string
	Format string
}

// Dictionary is a named set of patterns that learns which pattern matched
// last. Successful cold-path lookups move the matching name to the front of a
// priority list so homogeneous streams are parsed with a single attempt.
//
// A Dictionary is mutated by Parse and is not safe for concurrent use.
// Partition it per goroutine or guard it externally.
type Dictionary struct {
	names    []string
	patterns map[string]Pattern
	priority []string
	ranked   map[string]bool

	onAttempt func(name string)
	logger    *zap.SugaredLogger
}

// DictionaryOption configures a Dictionary.
type DictionaryOption func(*Dictionary)

// WithAttemptHook registers a callback invoked with the name of every pattern
// attempted by Parse.
func WithAttemptHook(fn func(name string)) DictionaryOption {
	return func(d *Dictionary) {
		d.onAttempt = fn
	}
}

// WithDictionaryLogger sets the logger used for promotion messages.
func WithDictionaryLogger(logger *zap.SugaredLogger) DictionaryOption {
	return func(d *Dictionary) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDictionary builds a Dictionary from entries. Cold-path lookups scan the
// entries in the order given. The priority list starts empty.
func NewDictionary(entries []Entry, opts ...DictionaryOption) (*Dictionary, error) {
	d := &Dictionary{
		names:    make([]string, 0, len(entries)),
		patterns: make(map[string]Pattern, len(entries)),
		ranked:   make(map[string]bool),
		logger:   zap.NewNop().Sugar(),
	}
	for _, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("dictionary entry with format %q has no name", e.Format)
		}
		if e.Format == "" {
			return nil, fmt.Errorf("dictionary entry %q has no format", e.Name)
		}
		if _, dup := d.patterns[e.Name]; dup {
			return nil, fmt.Errorf("duplicate dictionary entry %q", e.Name)
		}
		d.names = append(d.names, e.Name)
		d.patterns[e.Name] = NewPattern(e.Format)
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Parse parses s with the dictionary patterns, most recently successful
// first. Zone-less inputs are interpreted in loc.
func (d *Dictionary) Parse(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	for _, name := range d.priority {
		if t, ok := d.attempt(name, s, loc); ok {
			return t, nil
		}
	}

	for _, name := range d.names {
		if d.ranked[name] {
			continue
		}
		if t, ok := d.attempt(name, s, loc); ok {
			d.promote(name)
			return t, nil
		}
	}

	return time.Time{}, &FormatNotFoundError{Input: s}
}

// Priority returns a copy of the priority list, most recent first.
func (d *Dictionary) Priority() []string {
	out := make([]string, len(d.priority))
	copy(out, d.priority)
	return out
}

// Names returns the pattern names in scan order.
func (d *Dictionary) Names() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Len returns the number of patterns.
func (d *Dictionary) Len() int {
	return len(d.names)
}

// Format returns the pattern string registered under name.
func (d *Dictionary) Format(name string) (string, bool) {
	p, ok := d.patterns[name]
	return p.String(), ok
}

func (d *Dictionary) attempt(name, s string, loc *time.Location) (time.Time, bool) {
	p, ok := d.patterns[name]
	if !ok {
		return time.Time{}, false
	}
	if d.onAttempt != nil {
		d.onAttempt(name)
	}
	t, err := p.Parse(s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (d *Dictionary) promote(name string) {
	if d.ranked[name] {
		for i, n := range d.priority {
			if n == name {
				d.priority = append(d.priority[:i], d.priority[i+1:]...)
				break
			}
		}
	}
	d.priority = append([]string{name}, d.priority...)
	d.ranked[name] = true
	d.logger.Debugw("Promoted dictionary format", "name", name, "priority", d.priority)
}
