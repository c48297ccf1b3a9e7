// Package config loads and validates format dictionary documents.
//
// A document maps free-form pattern names to an object holding the pattern:
//
//	iso:
//	  fmt: "%Y-%m-%dT%H:%M:%S%z"
//	apache:
//	  fmt: "02/Jan/2006:15:04:05 -0700"
//
// Entry order is preserved and becomes the dictionary's cold scan order.
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Formats is a parsed dictionary document.
type Formats struct {
	// Entries in document order.
	Entries []FormatEntry

	// Path is the file the document was loaded from, if any.
	Path string
}

// FormatEntry is one named pattern.
type FormatEntry struct {
	// Name is the mapping key.
	Name string

	// Fmt is a strftime pattern (contains '%') or a Go time layout.
	Fmt string `yaml:"fmt"`

	// Description is optional free text.
	Description string `yaml:"description,omitempty"`
}

// UnmarshalYAML decodes the top-level mapping, keeping key order.
func (f *Formats) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: document must be a mapping of name to {fmt: ...}", node.Line)
	}

	entries := make([]FormatEntry, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]

		var entry FormatEntry
		if value.Kind != yaml.MappingNode {
			return fmt.Errorf("line %d: %q must be a mapping with a fmt field", value.Line, key.Value)
		}
		if err := value.Decode(&entry); err != nil {
			return fmt.Errorf("line %d: %q: %w", value.Line, key.Value, err)
		}
		entry.Name = key.Value
		entries = append(entries, entry)
	}

	f.Entries = entries
	return nil
}

// MarshalYAML encodes the entries as an ordered mapping.
func (f Formats) MarshalYAML() (interface{}, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range f.Entries {
		value := &yaml.Node{}
		if err := value.Encode(struct {
			Fmt         string `yaml:"fmt"`
			Description string `yaml:"description,omitempty"`
		}{e.Fmt, e.Description}); err != nil {
			return nil, err
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Name},
			value,
		)
	}
	return root, nil
}

// Names returns the entry names in document order.
func (f *Formats) Names() []string {
	names := make([]string, len(f.Entries))
	for i, e := range f.Entries {
		names[i] = e.Name
	}
	return names
}
