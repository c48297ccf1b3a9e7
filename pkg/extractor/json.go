package extractor

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

// JSON reads the timestamp from a field of a JSON object line. The field is
// a gjson path, so nested values ("meta.time") are reachable.
type JSON struct {
	field string
}

// NewJSON creates a JSON extractor for the given field.
func NewJSON(field string) (*JSON, error) {
	if field == "" {
		return nil, errors.New("json field is required")
	}
	return &JSON{field: field}, nil
}

// Name returns "json".
func (j *JSON) Name() string {
	return string(KindJSON)
}

// Extract returns the line and the field's string value.
func (j *JSON) Extract(raw []byte) ([]byte, string, error) {
	if !gjson.ValidBytes(raw) {
		return nil, "", &Error{Extractor: j.Name(), Reason: "malformed line: invalid JSON"}
	}

	value := gjson.GetBytes(raw, j.field)
	if !value.Exists() {
		return nil, "", &Error{Extractor: j.Name(), Reason: fmt.Sprintf("field %q not found", j.field)}
	}
	switch value.Type {
	case gjson.String, gjson.Number:
		return raw, value.String(), nil
	default:
		return nil, "", &Error{
			Extractor: j.Name(),
			Reason:    fmt.Sprintf("field %q is %s, not a string or number", j.field, value.Type),
		}
	}
}

// Rewrite sets the top-level field to ts and re-serializes the object.
// Other values are kept verbatim; keys are emitted in sorted order.
func (j *JSON) Rewrite(raw []byte, ts string) ([]byte, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, &Error{Extractor: j.Name(), Reason: fmt.Sprintf("malformed line: %v", err)}
	}
	if obj == nil {
		return nil, &Error{Extractor: j.Name(), Reason: "line is not a JSON object"}
	}
	if _, ok := obj[j.field]; !ok {
		return nil, &Error{Extractor: j.Name(), Reason: fmt.Sprintf("field %q not found", j.field)}
	}
	value, err := json.Marshal(ts)
	if err != nil {
		return nil, &Error{Extractor: j.Name(), Reason: err.Error()}
	}
	obj[j.field] = value

	out, err := json.Marshal(obj)
	if err != nil {
		return nil, &Error{Extractor: j.Name(), Reason: err.Error()}
	}
	return out, nil
}
