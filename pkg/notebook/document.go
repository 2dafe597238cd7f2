package notebook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Sentinel errors for structural document failures.
var (
	ErrEmptyPayload = errors.New("empty payload")
	ErrMissingCells = errors.New("notebook has no cells attribute")
)

// Document pairs the parsed notebook with the exact bytes it was parsed
// from, so the engine receives the document as submitted rather than a
// lossy re-serialization.
type Document struct {
	Notebook

	raw []byte
}

// Raw returns the serialized form of the document.
func (d *Document) Raw() []byte {
	return d.raw
}

// Unwrap peels common request-envelope shapes off a payload: a JSON array
// yields its first element, a {"notebook": ...} wrapper yields the wrapped
// value, anything else is returned as the document itself. Array and
// wrapper forms compose (an array may contain a wrapper).
func Unwrap(payload []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, ErrEmptyPayload
	}

	switch trimmed[0] {
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(trimmed, &elems); err != nil {
			return nil, fmt.Errorf("malformed JSON: %w", err)
		}
		if len(elems) == 0 {
			return nil, ErrEmptyPayload
		}
		return Unwrap(elems[0])
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return nil, fmt.Errorf("malformed JSON: %w", err)
		}
		if wrapped, ok := fields["notebook"]; ok {
			return wrapped, nil
		}
		return trimmed, nil
	default:
		return nil, errors.New("payload must be a JSON object or array")
	}
}

// Parse unwraps a request payload and parses it into a Document. The
// unwrapped value must be an object carrying a cells attribute; parse
// failures report the underlying structural reason.
func Parse(payload []byte) (*Document, error) {
	raw, err := Unwrap(payload)
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("malformed JSON: %w", err)
	}
	if _, ok := fields["cells"]; !ok {
		return nil, ErrMissingCells
	}

	var nb Notebook
	if err := json.Unmarshal(raw, &nb); err != nil {
		return nil, fmt.Errorf("malformed notebook: %w", err)
	}

	return &Document{Notebook: nb, raw: raw}, nil
}

// WriteFile serializes the document to path in its original form.
func (d *Document) WriteFile(path string) error {
	return os.WriteFile(path, d.raw, 0o644)
}

// ReadFile parses a document from a file, typically the executed output
// written by the engine.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}
