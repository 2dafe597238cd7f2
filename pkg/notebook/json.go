package notebook

import (
	"encoding/json"
	"errors"
	"strings"
)

// MultilineString is text that nbformat serializes either as a single
// string or as an array of line fragments. Both forms decode to the
// joined text.
type MultilineString string

// UnmarshalJSON accepts a JSON string or an array of strings.
func (s *MultilineString) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = MultilineString(single)
		return nil
	}

	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return errors.New("source must be a string or an array of strings")
	}
	*s = MultilineString(strings.Join(lines, ""))
	return nil
}

// MarshalJSON serializes as a single string.
func (s MultilineString) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (s MultilineString) String() string {
	return string(s)
}

// TracebackLines is a traceback that may arrive from the engine as an
// already-split sequence of lines or as one block of text. Decoding
// normalizes to a sequence of logical lines so truncation always operates
// on line boundaries.
type TracebackLines []string

// UnmarshalJSON accepts an array of strings or a single block of text.
func (t *TracebackLines) UnmarshalJSON(data []byte) error {
	var lines []string
	if err := json.Unmarshal(data, &lines); err == nil {
		*t = lines
		return nil
	}

	var block string
	if err := json.Unmarshal(data, &block); err != nil {
		return errors.New("traceback must be a string or an array of strings")
	}
	*t = SplitLines(block)
	return nil
}

// SplitLines splits a block of text into logical lines, dropping a single
// trailing empty line produced by a terminating newline.
func SplitLines(block string) []string {
	lines := strings.Split(block, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

// RawValue is an unparsed MIME representation from an output's data
// mapping. It stays raw until an extractor decides how to interpret it.
type RawValue []byte

// MarshalJSON returns the raw bytes unchanged.
func (v RawValue) MarshalJSON() ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	return v, nil
}

// UnmarshalJSON stores a copy of the raw bytes.
func (v *RawValue) UnmarshalJSON(data []byte) error {
	*v = append((*v)[0:0], data...)
	return nil
}

// Decode unmarshals the raw value into dst.
func (v RawValue) Decode(dst any) error {
	return json.Unmarshal(v, dst)
}

// Text returns the value as plain text. String values decode directly;
// multiline arrays join. Anything else returns the empty string.
func (v RawValue) Text() string {
	var s MultilineString
	if err := json.Unmarshal(v, &s); err != nil {
		return ""
	}
	return s.String()
}
