package extract

import (
	"encoding/json"
	"time"
)

// Capability interfaces probed by Normalize, in priority order. Rich
// values declare the shape they can decompose into instead of the
// normalizer branching on concrete types.

// Tabular is a frame that decomposes into columns, index, and row-major
// values (the "split" orientation).
type Tabular interface {
	SplitFrame() (columns []string, index []any, rows [][]any)
}

// Flattener is a one-dimensional labeled series or a scalar numeric
// wrapper that flattens to a plain ordered sequence of primitives.
type Flattener interface {
	Flatten() []any
}

// ArrayConvertible is any remaining value exposing an array-like
// conversion.
type ArrayConvertible interface {
	AsArray() []any
}

// Normalize recursively converts a value into wire-representable form:
// null, boolean, number, string, ordered array, or string-keyed mapping.
// Tabular structure is preserved in split orientation with timestamps
// rendered as ISO-8601 strings. Values with none of the probed
// capabilities pass through unchanged and must already be wire-safe.
// Inputs are assumed acyclic.
func Normalize(v any) any {
	switch t := v.(type) {
	case nil, bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number:
		return t
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	}

	if frame, ok := v.(Tabular); ok {
		columns, index, rows := frame.SplitFrame()
		data := make([]any, len(rows))
		for i, row := range rows {
			data[i] = normalizeSlice(row)
		}
		return map[string]any{
			"columns": columns,
			"index":   normalizeSlice(index),
			"data":    data,
		}
	}

	if series, ok := v.(Flattener); ok {
		return normalizeSlice(series.Flatten())
	}

	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = Normalize(val)
		}
		return m
	case []any:
		return normalizeSlice(t)
	}

	if arr, ok := v.(ArrayConvertible); ok {
		return normalizeSlice(arr.AsArray())
	}

	return v
}

func normalizeSlice(vals []any) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = Normalize(v)
	}
	return out
}
