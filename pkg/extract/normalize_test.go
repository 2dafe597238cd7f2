package extract

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testFrame is a minimal tabular value for probing the split-form path.
type testFrame struct {
	columns []string
	index   []any
	rows    [][]any
}

func (f testFrame) SplitFrame() ([]string, []any, [][]any) {
	return f.columns, f.index, f.rows
}

type testSeries struct{ vals []any }

func (s testSeries) Flatten() []any { return s.vals }

type testArray struct{ vals []any }

func (a testArray) AsArray() []any { return a.vals }

func TestNormalize_Scalars(t *testing.T) {
	for _, v := range []any{nil, true, "text", 42, int64(-7), 3.5, json.Number("9.1")} {
		assert.Equal(t, v, Normalize(v))
	}
}

func TestNormalize_Timestamps(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	ts := time.Date(2024, 3, 1, 13, 30, 0, 250000000, loc)

	assert.Equal(t, "2024-03-01T12:30:00.25Z", Normalize(ts))
}

func TestNormalize_TabularSplitForm(t *testing.T) {
	ts := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	frame := testFrame{
		columns: []string{"name", "seen"},
		index:   []any{0, 1},
		rows: [][]any{
			{"a", ts},
			{"b", nil},
		},
	}

	got := Normalize(frame)
	assert.Equal(t, map[string]any{
		"columns": []string{"name", "seen"},
		"index":   []any{0, 1},
		"data": []any{
			[]any{"a", "2024-01-02T00:00:00Z"},
			[]any{"b", nil},
		},
	}, got)
}

func TestNormalize_FlattenerAndArrayConvertible(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	assert.Equal(t, []any{1, "2024-01-02T03:04:05Z"},
		Normalize(testSeries{vals: []any{1, ts}}))
	assert.Equal(t, []any{true, "2024-01-02T03:04:05Z"},
		Normalize(testArray{vals: []any{true, ts}}))
}

func TestNormalize_RecursesIntoContainers(t *testing.T) {
	ts := time.Date(2024, 6, 7, 8, 9, 10, 0, time.UTC)
	got := Normalize(map[string]any{
		"when":   ts,
		"nested": []any{map[string]any{"at": ts}},
	})

	assert.Equal(t, map[string]any{
		"when":   "2024-06-07T08:09:10Z",
		"nested": []any{map[string]any{"at": "2024-06-07T08:09:10Z"}},
	}, got)
}

// Normalized tabular output must survive a JSON round trip with its shape
// intact: same columns, same row count, same row widths.
func TestNormalize_TabularSurvivesJSONRoundTrip(t *testing.T) {
	frame := testFrame{
		columns: []string{"x", "y"},
		index:   []any{"r1", "r2", "r3"},
		rows: [][]any{
			{1, 2.5},
			{3, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
			{nil, "s"},
		},
	}

	encoded, err := json.Marshal(Normalize(frame))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(encoded, &decoded))

	assert.Equal(t, []any{"x", "y"}, decoded["columns"])
	rows, ok := decoded["data"].([]any)
	require.True(t, ok)
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Len(t, row, 2)
	}
	assert.Len(t, decoded["index"], 3)
}

func TestNormalize_UnknownValuePassesThrough(t *testing.T) {
	type opaque struct{ A int }
	v := opaque{A: 1}
	assert.Equal(t, v, Normalize(v))
}
