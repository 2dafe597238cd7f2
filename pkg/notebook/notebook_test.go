package notebook

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalNotebook = `{
	"cells": [
		{"cell_type": "markdown", "source": "# Title", "metadata": {}},
		{"cell_type": "code", "source": ["import math\n", "math.pi"], "metadata": {"tags": ["Results"]}}
	],
	"metadata": {
		"kernelspec": {"name": "python3", "display_name": "Python 3"},
		"language_info": {"name": "python"}
	},
	"nbformat": 4,
	"nbformat_minor": 5
}`

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(minimalNotebook))
	require.NoError(t, err)

	require.Len(t, doc.Cells, 2)
	assert.Equal(t, CellTypeMarkdown, doc.Cells[0].Type)
	assert.Equal(t, "import math\nmath.pi", doc.Cells[1].Source.String())
	assert.Equal(t, "python3", doc.Kernel())
	assert.Equal(t, "python", doc.Language())
}

func TestParse_Unwrapping(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"bare object", minimalNotebook},
		{"notebook wrapper", `{"notebook": ` + minimalNotebook + `}`},
		{"singleton array", `[` + minimalNotebook + `]`},
		{"array of wrapper", `[{"notebook": ` + minimalNotebook + `}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.payload))
			require.NoError(t, err)
			assert.Len(t, doc.Cells, 2)
		})
	}
}

func TestParse_Failures(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr error
	}{
		{"empty array", `[]`, ErrEmptyPayload},
		{"blank payload", `   `, ErrEmptyPayload},
		{"missing cells", `{"metadata": {}}`, ErrMissingCells},
		{"wrapped missing cells", `{"notebook": {"metadata": {}}}`, ErrMissingCells},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.payload))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := Parse([]byte(`{"cells": "not an array"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed notebook")

	_, err = Parse([]byte(`{not json`))
	require.Error(t, err)

	_, err = Parse([]byte(`"just a string"`))
	require.Error(t, err)
}

func TestKernelAndLanguageDefaults(t *testing.T) {
	doc, err := Parse([]byte(`{"cells": []}`))
	require.NoError(t, err)
	assert.Equal(t, DefaultKernel, doc.Kernel())
	assert.Equal(t, DefaultLanguage, doc.Language())
}

func TestMultilineString(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"single string", `"a = 1\n"`, "a = 1\n"},
		{"array of lines", `["a = 1\n", "b = 2"]`, "a = 1\nb = 2"},
		{"empty array", `[]`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s MultilineString
			require.NoError(t, json.Unmarshal([]byte(tt.data), &s))
			assert.Equal(t, tt.want, s.String())
		})
	}

	var s MultilineString
	assert.Error(t, json.Unmarshal([]byte(`42`), &s))
}

func TestTracebackLines(t *testing.T) {
	var split TracebackLines
	require.NoError(t, json.Unmarshal([]byte(`["line 1", "line 2"]`), &split))
	assert.Equal(t, TracebackLines{"line 1", "line 2"}, split)

	var block TracebackLines
	require.NoError(t, json.Unmarshal([]byte(`"line 1\nline 2\n"`), &block))
	assert.Equal(t, TracebackLines{"line 1", "line 2"}, block)
}

func TestHasTag(t *testing.T) {
	cell := Cell{Metadata: CellMetadata{Tags: []string{" Results "}}}
	assert.True(t, cell.HasTag("results"))
	assert.False(t, cell.HasTag("other"))

	nested := Cell{Metadata: CellMetadata{
		Papermill: &PapermillMeta{Tags: []string{"RESULTS"}},
	}}
	assert.True(t, nested.HasTag("results"))

	assert.False(t, Cell{}.HasTag("results"))
}

func TestSourceAt(t *testing.T) {
	doc, err := Parse([]byte(minimalNotebook))
	require.NoError(t, err)

	assert.Equal(t, "# Title", doc.SourceAt(1))
	assert.Equal(t, "import math\nmath.pi", doc.SourceAt(2))

	// Bounds-checked: stale indices omit the source instead of failing.
	assert.Equal(t, "", doc.SourceAt(0))
	assert.Equal(t, "", doc.SourceAt(3))
	assert.Equal(t, "", doc.SourceAt(-1))
}

func TestTail(t *testing.T) {
	lines := []string{"a", "b", "c", "d"}
	assert.Equal(t, []string{"c", "d"}, Tail(lines, 2))
	assert.Equal(t, lines, Tail(lines, 4))
	assert.Equal(t, lines, Tail(lines, 10))
}

func TestErrorOutputAndFailed(t *testing.T) {
	var cell Cell
	require.NoError(t, json.Unmarshal([]byte(`{
		"cell_type": "code",
		"source": "1/0",
		"metadata": {"papermill": {"exception": true, "status": "failed"}},
		"outputs": [
			{"output_type": "stream", "name": "stdout", "text": "before\n"},
			{"output_type": "error", "ename": "ZeroDivisionError", "evalue": "division by zero",
			 "traceback": "Traceback (most recent call last):\n  ...\nZeroDivisionError: division by zero"}
		]
	}`), &cell))

	out := cell.ErrorOutput()
	require.NotNil(t, out)
	assert.Equal(t, "ZeroDivisionError", out.Ename)
	assert.Equal(t, 3, len(out.Traceback))
	assert.True(t, cell.Failed())

	flagOnly := Cell{Metadata: CellMetadata{Papermill: &PapermillMeta{Exception: boolPtr(true)}}}
	assert.True(t, flagOnly.Failed())
	assert.False(t, Cell{}.Failed())
}

func TestRoundTripPreservesRaw(t *testing.T) {
	doc, err := Parse([]byte(`{"notebook": ` + minimalNotebook + `}`))
	require.NoError(t, err)
	assert.JSONEq(t, minimalNotebook, string(doc.Raw()))
}

func boolPtr(b bool) *bool { return &b }
