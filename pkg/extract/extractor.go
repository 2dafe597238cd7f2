// Package extract gathers named result values from an executed notebook
// and normalizes them into JSON-safe form.
//
// Two strategies implement the same interface: the glue extractor reads
// the structured registry cells record during execution, the tag-scan
// extractor falls back to metadata tags over cell outputs. The strategy
// is selected by configuration, not per request.
package extract

import (
	"fmt"
	"sort"

	"github.com/nbgate/nbgate/pkg/notebook"
)

// ScrapMediaType is the MIME type under which the glue mechanism
// (scrapbook) records named values in cell outputs.
const ScrapMediaType = "application/scrapbook.scrap.json+json"

// DefaultResultTag marks result-bearing cells for the tag-scan strategy.
const DefaultResultTag = "results"

// Extractor produces the result mapping from an executed document.
type Extractor interface {
	Extract(doc *notebook.Document) (map[string]any, error)
}

// Glue extracts values from the structured glue registry: every scrap
// output recorded during execution contributes one entry under its
// user-assigned name. Duplicate names overwrite in document order, so the
// last write wins.
type Glue struct{}

// scrap is one glue registry entry as serialized by scrapbook.
type scrap struct {
	Name    string            `json:"name"`
	Data    notebook.RawValue `json:"data"`
	Encoder string            `json:"encoder,omitempty"`
}

// Extract implements Extractor.
func (Glue) Extract(doc *notebook.Document) (map[string]any, error) {
	results := map[string]any{}
	for _, cell := range doc.Cells {
		for _, out := range cell.Outputs {
			raw, ok := out.Data[ScrapMediaType]
			if !ok {
				continue
			}

			var s scrap
			if err := raw.Decode(&s); err != nil {
				return nil, fmt.Errorf("malformed glue entry: %w", err)
			}
			if s.Name == "" {
				return nil, fmt.Errorf("glue entry without a name")
			}

			var value any
			if err := s.Data.Decode(&value); err != nil {
				return nil, fmt.Errorf("glue entry %q: %w", s.Name, err)
			}
			results[s.Name] = Normalize(value)
		}
	}
	return results, nil
}

// TagScan extracts values from cells marked with the result tag, keyed by
// cell_<execution_count>. Later qualifying outputs of the same cell
// overwrite earlier ones under the same key.
type TagScan struct {
	// Tag is the marker tag. Empty means DefaultResultTag. Matching is
	// case-insensitive.
	Tag string
}

// Extract implements Extractor.
func (t TagScan) Extract(doc *notebook.Document) (map[string]any, error) {
	tag := t.Tag
	if tag == "" {
		tag = DefaultResultTag
	}

	results := map[string]any{}
	for i, cell := range doc.Cells {
		if !cell.HasTag(tag) {
			continue
		}
		for _, out := range cell.Outputs {
			if len(out.Data) == 0 {
				continue
			}
			key := fmt.Sprintf("cell_%d", executionCount(&cell, out, i))
			value, err := dataValue(out.Data)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			results[key] = Normalize(value)
		}
	}
	return results, nil
}

// executionCount resolves the count for the result key: the output's own
// count, then the cell's, then the cell's 1-based position for cells the
// engine never numbered.
func executionCount(cell *notebook.Cell, out notebook.Output, index int) int {
	if out.ExecutionCount != nil {
		return *out.ExecutionCount
	}
	if cell.ExecutionCount != nil {
		return *cell.ExecutionCount
	}
	return index + 1
}

// dataValue picks the representation for a data payload: a structured
// JSON representation when present, otherwise the plain text one. Text
// that parses as JSON is decoded; anything else stays a string.
func dataValue(data map[string]notebook.RawValue) (any, error) {
	if raw, ok := data["application/json"]; ok {
		var v any
		if err := raw.Decode(&v); err != nil {
			return nil, fmt.Errorf("malformed application/json payload: %w", err)
		}
		return v, nil
	}

	if raw, ok := data["text/plain"]; ok {
		text := raw.Text()
		var v any
		if err := (notebook.RawValue)(text).Decode(&v); err == nil {
			return v, nil
		}
		return text, nil
	}

	// Rich-only payloads (images, HTML) have no JSON-safe value; report
	// the available types instead of guessing.
	mimes := make([]string, 0, len(data))
	for mime := range data {
		mimes = append(mimes, mime)
	}
	sort.Strings(mimes)
	return map[string]any{"mime_types": mimes}, nil
}
