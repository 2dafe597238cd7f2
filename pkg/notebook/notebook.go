package notebook

import (
	"strings"
)

// Cell types as they appear in the nbformat cell_type field.
const (
	CellTypeCode     = "code"
	CellTypeMarkdown = "markdown"
)

// Output types as they appear in the nbformat output_type field.
const (
	OutputTypeStream        = "stream"
	OutputTypeExecuteResult = "execute_result"
	OutputTypeDisplayData   = "display_data"
	OutputTypeError         = "error"
)

// Defaults applied when the document metadata does not declare a kernel
// or language.
const (
	DefaultKernel   = "python3"
	DefaultLanguage = "python"
)

// Notebook is the parsed document: ordered cells plus process-wide metadata.
type Notebook struct {
	Cells         []Cell   `json:"cells"`
	Metadata      Metadata `json:"metadata,omitempty"`
	NBFormat      int      `json:"nbformat,omitempty"`
	NBFormatMinor int      `json:"nbformat_minor,omitempty"`
}

// Metadata holds the process-wide notebook metadata the gateway reads.
type Metadata struct {
	Kernelspec   *Kernelspec   `json:"kernelspec,omitempty"`
	LanguageInfo *LanguageInfo `json:"language_info,omitempty"`
}

// Kernelspec declares the interpreter identity requested for execution.
type Kernelspec struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
	Language    string `json:"language,omitempty"`
}

// LanguageInfo declares the language of the notebook's code cells.
type LanguageInfo struct {
	Name string `json:"name"`
}

// Cell is one unit of source within a document.
type Cell struct {
	Type           string          `json:"cell_type"`
	Source         MultilineString `json:"source"`
	Metadata       CellMetadata    `json:"metadata"`
	ExecutionCount *int            `json:"execution_count,omitempty"`
	Outputs        []Output        `json:"outputs,omitempty"`
}

// CellMetadata holds the per-cell metadata the gateway reads: the cell's
// own tag set and the engine-specific namespace papermill writes during
// execution.
type CellMetadata struct {
	Tags      []string       `json:"tags,omitempty"`
	Papermill *PapermillMeta `json:"papermill,omitempty"`
}

// PapermillMeta is the engine-specific cell namespace. Tags may be nested
// here, and the engine records per-cell execution status in it.
type PapermillMeta struct {
	Tags      []string `json:"tags,omitempty"`
	Exception *bool    `json:"exception,omitempty"`
	Status    string   `json:"status,omitempty"`
}

// Output is the tagged variant attached to a cell by the execution engine.
// Exactly one group of fields is populated depending on Type.
type Output struct {
	Type string `json:"output_type"`

	// stream
	Name string          `json:"name,omitempty"`
	Text MultilineString `json:"text,omitempty"`

	// execute_result / display_data
	Data           map[string]RawValue `json:"data,omitempty"`
	ExecutionCount *int                `json:"execution_count,omitempty"`

	// error
	Ename     string         `json:"ename,omitempty"`
	Evalue    string         `json:"evalue,omitempty"`
	Traceback TracebackLines `json:"traceback,omitempty"`
}

// Kernel returns the declared kernel identifier, or DefaultKernel when
// the document does not declare one.
func (n *Notebook) Kernel() string {
	if n.Metadata.Kernelspec != nil && n.Metadata.Kernelspec.Name != "" {
		return n.Metadata.Kernelspec.Name
	}
	return DefaultKernel
}

// Language returns the declared language identifier, or DefaultLanguage
// when the document does not declare one.
func (n *Notebook) Language() string {
	if n.Metadata.LanguageInfo != nil && n.Metadata.LanguageInfo.Name != "" {
		return n.Metadata.LanguageInfo.Name
	}
	return DefaultLanguage
}

// CodeCells returns the code cells in document order.
func (n *Notebook) CodeCells() []Cell {
	var cells []Cell
	for _, c := range n.Cells {
		if c.Type == CellTypeCode {
			cells = append(cells, c)
		}
	}
	return cells
}

// SourceAt returns the source text of the cell at the given 1-based index.
// Out-of-range indices return an empty string; a stale index from the
// engine must not fail the error report.
func (n *Notebook) SourceAt(index int) string {
	if index < 1 || index > len(n.Cells) {
		return ""
	}
	return n.Cells[index-1].Source.String()
}

// HasTag reports whether the cell carries the given tag, either in its
// own tag set or in the engine-specific nested namespace. Matching is
// case-insensitive after trimming whitespace.
func (c Cell) HasTag(tag string) bool {
	if containsTag(c.Metadata.Tags, tag) {
		return true
	}
	if c.Metadata.Papermill != nil && containsTag(c.Metadata.Papermill.Tags, tag) {
		return true
	}
	return false
}

func containsTag(tags []string, want string) bool {
	want = strings.TrimSpace(want)
	for _, t := range tags {
		if strings.EqualFold(strings.TrimSpace(t), want) {
			return true
		}
	}
	return false
}

// ErrorOutput returns the first error output of the cell, or nil.
func (c Cell) ErrorOutput() *Output {
	for i := range c.Outputs {
		if c.Outputs[i].Type == OutputTypeError {
			return &c.Outputs[i]
		}
	}
	return nil
}

// Failed reports whether the engine marked this cell as having raised,
// either via an error output or via the engine-specific status metadata.
func (c Cell) Failed() bool {
	if c.ErrorOutput() != nil {
		return true
	}
	pm := c.Metadata.Papermill
	return pm != nil && pm.Exception != nil && *pm.Exception
}

// Tail returns the last n entries of lines. It returns lines unchanged
// when it already has n entries or fewer.
func Tail(lines []string, n int) []string {
	if n <= 0 || len(lines) <= n {
		return lines
	}
	return lines[len(lines)-n:]
}
