package engine

import (
	"regexp"
	"strings"

	"github.com/nbgate/nbgate/pkg/api"
	"github.com/nbgate/nbgate/pkg/notebook"
)

// moduleNamePattern extracts the offending module from a Python import
// failure message like: No module named 'scipy'.
var moduleNamePattern = regexp.MustCompile(`No module named '?([A-Za-z_][\w.]*)'?`)

// Classify maps a failed engine invocation to exactly one error kind.
//
// When the engine produced a (partially) executed document, the first cell
// carrying an error output decides: an unresolvable import becomes a
// module_not_found error, anything else an execution failure with the
// 1-based cell index, exception details, the cell's original source, and
// the bounded traceback tail. Without a usable executed document the
// failure happened before or during interpreter bring-up.
func Classify(original, executed *notebook.Document, stderr string) *api.ExecutionError {
	if executed != nil {
		for i := range executed.Cells {
			cell := &executed.Cells[i]
			if cell.Type != notebook.CellTypeCode || !cell.Failed() {
				continue
			}

			index := i + 1
			var ename, evalue string
			var traceback []string
			if out := cell.ErrorOutput(); out != nil {
				ename = out.Ename
				evalue = out.Evalue
				traceback = out.Traceback
			}

			if isImportFailure(ename) {
				if module := moduleFromMessage(evalue); module != "" {
					return api.NewModuleMissingError(module, evalue)
				}
			}

			// Bounds-checked against the original document; an out-of-range
			// index omits the source rather than failing the report.
			source := original.SourceAt(index)
			return api.NewExecutionFailure(index, ename, evalue, source,
				notebook.Tail(traceback, api.TracebackTail))
		}
	}

	// The kernel itself may die on an import before any cell error output
	// is recorded.
	if module := moduleFromMessage(stderr); module != "" {
		return api.NewModuleMissingError(module, "No module named '"+module+"'")
	}

	message := "kernel failed to start"
	if line := lastNonEmptyLine(stderr); line != "" {
		message = line
	}
	return api.NewKernelStartupError(message, tailTrace(stderr))
}

func isImportFailure(ename string) bool {
	return ename == "ModuleNotFoundError" || ename == "ImportError"
}

func moduleFromMessage(text string) string {
	m := moduleNamePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

func lastNonEmptyLine(text string) string {
	lines := notebook.SplitLines(text)
	for i := len(lines) - 1; i >= 0; i-- {
		if s := strings.TrimSpace(lines[i]); s != "" {
			return s
		}
	}
	return ""
}
