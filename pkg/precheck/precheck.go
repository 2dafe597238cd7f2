// Package precheck statically scans notebook code for imported modules
// and flags any that are not installed in the execution environment,
// failing fast before interpreter startup is paid for.
//
// The check is advisory only: any internal failure (including inability
// to enumerate installed modules) skips the check rather than aborting
// the request.
package precheck

import (
	"context"
	"encoding/json"
	"log/slog"
	"os/exec"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nbgate/nbgate/pkg/api"
	"github.com/nbgate/nbgate/pkg/notebook"
)

// importPattern matches "import X" and "from X import ..." statements at
// the start of a line. A lightweight scan, not a parser: dynamic imports
// and unusual formatting are expected to slip through.
var importPattern = regexp.MustCompile(`(?m)^[ \t]*(?:import[ \t]+([A-Za-z_][\w.]*)|from[ \t]+([A-Za-z_][\w.]*)[ \t]+import\b)`)

// packageAliases maps module names to the distribution names they are
// installed under. Small and deliberately incomplete; unflagged missing
// modules are acceptable.
var packageAliases = map[string]string{
	"cv2":     "opencv-python",
	"PIL":     "pillow",
	"sklearn": "scikit-learn",
	"yaml":    "pyyaml",
	"bs4":     "beautifulsoup4",
}

// enumerateTimeout bounds the one-off interpreter call that lists
// installed modules.
const enumerateTimeout = 20 * time.Second

// Enumerator lists the top-level modules available in the execution
// environment.
type Enumerator func(ctx context.Context) (map[string]bool, error)

// Checker scans code cells for imports of unavailable modules. The
// installed-module set is enumerated once, on first use.
type Checker struct {
	enumerate Enumerator
	logger    *slog.Logger

	once      sync.Once
	installed map[string]bool
}

// New creates a Checker that enumerates installed modules by asking the
// given Python interpreter.
func New(python string, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{enumerate: pythonEnumerator(python), logger: logger}
}

// NewWithEnumerator creates a Checker with a custom module enumerator.
func NewWithEnumerator(enumerate Enumerator, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{enumerate: enumerate, logger: logger}
}

// Check scans the document's code cells and returns a missing_dependencies
// error when referenced modules are unavailable. It returns nil when all
// referenced modules are present or when the check cannot be performed.
func (c *Checker) Check(ctx context.Context, doc *notebook.Document) *api.ExecutionError {
	referenced := ScanImports(doc)
	if len(referenced) == 0 {
		return nil
	}

	c.once.Do(func() {
		// Deliberately not the request context: one cancelled request must
		// not disable the precheck for the lifetime of the process.
		installed, err := c.enumerate(context.Background())
		if err != nil {
			c.logger.Warn("dependency precheck disabled: cannot enumerate installed modules", "error", err)
			return
		}
		c.installed = installed
	})
	if c.installed == nil {
		return nil
	}

	seen := map[string]bool{}
	var missing []string
	for _, module := range referenced {
		if c.installed[module] {
			continue
		}
		name := module
		if alias, ok := packageAliases[module]; ok {
			name = alias
		}
		if !seen[name] {
			seen[name] = true
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	sort.Strings(missing)
	return api.NewMissingDependenciesError(missing)
}

// ScanImports collects the deduplicated top-level module names referenced
// by import statements across the document's code cells, in first-seen
// order.
func ScanImports(doc *notebook.Document) []string {
	seen := map[string]bool{}
	var modules []string
	for _, cell := range doc.CodeCells() {
		for _, match := range importPattern.FindAllStringSubmatch(cell.Source.String(), -1) {
			name := match[1]
			if name == "" {
				name = match[2]
			}
			// Only the top-level module decides importability.
			if i := strings.IndexByte(name, '.'); i >= 0 {
				name = name[:i]
			}
			if name != "" && !seen[name] {
				seen[name] = true
				modules = append(modules, name)
			}
		}
	}
	return modules
}

// pythonEnumerator asks the interpreter for its importable top-level
// modules: the stdlib set plus everything pkgutil can see on sys.path.
func pythonEnumerator(python string) Enumerator {
	const script = `import json, sys, pkgutil
names = set(getattr(sys, "stdlib_module_names", ()))
names.update(m.name for m in pkgutil.iter_modules())
print(json.dumps(sorted(names)))`

	return func(ctx context.Context) (map[string]bool, error) {
		ctx, cancel := context.WithTimeout(ctx, enumerateTimeout)
		defer cancel()

		out, err := exec.CommandContext(ctx, python, "-c", script).Output()
		if err != nil {
			return nil, err
		}

		var names []string
		if err := json.Unmarshal(out, &names); err != nil {
			return nil, err
		}

		installed := make(map[string]bool, len(names))
		for _, n := range names {
			installed[n] = true
		}
		return installed, nil
	}
}
