// Package validate checks structural well-formedness and policy
// constraints of a notebook payload before any execution resource is
// allocated.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nbgate/nbgate/pkg/api"
	"github.com/nbgate/nbgate/pkg/notebook"
)

// Config holds the validation limits and allow-lists. The kernel
// allow-list is a policy boundary: it keeps arbitrary kernel selection
// from controlling server-side process execution.
type Config struct {
	MaxNotebookBytes int64
	AllowedKernels   []string
	AllowedLanguages []string
}

// DefaultConfig returns the default validation policy.
func DefaultConfig() Config {
	return Config{
		MaxNotebookBytes: 5 << 20, // 5 MiB
		AllowedKernels:   []string{"python3", "python"},
		AllowedLanguages: []string{"python"},
	}
}

// Validate produces a well-formed Document from a raw request payload, or
// the validation error that rejects it. The size limit is checked against
// the raw payload length before any parsing.
func (c Config) Validate(payload []byte) (*notebook.Document, *api.ExecutionError) {
	if c.MaxNotebookBytes > 0 && int64(len(payload)) > c.MaxNotebookBytes {
		return nil, api.NewSizeExceededError()
	}

	doc, err := notebook.Parse(payload)
	if err != nil {
		switch {
		case errors.Is(err, notebook.ErrEmptyPayload):
			return nil, api.NewValidationError("empty payload")
		case errors.Is(err, notebook.ErrMissingCells):
			return nil, api.NewValidationError("notebook has no cells attribute")
		default:
			return nil, api.NewValidationError(err.Error())
		}
	}

	kernel := doc.Kernel()
	if !allowed(c.AllowedKernels, kernel) {
		return nil, api.NewValidationError(fmt.Sprintf("kernel %q is not allowed", kernel))
	}

	language := doc.Language()
	if !allowed(c.AllowedLanguages, language) {
		return nil, api.NewValidationError(fmt.Sprintf("language %q is not allowed", language))
	}

	return doc, nil
}

func allowed(list []string, value string) bool {
	for _, v := range list {
		if strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}
