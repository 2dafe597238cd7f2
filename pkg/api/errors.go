package api

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind categorizes an execution error. The kind is serialized as the
// error_type field of error responses.
type ErrorKind string

const (
	// KindValidation covers malformed or disallowed request documents.
	KindValidation ErrorKind = "validation_error"
	// KindSizeExceeded is returned when the payload is over the size limit.
	KindSizeExceeded ErrorKind = "notebook_too_large"
	// KindMissingDependencies is returned when the static precheck found
	// modules that are not importable in the execution environment.
	KindMissingDependencies ErrorKind = "missing_dependencies"
	// KindExecution means user code raised inside a cell. The request was
	// processed; the user's code failed.
	KindExecution ErrorKind = "papermill_execution_error"
	// KindModuleMissing means the engine hit an unresolvable import at
	// runtime, past the static precheck.
	KindModuleMissing ErrorKind = "module_not_found"
	// KindKernelStartup means the interpreter failed to start or crashed
	// outside user code, including undistinguished timeouts.
	KindKernelStartup ErrorKind = "kernel_startup_error"
	// KindExtraction means execution succeeded but result gathering failed.
	KindExtraction ErrorKind = "result_extraction_error"
	// KindGateway wraps any unclassified failure in the gateway itself.
	KindGateway ErrorKind = "gateway_error"
)

// Traceback bounds applied to error responses. Engine tracebacks keep a
// longer tail than gateway traces.
const (
	TracebackTail = 15
	TraceTail     = 10
)

// ExecutionError is the tagged error variant produced once per failed
// request. Kind-specific fields are populated for exactly one kind and
// omitted otherwise.
type ExecutionError struct {
	Kind    ErrorKind `json:"error_type"`
	Message string    `json:"message,omitempty"`

	// execution failures
	Cell       int      `json:"cell,omitempty"`
	Ename      string   `json:"ename,omitempty"`
	Evalue     string   `json:"evalue,omitempty"`
	CellSource string   `json:"cell_source,omitempty"`
	Traceback  []string `json:"traceback,omitempty"`

	// missing dependencies / runtime import failures
	Missing []string `json:"missing,omitempty"`
	Module  string   `json:"module,omitempty"`

	// gateway-side failures
	Trace []string `json:"trace,omitempty"`
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	switch e.Kind {
	case KindExecution:
		return fmt.Sprintf("%s: cell %d: %s: %s", e.Kind, e.Cell, e.Ename, e.Evalue)
	case KindMissingDependencies:
		return fmt.Sprintf("%s: %s", e.Kind, strings.Join(e.Missing, ", "))
	case KindModuleMissing:
		return fmt.Sprintf("%s: %s", e.Kind, e.Module)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
}

// HTTPStatus maps an error kind to its response status code.
func (e *ExecutionError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindSizeExceeded:
		return http.StatusRequestEntityTooLarge
	case KindMissingDependencies, KindExecution:
		return http.StatusUnprocessableEntity
	case KindModuleMissing:
		return http.StatusBadRequest
	case KindKernelStartup, KindExtraction, KindGateway:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// NewValidationError creates an error for a malformed or disallowed request.
func NewValidationError(message string) *ExecutionError {
	return &ExecutionError{Kind: KindValidation, Message: message}
}

// NewSizeExceededError creates an error for a payload over the size limit.
func NewSizeExceededError() *ExecutionError {
	return &ExecutionError{Kind: KindSizeExceeded, Message: "Notebook too large"}
}

// NewMissingDependenciesError creates an error listing unimportable modules.
func NewMissingDependenciesError(missing []string) *ExecutionError {
	return &ExecutionError{
		Kind:    KindMissingDependencies,
		Message: "notebook imports modules that are not installed",
		Missing: missing,
	}
}

// NewExecutionFailure creates an error for user code raising inside a cell.
// cell is the 1-based failing cell index; cellSource may be empty when the
// index could not be resolved against the original document.
func NewExecutionFailure(cell int, ename, evalue, cellSource string, traceback []string) *ExecutionError {
	return &ExecutionError{
		Kind:       KindExecution,
		Cell:       cell,
		Ename:      ename,
		Evalue:     evalue,
		CellSource: cellSource,
		Traceback:  traceback,
	}
}

// NewModuleMissingError creates an error for an engine-detected
// unresolvable import at runtime.
func NewModuleMissingError(module, evalue string) *ExecutionError {
	return &ExecutionError{Kind: KindModuleMissing, Module: module, Message: evalue}
}

// NewKernelStartupError creates an error for interpreter bring-up failures.
func NewKernelStartupError(message string, trace []string) *ExecutionError {
	return &ExecutionError{Kind: KindKernelStartup, Message: message, Trace: trace}
}

// NewExtractionError creates an error for result gathering failing after a
// successful execution.
func NewExtractionError(err error) *ExecutionError {
	return &ExecutionError{Kind: KindExtraction, Message: err.Error()}
}

// NewGatewayError wraps an unclassified failure in the gateway itself.
func NewGatewayError(message string, trace []string) *ExecutionError {
	return &ExecutionError{Kind: KindGateway, Message: message, Trace: trace}
}
