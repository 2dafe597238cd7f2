package api

import (
	"encoding/json"
	"net/http"
)

// RunResponse is the success body of POST /run.
type RunResponse struct {
	Results map[string]any `json:"results"`
}

// HealthResponse is the body of GET /.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Engine  string `json:"engine,omitempty"`
}

// MetricsResponse is the body of GET /metrics: read-only process
// introspection, no side effects.
type MetricsResponse struct {
	Service       string         `json:"service"`
	UptimeSeconds float64        `json:"uptime_seconds"`
	MemoryUsageMB float64        `json:"memory_usage_mb"`
	CPUPercent    float64        `json:"cpu_percent"`
	Config        map[string]any `json:"config"`
}

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteError writes an ExecutionError response, deriving the status code
// from the error kind. Validation and size failures use the compact
// {"error": ...} body; every other kind serializes the full error.
func WriteError(w http.ResponseWriter, err *ExecutionError) {
	switch err.Kind {
	case KindValidation, KindSizeExceeded:
		WriteJSON(w, err.HTTPStatus(), map[string]string{"error": err.Message})
	default:
		WriteJSON(w, err.HTTPStatus(), err)
	}
}
