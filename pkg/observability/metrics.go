// Package observability provides Prometheus metrics, HTTP middleware,
// and process introspection for the nbgate gateway.
package observability

import "github.com/prometheus/client_golang/prometheus"

// ExecutionBuckets defines histogram buckets suited for notebook
// execution latencies, ranging from 100ms to the execution timeout scale.
var ExecutionBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300}

var (
	// RequestsTotal counts all HTTP requests by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nbgate_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nbgate_request_duration_seconds",
			Help:    "Request duration",
			Buckets: ExecutionBuckets,
		},
		[]string{"method"},
	)

	// ExecutionsTotal counts notebook executions by outcome: "ok" or the
	// error kind.
	ExecutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nbgate_executions_total",
			Help: "Notebook executions",
		},
		[]string{"status"},
	)

	// ExecutionDuration records end-to-end notebook execution duration
	// in seconds.
	ExecutionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nbgate_execution_duration_seconds",
			Help:    "Notebook execution duration",
			Buckets: ExecutionBuckets,
		},
	)

	// NotebookCells records the cell count of accepted notebooks.
	NotebookCells = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nbgate_notebook_cells",
			Help:    "Cells per accepted notebook",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 200},
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		ExecutionsTotal,
		ExecutionDuration,
		NotebookCells,
	)
}
