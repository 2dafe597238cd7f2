// Package gateway wires the request pipeline (validation, dependency
// precheck, execution, result extraction) behind the HTTP surface.
package gateway

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nbgate/nbgate/pkg/api"
	"github.com/nbgate/nbgate/pkg/config"
	"github.com/nbgate/nbgate/pkg/debug"
	"github.com/nbgate/nbgate/pkg/engine"
	"github.com/nbgate/nbgate/pkg/extract"
	"github.com/nbgate/nbgate/pkg/observability"
	"github.com/nbgate/nbgate/pkg/precheck"
	"github.com/nbgate/nbgate/pkg/validate"
)

// ServiceName identifies the gateway in health and metrics bodies.
const ServiceName = "papermill-gateway"

// Gateway handles the HTTP surface. All state besides the start-time
// clock reference is immutable after construction; request isolation is
// the engine's job.
type Gateway struct {
	cfg       *config.Config
	validator validate.Config
	checker   *precheck.Checker // nil when the precheck is disabled
	runner    engine.Runner
	extractor extract.Extractor
	started   time.Time
	logger    *slog.Logger
}

// New creates a Gateway. checker may be nil to disable the dependency
// precheck.
func New(cfg *config.Config, runner engine.Runner, extractor extract.Extractor, checker *precheck.Checker, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		cfg: cfg,
		validator: validate.Config{
			MaxNotebookBytes: cfg.MaxNotebookBytes(),
			AllowedKernels:   cfg.Notebook.AllowedKernels,
			AllowedLanguages: cfg.Notebook.AllowedLanguages,
		},
		checker:   checker,
		runner:    runner,
		extractor: extractor,
		started:   time.Now(),
		logger:    logger,
	}
}

// Handler returns the gateway's http.Handler with the default middleware
// chain applied.
func (g *Gateway) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", g.handleHealth)
	mux.HandleFunc("GET /metrics", g.handleMetrics)
	mux.HandleFunc("POST /run", g.handleRun)

	if g.cfg.Observability.Metrics.Enabled {
		mux.Handle("GET "+g.cfg.Observability.Metrics.Path, promhttp.Handler())
	}

	var h http.Handler = mux
	h = recoveryMiddleware(h)
	h = observability.MetricsMiddleware(h)
	h = loggingMiddleware(g.logger, h)
	h = requestIDMiddleware(h)
	return h
}

// handleHealth handles GET /.
func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := api.HealthResponse{Status: "healthy", Service: ServiceName}
	if probe, ok := g.runner.(interface{ Available() bool }); ok {
		if probe.Available() {
			resp.Engine = "available"
		} else {
			resp.Engine = "unavailable"
		}
	}
	api.WriteJSON(w, http.StatusOK, resp)
}

// handleMetrics handles GET /metrics: read-only process and configuration
// introspection.
func (g *Gateway) handleMetrics(w http.ResponseWriter, r *http.Request) {
	stats := observability.Stats(g.started)
	api.WriteJSON(w, http.StatusOK, api.MetricsResponse{
		Service:       ServiceName,
		UptimeSeconds: stats.UptimeSeconds,
		MemoryUsageMB: stats.MemoryMB,
		CPUPercent:    stats.CPUPercent,
		Config:        g.cfg.Summary(),
	})
}

// handleRun handles POST /run: the full pipeline from payload to results.
func (g *Gateway) handleRun(w http.ResponseWriter, r *http.Request) {
	// Fast rejection on the declared transport length, before any read.
	if max := g.validator.MaxNotebookBytes; max > 0 && r.ContentLength > max {
		api.WriteError(w, api.NewSizeExceededError())
		return
	}

	// Framework-level backstop for chunked bodies with no declared length.
	// A non-positive limit means unlimited, as in the validator.
	if g.validator.MaxNotebookBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, g.validator.MaxNotebookBytes)
	}
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			api.WriteError(w, api.NewSizeExceededError())
			return
		}
		api.WriteError(w, api.NewValidationError("reading request body: "+err.Error()))
		return
	}

	doc, vErr := g.validator.Validate(payload)
	if vErr != nil {
		debug.Log("validate", "rejected", "reason", vErr.Message)
		api.WriteError(w, vErr)
		return
	}
	observability.NotebookCells.Observe(float64(len(doc.Cells)))

	if g.checker != nil {
		if pErr := g.checker.Check(r.Context(), doc); pErr != nil {
			debug.Log("precheck", "missing modules", "missing", pErr.Missing)
			api.WriteError(w, pErr)
			return
		}
	}

	start := time.Now()
	executed, execErr := g.runner.Run(r.Context(), doc)
	observability.ExecutionDuration.Observe(time.Since(start).Seconds())
	if execErr != nil {
		observability.ExecutionsTotal.WithLabelValues(string(execErr.Kind)).Inc()
		g.logger.Warn("execution failed",
			"kind", execErr.Kind,
			"request_id", RequestIDFromContext(r.Context()),
			"duration", time.Since(start),
		)
		api.WriteError(w, execErr)
		return
	}
	observability.ExecutionsTotal.WithLabelValues("ok").Inc()

	results, extractErr := g.extractor.Extract(executed)
	if extractErr != nil {
		debug.Log("extract", "extraction failed", "error", extractErr)
		api.WriteError(w, api.NewExtractionError(extractErr))
		return
	}
	if results == nil {
		results = map[string]any{}
	}

	api.WriteJSON(w, http.StatusOK, api.RunResponse{Results: results})
}
