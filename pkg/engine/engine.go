package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nbgate/nbgate/pkg/api"
	"github.com/nbgate/nbgate/pkg/notebook"
)

// Runner executes a validated document and returns the fully executed
// document, or a classified execution error.
type Runner interface {
	Run(ctx context.Context, doc *notebook.Document) (*notebook.Document, *api.ExecutionError)
}

// Config holds the engine invocation settings.
type Config struct {
	// Bin is the papermill executable. Default: "papermill".
	Bin string
	// StartTimeout bounds interpreter bring-up.
	StartTimeout time.Duration
	// ExecutionTimeout bounds total run time across all cells.
	ExecutionTimeout time.Duration
	// WorkRoot is the parent of per-request working directories. Empty
	// means the system temp directory.
	WorkRoot string
}

// DefaultConfig returns the default engine settings.
func DefaultConfig() Config {
	return Config{
		Bin:              "papermill",
		StartTimeout:     60 * time.Second,
		ExecutionTimeout: 300 * time.Second,
	}
}

// Papermill runs documents through the papermill CLI. Each run gets a
// private working directory that is removed on every exit path.
type Papermill struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a papermill runner.
func New(cfg Config, logger *slog.Logger) *Papermill {
	if cfg.Bin == "" {
		cfg.Bin = "papermill"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Papermill{cfg: cfg, logger: logger}
}

// Available reports whether the papermill executable can be found.
func (p *Papermill) Available() bool {
	_, err := exec.LookPath(p.cfg.Bin)
	return err == nil
}

// Run executes the document. The working directory is scoped to exactly
// this call and deleted before Run returns, on success and on every
// failure path.
func (p *Papermill) Run(ctx context.Context, doc *notebook.Document) (*notebook.Document, *api.ExecutionError) {
	dir, err := os.MkdirTemp(p.cfg.WorkRoot, "nbgate-run-*")
	if err != nil {
		return nil, api.NewKernelStartupError("creating working directory: "+err.Error(), nil)
	}
	defer os.RemoveAll(dir)

	inPath := filepath.Join(dir, "input.ipynb")
	outPath := filepath.Join(dir, "output.ipynb")
	if err := doc.WriteFile(inPath); err != nil {
		return nil, api.NewKernelStartupError("writing input notebook: "+err.Error(), nil)
	}

	// Papermill enforces both timeouts itself; the context deadline is the
	// backstop for an engine that ignores its own timeout contract.
	bound := p.cfg.StartTimeout + p.cfg.ExecutionTimeout
	runCtx, cancel := context.WithTimeout(ctx, bound+10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(runCtx, p.cfg.Bin, inPath, outPath,
		"--kernel", doc.Kernel(),
		"--start-timeout", strconv.Itoa(int(p.cfg.StartTimeout.Seconds())),
		"--execution-timeout", strconv.Itoa(int(p.cfg.ExecutionTimeout.Seconds())),
		"--no-progress-bar",
	)
	cmd.Dir = dir

	var stderr strings.Builder
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	p.logger.Debug("papermill finished",
		"kernel", doc.Kernel(),
		"duration", elapsed,
		"error", runErr != nil,
	)

	if runErr == nil {
		executed, err := notebook.ReadFile(outPath)
		if err != nil {
			// The run succeeded but its output cannot be read back; this is
			// a post-processing failure, not an execution failure.
			return nil, execErrToExtraction(err)
		}
		return executed, nil
	}

	if ctx.Err() == context.Canceled {
		// The caller went away; the engine was killed mid-run. Nobody
		// reads the response, so log instead of classifying.
		p.logger.Info("execution cancelled by caller",
			"kernel", doc.Kernel(),
			"duration", elapsed,
		)
		return nil, api.NewGatewayError("execution cancelled", nil)
	}

	if runCtx.Err() == context.DeadlineExceeded {
		return nil, api.NewKernelStartupError(
			fmt.Sprintf("execution did not complete within %s", bound),
			tailTrace(stderr.String()),
		)
	}

	executed, readErr := notebook.ReadFile(outPath)
	if readErr != nil {
		executed = nil
	}
	return nil, Classify(doc, executed, stderr.String())
}

func execErrToExtraction(err error) *api.ExecutionError {
	return api.NewExtractionError(fmt.Errorf("reading executed notebook: %w", err))
}

// tailTrace splits gateway-side diagnostic text into lines and keeps the
// bounded tail.
func tailTrace(text string) []string {
	if text == "" {
		return nil
	}
	return notebook.Tail(notebook.SplitLines(text), api.TraceTail)
}
