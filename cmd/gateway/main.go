// Command gateway runs the nbgate notebook execution gateway.
//
// Configuration is layered: built-in defaults, an optional YAML config
// file (-config flag, NBGATE_CONFIG, ./config.yaml, /etc/nbgate/config.yaml),
// then environment variable overrides:
//
//	NBGATE_PORT / GATEWAY_PORT   - Listen port (default: 5005)
//	NBGATE_MAX_NOTEBOOK_MB       - Payload size limit in MiB (default: 5)
//	NBGATE_KERNELS               - Comma-separated kernel allow-list
//	NBGATE_EXTRACT_MODE          - "glue" or "tags"
//	NBGATE_RESULT_TAG            - Tag marking result cells (default: results)
//	NBGATE_START_TIMEOUT         - Kernel startup timeout in seconds
//	NBGATE_EXECUTION_TIMEOUT     - Total execution timeout in seconds
//	NBGATE_DEBUG                 - Debug categories (validate,engine,...)
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/nbgate/nbgate/pkg/config"
	"github.com/nbgate/nbgate/pkg/debug"
	"github.com/nbgate/nbgate/pkg/engine"
	"github.com/nbgate/nbgate/pkg/extract"
	"github.com/nbgate/nbgate/pkg/gateway"
	"github.com/nbgate/nbgate/pkg/precheck"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	debug.Init(cfg.Logging.Debug, cfg.Logging.Level)
	logger := slog.Default()

	runner := engine.New(engine.Config{
		Bin:              cfg.Engine.Bin,
		StartTimeout:     cfg.Engine.StartTimeout,
		ExecutionTimeout: cfg.Engine.ExecutionTimeout,
		WorkRoot:         cfg.Engine.WorkRoot,
	}, logger)
	if !runner.Available() {
		logger.Warn("papermill not found on PATH; executions will fail", "bin", cfg.Engine.Bin)
	}

	var extractor extract.Extractor
	switch cfg.Extract.Mode {
	case "tags":
		extractor = extract.TagScan{Tag: cfg.Extract.Tag}
	default:
		extractor = extract.Glue{}
	}

	var checker *precheck.Checker
	if cfg.PrecheckEnabled() {
		checker = precheck.New(cfg.Engine.Python, logger)
	}

	gw := gateway.New(cfg, runner, extractor, checker, logger)

	logger.Info("gateway starting",
		"port", cfg.Server.Port,
		"extract_mode", cfg.Extract.Mode,
		"max_notebook_mib", cfg.Notebook.MaxSizeMiB,
	)
	return gateway.NewServer(gw, cfg.Server, logger).ListenAndServe()
}
