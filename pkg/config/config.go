// Package config provides unified configuration for the nbgate gateway.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (NBGATE_ prefix, plus the legacy
//     GATEWAY_PORT variable)
//  4. Validation
package config

import "time"

// Config holds all configuration for the gateway.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Notebook      NotebookConfig      `yaml:"notebook"`
	Engine        EngineConfig        `yaml:"engine"`
	Extract       ExtractConfig       `yaml:"extract"`
	Precheck      PrecheckConfig      `yaml:"precheck"`
	Observability ObservabilityConfig `yaml:"observability"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`             // default: 5005
	ReadTimeout     time.Duration `yaml:"read_timeout"`     // default: 30s
	WriteTimeout    time.Duration `yaml:"write_timeout"`    // default: 0 (unbounded; runs block the writer)
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // default: 10s
}

// NotebookConfig holds validation policy for submitted documents.
type NotebookConfig struct {
	MaxSizeMiB       int      `yaml:"max_size_mib"`      // default: 5
	AllowedKernels   []string `yaml:"allowed_kernels"`   // default: python3, python
	AllowedLanguages []string `yaml:"allowed_languages"` // default: python
}

// EngineConfig holds papermill invocation settings.
type EngineConfig struct {
	Bin              string        `yaml:"bin"`               // default: "papermill"
	Python           string        `yaml:"python"`            // default: "python3", used by the precheck
	StartTimeout     time.Duration `yaml:"start_timeout"`     // default: 60s
	ExecutionTimeout time.Duration `yaml:"execution_timeout"` // default: 300s
	WorkRoot         string        `yaml:"work_root"`         // default: system temp dir
}

// ExtractConfig selects the result extraction strategy.
type ExtractConfig struct {
	Mode string `yaml:"mode"` // "glue" or "tags", default: "glue"
	Tag  string `yaml:"tag"`  // tag-scan marker, default: "results"
}

// PrecheckConfig holds dependency precheck settings.
type PrecheckConfig struct {
	Enabled *bool `yaml:"enabled"` // default: true
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus exposition settings. This is distinct
// from GET /metrics, which serves the JSON introspection body.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/prometheus"
}

// LoggingConfig holds log level and debug category settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // default: "INFO"
	Debug string `yaml:"debug"` // comma-separated debug categories
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	enabled := true
	return Config{
		Server: ServerConfig{
			Port:            5005,
			ReadTimeout:     30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Notebook: NotebookConfig{
			MaxSizeMiB:       5,
			AllowedKernels:   []string{"python3", "python"},
			AllowedLanguages: []string{"python"},
		},
		Engine: EngineConfig{
			Bin:              "papermill",
			Python:           "python3",
			StartTimeout:     60 * time.Second,
			ExecutionTimeout: 300 * time.Second,
		},
		Extract: ExtractConfig{
			Mode: "glue",
			Tag:  "results",
		},
		Precheck: PrecheckConfig{
			Enabled: &enabled,
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/prometheus",
			},
		},
		Logging: LoggingConfig{
			Level: "INFO",
		},
	}
}

// MaxNotebookBytes returns the size limit in bytes.
func (c *Config) MaxNotebookBytes() int64 {
	return int64(c.Notebook.MaxSizeMiB) << 20
}

// PrecheckEnabled resolves the precheck toggle, defaulting to true.
func (c *Config) PrecheckEnabled() bool {
	return c.Precheck.Enabled == nil || *c.Precheck.Enabled
}

// Summary returns the read-only configuration view exposed by the
// metrics endpoint.
func (c *Config) Summary() map[string]any {
	return map[string]any{
		"max_notebook_size_mb":      c.Notebook.MaxSizeMiB,
		"allowed_kernels":           c.Notebook.AllowedKernels,
		"allowed_languages":         c.Notebook.AllowedLanguages,
		"extraction_mode":           c.Extract.Mode,
		"result_tag":                c.Extract.Tag,
		"precheck_enabled":          c.PrecheckEnabled(),
		"start_timeout_seconds":     int(c.Engine.StartTimeout.Seconds()),
		"execution_timeout_seconds": int(c.Engine.ExecutionTimeout.Seconds()),
	}
}
