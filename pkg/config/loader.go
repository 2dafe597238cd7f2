package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. YAML config file (explicit path, NBGATE_CONFIG env, ./config.yaml,
//     /etc/nbgate/config.yaml)
//  3. Environment variable overrides
//  4. Validation
func Load(configPath string) (*Config, error) {
	cfg := Defaults()

	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery order:
// 1. Explicit configPath argument
// 2. NBGATE_CONFIG environment variable
// 3. ./config.yaml in the current directory
// 4. /etc/nbgate/config.yaml
//
// Returns empty string if no config file is found.
func discoverConfigFile(configPath string) string {
	if configPath != "" {
		return configPath
	}

	if envPath := os.Getenv("NBGATE_CONFIG"); envPath != "" {
		return envPath
	}

	candidates := []string{
		"config.yaml",
		"/etc/nbgate/config.yaml",
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadYAMLFile reads and parses a YAML file into the Config struct.
// Fields not present in the YAML retain their current (default) values.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvOverrides maps environment variables to config fields. The
// legacy GATEWAY_PORT variable from earlier deployments is still honored;
// NBGATE_PORT wins when both are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GATEWAY_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("NBGATE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("NBGATE_MAX_NOTEBOOK_MB"); v != "" {
		if size, err := strconv.Atoi(v); err == nil {
			cfg.Notebook.MaxSizeMiB = size
		}
	}
	if v := os.Getenv("NBGATE_KERNELS"); v != "" {
		cfg.Notebook.AllowedKernels = splitList(v)
	}
	if v := os.Getenv("NBGATE_LANGUAGES"); v != "" {
		cfg.Notebook.AllowedLanguages = splitList(v)
	}
	if v := os.Getenv("NBGATE_EXTRACT_MODE"); v != "" {
		cfg.Extract.Mode = v
	}
	if v := os.Getenv("NBGATE_RESULT_TAG"); v != "" {
		cfg.Extract.Tag = v
	}
	if v := os.Getenv("NBGATE_START_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			cfg.Engine.StartTimeout = time.Duration(secs) * time.Second
		}
	}
	if v := os.Getenv("NBGATE_EXECUTION_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			cfg.Engine.ExecutionTimeout = time.Duration(secs) * time.Second
		}
	}
	if v := os.Getenv("NBGATE_PRECHECK"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Precheck.Enabled = &enabled
		}
	}
	if v := os.Getenv("NBGATE_PAPERMILL_BIN"); v != "" {
		cfg.Engine.Bin = v
	}
	if v := os.Getenv("NBGATE_PYTHON"); v != "" {
		cfg.Engine.Python = v
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
