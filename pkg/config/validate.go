package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server.port must be > 0, got %d", c.Server.Port))
	}

	if c.Notebook.MaxSizeMiB <= 0 {
		errs = append(errs, fmt.Errorf("notebook.max_size_mib must be > 0, got %d", c.Notebook.MaxSizeMiB))
	}
	if len(c.Notebook.AllowedKernels) == 0 {
		errs = append(errs, fmt.Errorf("notebook.allowed_kernels must not be empty"))
	}
	if len(c.Notebook.AllowedLanguages) == 0 {
		errs = append(errs, fmt.Errorf("notebook.allowed_languages must not be empty"))
	}

	if c.Engine.StartTimeout <= 0 {
		errs = append(errs, fmt.Errorf("engine.start_timeout must be > 0, got %s", c.Engine.StartTimeout))
	}
	if c.Engine.ExecutionTimeout <= 0 {
		errs = append(errs, fmt.Errorf("engine.execution_timeout must be > 0, got %s", c.Engine.ExecutionTimeout))
	}

	switch c.Extract.Mode {
	case "glue", "tags":
		// valid
	default:
		errs = append(errs, fmt.Errorf("extract.mode must be \"glue\" or \"tags\", got %q", c.Extract.Mode))
	}
	if c.Extract.Tag == "" {
		errs = append(errs, fmt.Errorf("extract.tag must not be empty"))
	}

	return errors.Join(errs...)
}
