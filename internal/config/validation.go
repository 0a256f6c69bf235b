package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

var (
	validLogLevels   = []string{"debug", "info", "warn", "error"}
	validLogFormats  = []string{"text", "json"}
	validPromptModes = []string{PromptAuto, PromptTUI, PromptLine, PromptHeadless}
)

// Validate checks the configuration for correctness and returns every
// problem at once as *ValidationErrors.
func Validate(cfg *Config) error {
	var errs []ValidationError

	if !slices.Contains(validLogLevels, cfg.LogLevel) {
		errs = append(errs, ValidationError{
			Field:   "log_level",
			Message: fmt.Sprintf("must be one of: %s", strings.Join(validLogLevels, ", ")),
			Value:   cfg.LogLevel,
			Wrapped: ErrInvalidLogLevel,
		})
	}
	if !slices.Contains(validLogFormats, cfg.LogFormat) {
		errs = append(errs, ValidationError{
			Field:   "log_format",
			Message: fmt.Sprintf("must be one of: %s", strings.Join(validLogFormats, ", ")),
			Value:   cfg.LogFormat,
			Wrapped: ErrInvalidConfig,
		})
	}
	if !slices.Contains(validPromptModes, cfg.Prompt) {
		errs = append(errs, ValidationError{
			Field:   "prompt",
			Message: fmt.Sprintf("must be one of: %s", strings.Join(validPromptModes, ", ")),
			Value:   cfg.Prompt,
			Wrapped: ErrInvalidPromptMode,
		})
	}
	if cfg.RegistryDir != "" {
		if info, err := os.Stat(cfg.RegistryDir); err != nil || !info.IsDir() {
			errs = append(errs, ValidationError{
				Field:   "registry_dir",
				Message: "must be an existing directory",
				Value:   cfg.RegistryDir,
				Wrapped: ErrInvalidConfig,
			})
		}
	}

	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}
