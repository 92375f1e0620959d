package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"localpuppet.io/cli/internal/core/domain"
	"localpuppet.io/cli/internal/infrastructure/logging"
)

// ConfigValidator validates configuration values
type ConfigValidator struct{}

// NewConfigValidator creates a new configuration validator
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidatePath requires a non-empty absolute path
func (v *ConfigValidator) ValidatePath(name, path string) error {
	if path == "" {
		return fmt.Errorf("%s cannot be empty", name)
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be an absolute path: %s", name, path)
	}
	return nil
}

// ValidateModuleDir additionally rejects the list separator, which would
// split the module root when joined into --modulepath.
func (v *ConfigValidator) ValidateModuleDir(path string) error {
	if err := v.ValidatePath("module_dir", path); err != nil {
		return err
	}
	if strings.ContainsRune(path, filepath.ListSeparator) {
		return fmt.Errorf("module_dir must not contain %q: %s", filepath.ListSeparator, path)
	}
	return nil
}

// ValidateLogLevel validates log level value
func (v *ConfigValidator) ValidateLogLevel(level string) error {
	if _, err := logging.ParseLevel(level); err != nil {
		return err
	}
	return nil
}

// Validate checks every field and reports all failures together.
func (v *ConfigValidator) Validate(cfg domain.Settings) error {
	var errs []error
	if err := v.ValidateModuleDir(cfg.ModuleDir); err != nil {
		errs = append(errs, err)
	}
	paths := []struct {
		name  string
		value string
	}{
		{"input_path", cfg.InputPath},
		{"output_path", cfg.OutputPath},
		{"manifest_path", cfg.ManifestPath},
		{"enc_path", cfg.ENCPath},
		{"puppet_bin", cfg.PuppetBin},
	}
	for _, p := range paths {
		if err := v.ValidatePath(p.name, p.value); err != nil {
			errs = append(errs, err)
		}
	}
	if err := v.ValidateLogLevel(cfg.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
