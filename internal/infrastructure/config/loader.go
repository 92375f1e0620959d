package config

import (
	"fmt"
	"os"
	"strings"

	"localpuppet.io/cli/internal/core/domain"
)

// Source applies one layer of configuration
type Source interface {
	Apply(cfg *domain.Settings) error
	Name() string
}

// Loader resolves settings from defaults, then each source in order.
type Loader struct {
	sources   []Source
	validator *ConfigValidator
}

// NewLoader returns the standard chain: defaults, config file, environment.
// LOCALPUPPET_CONFIG selects the file and makes it mandatory.
func NewLoader() *Loader {
	path := strings.TrimSpace(os.Getenv(EnvConfigFile))
	required := path != ""
	if !required {
		path = DefaultConfigPath
	}
	return NewLoaderWithSources(NewFileLoader(path, required), NewEnvLoader())
}

// NewLoaderWithSources creates a loader applying sources in the given order
func NewLoaderWithSources(sources ...Source) *Loader {
	return &Loader{
		sources:   sources,
		validator: NewConfigValidator(),
	}
}

// Load resolves and validates settings.
func (l *Loader) Load() (domain.Settings, error) {
	cfg := domain.DefaultSettings()
	for _, source := range l.sources {
		if err := source.Apply(&cfg); err != nil {
			return domain.Settings{}, err
		}
	}
	if err := l.validator.Validate(cfg); err != nil {
		return domain.Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}
