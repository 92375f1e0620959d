package modulepath

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"localpuppet.io/cli/internal/core/domain"
)

// ManifestFile is the per-application manifest name.
const ManifestFile = "manifest.yaml"

const keyModulePath = "modulepath"

// Manifest is the parsed content of an application's manifest.yaml.
type Manifest struct {
	// ModulePath lists directories relative to the module root. Nil when the
	// manifest has no modulepath key.
	ModulePath []string
}

// HasModulePath reports whether the manifest declared a modulepath key
func (m Manifest) HasModulePath() bool {
	return m.ModulePath != nil
}

// ParseManifest decodes manifest.yaml content.
func ParseManifest(data []byte) (Manifest, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest: %w", err)
	}

	v, ok := raw[keyModulePath]
	if !ok {
		return Manifest{}, nil
	}
	items, ok := v.([]interface{})
	if !ok {
		return Manifest{}, domain.Violation("manifest %s must be a list, got %T", keyModulePath, v)
	}

	entries := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return Manifest{}, domain.Violation("manifest %s[%d] must be a string, got %T", keyModulePath, i, item)
		}
		entries = append(entries, s)
	}
	return Manifest{ModulePath: entries}, nil
}

// Resolver locates application directories under a module root.
type Resolver struct {
	root   string
	logger zerolog.Logger
}

// NewResolver creates a resolver for the given module root
func NewResolver(root string, logger zerolog.Logger) *Resolver {
	return &Resolver{root: root, logger: logger}
}

// AppDirs returns the module path entries an application declares: the
// application itself followed by its manifest's modulepath.
//
// A manifest without a modulepath key yields an empty list, which leaves the
// application's own directory off the search path. Build rejects that list.
// This matches long-standing behaviour and is kept until the intended
// semantics are confirmed.
func (r *Resolver) AppDirs(app string) ([]string, error) {
	if err := ValidateEntry(app); err != nil {
		return nil, fmt.Errorf("application id: %w", err)
	}

	dir := filepath.Join(r.root, app)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, domain.NewValidationError("Directory doesn't exist: %s", dir)
	}

	manifestPath := filepath.Join(dir, ManifestFile)
	if _, err := os.Stat(manifestPath); err != nil {
		return nil, domain.NewValidationError("Manifest file doesn't exist: %s", manifestPath)
	}

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", manifestPath, err)
	}
	manifest, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", manifestPath, err)
	}

	if !manifest.HasModulePath() {
		r.logger.Warn().Str("app", app).Str("manifest", manifestPath).Msg("manifest has no modulepath")
		return []string{}, nil
	}

	dirs := make([]string, 0, len(manifest.ModulePath)+1)
	dirs = append(dirs, app)
	dirs = append(dirs, manifest.ModulePath...)
	r.logger.Debug().Str("app", app).Strs("dirs", dirs).Msg("resolved application directories")
	return dirs, nil
}
