package testfixtures

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

// ModuleRootBuilder lays out a module root on disk for tests
type ModuleRootBuilder struct {
	t    testing.TB
	base string
	root string
}

// NewModuleRootBuilder creates an empty module root under a fresh temp dir
func NewModuleRootBuilder(t testing.TB) *ModuleRootBuilder {
	t.Helper()
	base := t.TempDir()
	root := filepath.Join(base, "modules")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("create module root: %v", err)
	}
	return &ModuleRootBuilder{t: t, base: base, root: root}
}

// WithDirs creates plain module directories
func (b *ModuleRootBuilder) WithDirs(names ...string) *ModuleRootBuilder {
	b.t.Helper()
	for _, name := range names {
		if err := os.MkdirAll(filepath.Join(b.root, name), 0o755); err != nil {
			b.t.Fatalf("create %s: %v", name, err)
		}
	}
	return b
}

// WithApp creates an application whose manifest lists modulepath
func (b *ModuleRootBuilder) WithApp(app string, modulepath ...string) *ModuleRootBuilder {
	b.t.Helper()
	if modulepath == nil {
		modulepath = []string{}
	}
	data, err := yaml.Marshal(map[string]interface{}{"modulepath": modulepath})
	if err != nil {
		b.t.Fatalf("marshal manifest: %v", err)
	}
	return b.WithManifest(app, string(data))
}

// WithManifest creates an application with raw manifest content
func (b *ModuleRootBuilder) WithManifest(app, content string) *ModuleRootBuilder {
	b.t.Helper()
	b.WithDirs(app)
	if err := os.WriteFile(filepath.Join(b.root, app, "manifest.yaml"), []byte(content), 0o644); err != nil {
		b.t.Fatalf("write manifest: %v", err)
	}
	return b
}

// WriteFile writes content next to the module root and returns its path
func (b *ModuleRootBuilder) WriteFile(name, content string) string {
	b.t.Helper()
	path := filepath.Join(b.base, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		b.t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// Root returns the module root
func (b *ModuleRootBuilder) Root() string {
	return b.root
}

// Path returns a path beside the module root
func (b *ModuleRootBuilder) Path(name string) string {
	return filepath.Join(b.base, name)
}
