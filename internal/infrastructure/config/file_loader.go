package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"localpuppet.io/cli/internal/core/domain"
)

// DefaultConfigPath is read when LOCALPUPPET_CONFIG is not set.
const DefaultConfigPath = "/etc/puppet/localpuppet.toml"

// localpuppet.toml key mapping to runtime settings.
type fileConfig struct {
	ModuleDir    string `toml:"module_dir"`
	InputPath    string `toml:"input_path"`
	OutputPath   string `toml:"output_path"`
	ManifestPath string `toml:"manifest_path"`
	ENCPath      string `toml:"enc_path"`
	PuppetBin    string `toml:"puppet_bin"`
	LogLevel     string `toml:"log_level"`
}

// FileLoader overlays a TOML config file onto settings
type FileLoader struct {
	path     string
	required bool
}

// NewFileLoader creates a loader for path. A missing file is only an error
// when required is set.
func NewFileLoader(path string, required bool) *FileLoader {
	return &FileLoader{path: path, required: required}
}

func (l *FileLoader) Name() string { return "file" }

// Path returns the file this loader reads
func (l *FileLoader) Path() string { return l.path }

// Apply overwrites only the keys defined in the file.
func (l *FileLoader) Apply(cfg *domain.Settings) error {
	if _, err := os.Stat(l.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !l.required {
			return nil
		}
		return fmt.Errorf("load config %q: %w", l.path, err)
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(l.path, &raw)
	if err != nil {
		return fmt.Errorf("load config %q: %w", l.path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("load config %q: unknown key %q", l.path, undecoded[0].String())
	}

	if meta.IsDefined("module_dir") {
		cfg.ModuleDir = strings.TrimSpace(raw.ModuleDir)
	}
	if meta.IsDefined("input_path") {
		cfg.InputPath = strings.TrimSpace(raw.InputPath)
	}
	if meta.IsDefined("output_path") {
		cfg.OutputPath = strings.TrimSpace(raw.OutputPath)
	}
	if meta.IsDefined("manifest_path") {
		cfg.ManifestPath = strings.TrimSpace(raw.ManifestPath)
	}
	if meta.IsDefined("enc_path") {
		cfg.ENCPath = strings.TrimSpace(raw.ENCPath)
	}
	if meta.IsDefined("puppet_bin") {
		cfg.PuppetBin = strings.TrimSpace(raw.PuppetBin)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	return nil
}
