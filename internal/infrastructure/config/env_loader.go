package config

import (
	"os"
	"strings"

	"localpuppet.io/cli/internal/core/domain"
)

// Environment variable names. Environment wins over the config file.
const (
	EnvConfigFile   = "LOCALPUPPET_CONFIG"
	EnvModuleDir    = "LOCALPUPPET_MODULE_DIR"
	EnvInputPath    = "LOCALPUPPET_INPUT_PATH"
	EnvOutputPath   = "LOCALPUPPET_OUTPUT_PATH"
	EnvManifestPath = "LOCALPUPPET_MANIFEST_PATH"
	EnvENCPath      = "LOCALPUPPET_ENC_PATH"
	EnvPuppetBin    = "LOCALPUPPET_PUPPET_BIN"
	EnvLogLevel     = "LOCALPUPPET_LOG_LEVEL"
)

// EnvLoader overlays LOCALPUPPET_* variables onto settings
type EnvLoader struct {
	getenv func(string) string
}

func NewEnvLoader() *EnvLoader { return &EnvLoader{getenv: os.Getenv} }

func (l *EnvLoader) Name() string { return "env" }

// Apply overwrites every field whose variable is set to a non-blank value.
func (l *EnvLoader) Apply(cfg *domain.Settings) error {
	set := func(key string, field *string) {
		if v := strings.TrimSpace(l.getenv(key)); v != "" {
			*field = v
		}
	}

	set(EnvModuleDir, &cfg.ModuleDir)
	set(EnvInputPath, &cfg.InputPath)
	set(EnvOutputPath, &cfg.OutputPath)
	set(EnvManifestPath, &cfg.ManifestPath)
	set(EnvENCPath, &cfg.ENCPath)
	set(EnvPuppetBin, &cfg.PuppetBin)
	set(EnvLogLevel, &cfg.LogLevel)
	return nil
}
