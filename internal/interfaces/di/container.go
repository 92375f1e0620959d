package di

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"localpuppet.io/cli/internal/application/services"
	"localpuppet.io/cli/internal/core/domain"
	"localpuppet.io/cli/internal/core/ports"
	"localpuppet.io/cli/internal/infrastructure/config"
	"localpuppet.io/cli/internal/infrastructure/logging"
	"localpuppet.io/cli/internal/infrastructure/process"
	"localpuppet.io/cli/internal/infrastructure/yamlstore"
	"localpuppet.io/cli/internal/interfaces/cli"
)

// Container holds all application dependencies
type Container struct {
	// Configuration
	Settings domain.Settings

	// Infrastructure
	Store  ports.DocumentStore
	Runner ports.Runner

	// Application
	ApplyService *services.ApplyService

	// CLI
	CLIContainer *cli.CLIContainer

	// Logger
	Logger zerolog.Logger
}

// Options lets callers replace the process-level collaborators.
type Options struct {
	Loader *config.Loader
	Runner ports.Runner
	Stdout io.Writer
	Stderr io.Writer
}

// NewContainer creates the container from the standard configuration chain
func NewContainer() (*Container, error) {
	return NewContainerWithOptions(Options{})
}

// NewContainerWithOptions creates and wires the container. Unset options
// fall back to the real environment.
func NewContainerWithOptions(opts Options) (*Container, error) {
	if opts.Loader == nil {
		opts.Loader = config.NewLoader()
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	settings, err := opts.Loader.Load()
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(opts.Stderr, settings.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	c := &Container{
		Settings: settings,
		Logger:   logger,
	}

	c.Store = yamlstore.NewStore(logger)
	c.Runner = opts.Runner
	if c.Runner == nil {
		c.Runner = process.NewExecRunner(logger)
	}

	c.ApplyService = services.NewApplyService(settings, c.Store, c.Runner, opts.Stdout, logger)

	c.CLIContainer = &cli.CLIContainer{
		Applier: c.ApplyService,
		Stdout:  opts.Stdout,
		Stderr:  opts.Stderr,
	}

	logger.Debug().
		Str("module_dir", settings.ModuleDir).
		Str("output_path", settings.OutputPath).
		Msg("container initialized")
	return c, nil
}

// GetCLIContainer returns the CLI container for command execution
func (c *Container) GetCLIContainer() *cli.CLIContainer {
	return c.CLIContainer
}
