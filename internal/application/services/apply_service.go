package services

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"localpuppet.io/cli/internal/core/domain"
	"localpuppet.io/cli/internal/core/domain/process"
	"localpuppet.io/cli/internal/core/enc"
	"localpuppet.io/cli/internal/core/modulepath"
	"localpuppet.io/cli/internal/core/ports"
)

// ApplyService prepares and launches a puppet apply run.
type ApplyService struct {
	settings domain.Settings
	store    ports.DocumentStore
	runner   ports.Runner
	resolver *modulepath.Resolver
	out      io.Writer
	logger   zerolog.Logger
}

// NewApplyService creates a new apply service. The audit line for each run
// is written to out.
func NewApplyService(
	settings domain.Settings,
	store ports.DocumentStore,
	runner ports.Runner,
	out io.Writer,
	logger zerolog.Logger,
) *ApplyService {
	return &ApplyService{
		settings: settings,
		store:    store,
		runner:   runner,
		resolver: modulepath.NewResolver(settings.ModuleDir, logger),
		out:      out,
		logger:   logger,
	}
}

// Prepare loads the ENC input, resolves the module path, writes the
// classifier file and returns the command to run. inputPath falls back to
// the configured input when empty.
//
// The classifier file is only written once every check has passed.
func (s *ApplyService) Prepare(ctx context.Context, inputPath string) (process.Command, error) {
	if inputPath == "" {
		inputPath = s.settings.InputPath
	}

	doc, err := s.store.LoadENC(inputPath)
	if err != nil {
		return process.Command{}, err
	}

	app, err := doc.App()
	if err != nil {
		return process.Command{}, err
	}
	s.logger.Debug().Str("app", app).Str("input", inputPath).Msg("classifying node")

	dirs, err := s.resolver.AppDirs(app)
	if err != nil {
		return process.Command{}, err
	}

	path, err := modulepath.Build(s.settings.ModuleDir, dirs)
	if err != nil {
		return process.Command{}, fmt.Errorf("build module path for %s: %w", app, err)
	}
	s.logger.Debug().Str("modulepath", path.String()).Msg("module path resolved")

	classification, err := enc.Normalize(doc)
	if err != nil {
		return process.Command{}, err
	}

	cmd, err := process.NewApplyCommand(process.ApplyRequest{
		PuppetBin:    s.settings.PuppetBin,
		ENCPath:      s.settings.ENCPath,
		ModulePath:   path.String(),
		ManifestPath: s.settings.ManifestPath,
	})
	if err != nil {
		return process.Command{}, domain.Violation("%v", err)
	}

	if err := ctx.Err(); err != nil {
		return process.Command{}, err
	}
	if err := s.store.WriteClassification(s.settings.OutputPath, classification); err != nil {
		return process.Command{}, err
	}

	return cmd, nil
}

// Run prepares the run, echoes the command line and hands over to puppet.
// When the runner replaces the process Run never returns.
func (s *ApplyService) Run(ctx context.Context, inputPath string) error {
	cmd, err := s.Prepare(ctx, inputPath)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(s.out, "# %s\n", cmd); err != nil {
		return fmt.Errorf("write audit line: %w", err)
	}
	return s.runner.Exec(ctx, cmd)
}
