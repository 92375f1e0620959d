//go:build unix

package process

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"

	"localpuppet.io/cli/internal/core/domain/process"
	"localpuppet.io/cli/internal/core/ports"
)

type execFunc func(argv0 string, argv []string, envv []string) error

// ExecRunner implements ports.Runner by replacing the process image
type ExecRunner struct {
	env    []string
	exec   execFunc
	logger zerolog.Logger
}

// NewExecRunner creates a runner that passes the current environment through
func NewExecRunner(logger zerolog.Logger) *ExecRunner {
	return NewExecRunnerWithEnv(nil, logger)
}

// NewExecRunnerWithEnv creates a runner with an explicit environment
func NewExecRunnerWithEnv(env []string, logger zerolog.Logger) *ExecRunner {
	if env == nil {
		env = os.Environ()
	}

	return &ExecRunner{
		env:    env,
		exec:   unix.Exec,
		logger: logger,
	}
}

// Exec replaces the running program with cmd. On success it does not return.
func (r *ExecRunner) Exec(ctx context.Context, cmd process.Command) error {
	if err := cmd.IsValid(); err != nil {
		return fmt.Errorf("invalid command: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.logger.Debug().Strs("argv", cmd.Argv()).Msg("exec")
	if err := r.exec(cmd.Executable(), cmd.Argv(), r.env); err != nil {
		return fmt.Errorf("exec %s: %w", cmd.Executable(), err)
	}
	return nil
}

var _ ports.Runner = (*ExecRunner)(nil)
