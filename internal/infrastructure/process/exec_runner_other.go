//go:build !unix

package process

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"localpuppet.io/cli/internal/core/domain/process"
	"localpuppet.io/cli/internal/core/ports"
)

// ExecRunner is unavailable on platforms without execve.
type ExecRunner struct{}

// NewExecRunner creates a runner whose Exec always fails
func NewExecRunner(logger zerolog.Logger) *ExecRunner { return &ExecRunner{} }

// NewExecRunnerWithEnv creates a runner whose Exec always fails
func NewExecRunnerWithEnv(env []string, logger zerolog.Logger) *ExecRunner { return &ExecRunner{} }

// Exec reports that process replacement is unsupported
func (r *ExecRunner) Exec(ctx context.Context, cmd process.Command) error {
	return errors.New("process replacement is not supported on this platform")
}

var _ ports.Runner = (*ExecRunner)(nil)
