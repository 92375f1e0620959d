package ports

import (
	"context"

	"localpuppet.io/cli/internal/core/domain/process"
)

// Runner hands control to the configuration tool.
type Runner interface {
	// Exec replaces the current process with cmd. It only returns on failure.
	Exec(ctx context.Context, cmd process.Command) error
}
