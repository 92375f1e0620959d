package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"localpuppet.io/cli/internal/core/domain"
)

// Exit codes
const (
	ExitOK         = 0
	ExitValidation = 1
	ExitFatal      = 2
)

// ExitCode maps an error to the process exit status
func ExitCode(err error) int {
	var ve *domain.ValidationError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &ve):
		return ExitValidation
	default:
		return ExitFatal
	}
}

// Report writes a one-line diagnostic for err and returns its exit code.
// Validation errors are printed as-is; everything else is prefixed with the
// program name.
func Report(w io.Writer, err error) int {
	code := ExitCode(err)
	if code == ExitOK {
		return code
	}

	renderer := lipgloss.NewRenderer(w)
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		fmt.Fprintln(w, renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("9")).Render(ve.Message))
		return code
	}
	fmt.Fprintln(w, renderer.NewStyle().Foreground(lipgloss.Color("9")).Render("localpuppet: "+err.Error()))
	return code
}
