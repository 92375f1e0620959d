package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// Applier runs the classify-and-apply pipeline for one ENC input.
type Applier interface {
	Run(ctx context.Context, inputPath string) error
}

// CLIContainer holds all the dependencies for CLI commands
type CLIContainer struct {
	Applier Applier
	Stdout  io.Writer
	Stderr  io.Writer
}

// NewRootCommand builds the single localpuppet command
func NewRootCommand(container *CLIContainer) *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:   "localpuppet [input.yaml]",
		Short: "Run puppet apply against a versioned application directory",
		Long: `localpuppet runs puppet standalone with versioned application environments.

It reads an external node classifier document (default /etc/puppet/input.yaml),
builds --modulepath from the application's manifest.yaml under the module
root, writes the normalized classes and parameters for the exec node terminus
and replaces itself with puppet apply.`,
		Version:       Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			return container.Applier.Run(cmd.Context(), input)
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nGo version: %s\nPlatform: %s/%s\n",
		BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH))
	if container.Stdout != nil {
		rootCmd.SetOut(container.Stdout)
	}
	if container.Stderr != nil {
		rootCmd.SetErr(container.Stderr)
	}

	return rootCmd
}

// goVersion returns the Go version used to build the binary
func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown"
}

// Run executes the root command with args and returns the process exit code.
func Run(ctx context.Context, container *CLIContainer, args []string) int {
	rootCmd := NewRootCommand(container)
	if args == nil {
		// cobra falls back to os.Args when given nil
		args = []string{}
	}
	rootCmd.SetArgs(args)

	stderr := container.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	return Report(stderr, rootCmd.ExecuteContext(ctx))
}

// Execute runs the CLI and exits with the resulting code.
func Execute(container *CLIContainer) {
	os.Exit(Run(context.Background(), container, os.Args[1:]))
}
