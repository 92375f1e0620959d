package di

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localpuppet.io/cli/internal/core/domain/process"
	"localpuppet.io/cli/internal/core/testfixtures"
	"localpuppet.io/cli/internal/infrastructure/config"
	"localpuppet.io/cli/internal/interfaces/cli"
)

type recordingRunner struct {
	argv [][]string
}

func (r *recordingRunner) Exec(ctx context.Context, cmd process.Command) error {
	r.argv = append(r.argv, cmd.Argv())
	return nil
}

// layout writes a config file pointing every path into a temp dir.
func layout(t *testing.T) (*testfixtures.ModuleRootBuilder, string) {
	t.Helper()
	b := testfixtures.NewModuleRootBuilder(t).
		WithApp("appA", "libA").
		WithDirs("libA")
	b.WriteFile("input.yaml", "app: appA\nclasses:\n  ntp:\n")

	cfgPath := b.WriteFile("localpuppet.toml",
		"module_dir = \""+b.Root()+"\"\n"+
			"input_path = \""+b.Path("input.yaml")+"\"\n"+
			"output_path = \""+b.Path("node.yaml")+"\"\n")
	return b, cfgPath
}

func TestContainer_WiresPipeline(t *testing.T) {
	b, cfgPath := layout(t)
	runner := &recordingRunner{}
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	container, err := NewContainerWithOptions(Options{
		Loader: config.NewLoaderWithSources(config.NewFileLoader(cfgPath, true)),
		Runner: runner,
		Stdout: stdout,
		Stderr: stderr,
	})
	require.NoError(t, err)

	code := cli.Run(context.Background(), container.GetCLIContainer(), []string{})
	require.Equal(t, cli.ExitOK, code, stderr.String())

	require.Len(t, runner.argv, 1)
	root := b.Root()
	assert.Contains(t, runner.argv[0], root+"/appA:"+root+"/libA")
	assert.Contains(t, stdout.String(), "# /usr/bin/puppet apply --node_terminus exec")

	data, err := os.ReadFile(b.Path("node.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "classes:\n  ntp: {}\nparameters: {}\n", string(data))
}

func TestContainer_ValidationFailureExitsOne(t *testing.T) {
	b, cfgPath := layout(t)
	b.WriteFile("input.yaml", "app: foo\n")
	runner := &recordingRunner{}
	stderr := &bytes.Buffer{}

	container, err := NewContainerWithOptions(Options{
		Loader: config.NewLoaderWithSources(config.NewFileLoader(cfgPath, true)),
		Runner: runner,
		Stdout: &bytes.Buffer{},
		Stderr: stderr,
	})
	require.NoError(t, err)

	code := cli.Run(context.Background(), container.GetCLIContainer(), []string{})

	assert.Equal(t, cli.ExitValidation, code)
	assert.Equal(t, "Directory doesn't exist: "+filepath.Join(b.Root(), "foo")+"\n", stderr.String())
	assert.NoFileExists(t, b.Path("node.yaml"))
	assert.Empty(t, runner.argv)
}

func TestContainer_InvalidConfiguration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "localpuppet.toml")
	require.NoError(t, os.WriteFile(path, []byte("log_level = \"loud\"\n"), 0o644))

	_, err := NewContainerWithOptions(Options{
		Loader: config.NewLoaderWithSources(config.NewFileLoader(path, true)),
		Stderr: &bytes.Buffer{},
	})
	assert.Error(t, err)
}

func TestContainer_DefaultRunner(t *testing.T) {
	_, cfgPath := layout(t)
	container, err := NewContainerWithOptions(Options{
		Loader: config.NewLoaderWithSources(config.NewFileLoader(cfgPath, true)),
		Stderr: &bytes.Buffer{},
	})
	require.NoError(t, err)

	assert.NotNil(t, container.Runner)
	assert.Same(t, container.ApplyService, container.GetCLIContainer().Applier)
}
