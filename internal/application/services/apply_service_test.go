package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localpuppet.io/cli/internal/core/domain"
	"localpuppet.io/cli/internal/core/domain/process"
	"localpuppet.io/cli/internal/infrastructure/yamlstore"
)

// recordingRunner records the command instead of replacing the process.
type recordingRunner struct {
	calls []process.Command
	err   error
}

func (r *recordingRunner) Exec(ctx context.Context, cmd process.Command) error {
	r.calls = append(r.calls, cmd)
	return r.err
}

type fixture struct {
	t        *testing.T
	root     string
	settings domain.Settings
	runner   *recordingRunner
	out      *bytes.Buffer
	service  *ApplyService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	base := t.TempDir()
	root := filepath.Join(base, "modules")
	require.NoError(t, os.MkdirAll(root, 0o755))

	settings := domain.Settings{
		ModuleDir:    root,
		InputPath:    filepath.Join(base, "input.yaml"),
		OutputPath:   filepath.Join(base, "node.yaml"),
		ManifestPath: "/etc/puppet/manifests/default.pp",
		ENCPath:      "/etc/puppet/enc.sh",
		PuppetBin:    "/usr/bin/puppet",
		LogLevel:     "warn",
	}
	runner := &recordingRunner{}
	out := &bytes.Buffer{}
	store := yamlstore.NewStore(zerolog.Nop())

	return &fixture{
		t:        t,
		root:     root,
		settings: settings,
		runner:   runner,
		out:      out,
		service:  NewApplyService(settings, store, runner, out, zerolog.Nop()),
	}
}

func (f *fixture) dir(names ...string) {
	for _, name := range names {
		require.NoError(f.t, os.MkdirAll(filepath.Join(f.root, name), 0o755))
	}
}

func (f *fixture) manifest(app, content string) {
	f.dir(app)
	require.NoError(f.t, os.WriteFile(filepath.Join(f.root, app, "manifest.yaml"), []byte(content), 0o644))
}

func (f *fixture) input(content string) {
	require.NoError(f.t, os.WriteFile(f.settings.InputPath, []byte(content), 0o644))
}

func (f *fixture) output() string {
	data, err := os.ReadFile(f.settings.OutputPath)
	require.NoError(f.t, err)
	return string(data)
}

func (f *fixture) assertNoOutput() {
	_, err := os.Stat(f.settings.OutputPath)
	assert.True(f.t, os.IsNotExist(err), "classifier file must not be written")
	assert.Empty(f.t, f.runner.calls)
	assert.Empty(f.t, f.out.String())
}

func TestApplyService_EndToEnd(t *testing.T) {
	f := newFixture(t)
	f.manifest("appA", "modulepath: [libA, libB]\n")
	f.dir("libA", "libB")
	f.input("app: appA\nclasses:\n  svc:\n    port: null\n    host: \"x\"\n")

	require.NoError(t, f.service.Run(context.Background(), ""))

	wantPath := f.root + "/appA:" + f.root + "/libA:" + f.root + "/libB"
	require.Len(t, f.runner.calls, 1)
	assert.Equal(t, []string{
		"/usr/bin/puppet", "apply",
		"--node_terminus", "exec",
		"--external_nodes", "/etc/puppet/enc.sh",
		"--modulepath", wantPath,
		"/etc/puppet/manifests/default.pp",
	}, f.runner.calls[0].Argv())

	assert.Equal(t, "classes:\n  svc:\n    host: x\nparameters: {}\n", f.output())
	assert.Equal(t, "# /usr/bin/puppet apply --node_terminus exec --external_nodes /etc/puppet/enc.sh --modulepath "+
		wantPath+" /etc/puppet/manifests/default.pp\n", f.out.String())
}

func TestApplyService_ExplicitInputPath(t *testing.T) {
	f := newFixture(t)
	f.manifest("appA", "modulepath: []\n")
	other := filepath.Join(t.TempDir(), "other.yaml")
	require.NoError(t, os.WriteFile(other, []byte("app: appA\nparameters: {role: web}\n"), 0o644))

	require.NoError(t, f.service.Run(context.Background(), other))

	assert.Equal(t, "classes: {}\nparameters:\n  role: web\n", f.output())
	require.Len(t, f.runner.calls, 1)
	assert.Contains(t, f.runner.calls[0].Args(), f.root+"/appA")
}

func TestApplyService_Idempotent(t *testing.T) {
	f := newFixture(t)
	f.manifest("appA", "modulepath: [libA]\n")
	f.dir("libA")
	f.input("app: appA\nextra: dropped\nclasses:\n  b: {x: 1, y: ~}\n  a: ~\n  c: 7\nparameters:\n  z: 1\n  a: two\n")

	require.NoError(t, f.service.Run(context.Background(), ""))
	first := f.output()

	require.NoError(t, f.service.Run(context.Background(), ""))
	assert.Equal(t, first, f.output())
	assert.Equal(t, "classes:\n  a: {}\n  b:\n    x: 1\nparameters:\n  a: two\n  z: 1\n", first)
}

func TestApplyService_ValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(f *fixture)
		errMsg string
	}{
		{
			name: "missing_app_key",
			setup: func(f *fixture) {
				f.input("classes: {ntp: ~}\n")
			},
			errMsg: "ERROR: Input YAML must have an 'app' key",
		},
		{
			name: "missing_app_directory",
			setup: func(f *fixture) {
				f.input("app: foo\n")
			},
			errMsg: "Directory doesn't exist: ",
		},
		{
			name: "missing_manifest",
			setup: func(f *fixture) {
				f.dir("appA")
				f.input("app: appA\n")
			},
			errMsg: "Manifest file doesn't exist: ",
		},
		{
			name: "missing_module_path_entry",
			setup: func(f *fixture) {
				f.manifest("appA", "modulepath: [libA, libGone]\n")
				f.dir("libA")
				f.input("app: appA\n")
			},
			errMsg: "app_dir libGone does not exist.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f)

			err := f.service.Run(context.Background(), "")
			require.Error(t, err)
			assert.True(t, domain.IsValidationError(err), "got %v", err)
			assert.Contains(t, err.Error(), tt.errMsg)
			f.assertNoOutput()
		})
	}
}

func TestApplyService_ContractViolations(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *fixture)
	}{
		{
			name: "absolute_app",
			setup: func(f *fixture) {
				f.input("app: /etc\n")
			},
		},
		{
			name: "empty_app",
			setup: func(f *fixture) {
				f.input("app: ''\n")
			},
		},
		{
			name: "traversal_app",
			setup: func(f *fixture) {
				f.input("app: ../secrets\n")
			},
		},
		{
			name: "manifest_without_modulepath",
			setup: func(f *fixture) {
				f.manifest("appA", "owner: ops\n")
				f.input("app: appA\n")
			},
		},
		{
			name: "traversal_in_manifest",
			setup: func(f *fixture) {
				f.manifest("appA", "modulepath: [../../etc]\n")
				f.input("app: appA\n")
			},
		},
		{
			name: "too_many_entries",
			setup: func(f *fixture) {
				f.manifest("appA", "modulepath: [l1, l2, l3, l4, l5, l6, l7, l8, l9]\n")
				f.dir("l1", "l2", "l3", "l4", "l5", "l6", "l7", "l8", "l9")
				f.input("app: appA\n")
			},
		},
		{
			name: "classes_not_a_mapping",
			setup: func(f *fixture) {
				f.manifest("appA", "modulepath: []\n")
				f.input("app: appA\nclasses: [ntp]\n")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f)

			err := f.service.Run(context.Background(), "")
			assert.ErrorIs(t, err, domain.ErrContractViolation)
			f.assertNoOutput()
		})
	}
}

func TestApplyService_FailureKeepsPreviousOutput(t *testing.T) {
	const previous = "classes:\n  ntp: {}\nparameters: {}\n"

	tests := []struct {
		name  string
		setup func(f *fixture)
	}{
		{
			name: "missing_app_key",
			setup: func(f *fixture) {
				f.input("classes: {ntp: ~}\n")
			},
		},
		{
			name: "missing_module_path_entry",
			setup: func(f *fixture) {
				f.manifest("appA", "modulepath: [libGone]\n")
				f.input("app: appA\n")
			},
		},
		{
			name: "traversal_in_manifest",
			setup: func(f *fixture) {
				f.manifest("appA", "modulepath: [../../etc]\n")
				f.input("app: appA\n")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			require.NoError(t, os.WriteFile(f.settings.OutputPath, []byte(previous), 0o644))
			tt.setup(f)

			require.Error(t, f.service.Run(context.Background(), ""))
			assert.Equal(t, previous, f.output())
			assert.Empty(t, f.runner.calls)
			assert.Empty(t, f.out.String())
		})
	}
}

func TestApplyService_OutputSymlinkFollowed(t *testing.T) {
	f := newFixture(t)
	f.manifest("appA", "modulepath: []\n")
	f.input("app: appA\nclasses:\n  ntp: ~\n")

	target := filepath.Join(filepath.Dir(f.settings.OutputPath), "real-node.yaml")
	require.NoError(t, os.WriteFile(target, []byte("old\n"), 0o644))
	require.NoError(t, os.Symlink(target, f.settings.OutputPath))

	require.NoError(t, f.service.Run(context.Background(), ""))

	info, err := os.Lstat(f.settings.OutputPath)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "classes:\n  ntp: {}\nparameters: {}\n", string(data))
}

func TestApplyService_NineEntriesAccepted(t *testing.T) {
	f := newFixture(t)
	f.manifest("appA", "modulepath: [l1, l2, l3, l4, l5, l6, l7, l8]\n")
	f.dir("l1", "l2", "l3", "l4", "l5", "l6", "l7", "l8")
	f.input("app: appA\n")

	require.NoError(t, f.service.Run(context.Background(), ""))
	require.Len(t, f.runner.calls, 1)
}

func TestApplyService_InputErrorsPropagate(t *testing.T) {
	f := newFixture(t)

	err := f.service.Run(context.Background(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.False(t, domain.IsValidationError(err))
	f.assertNoOutput()
}

func TestApplyService_RunnerErrorReturned(t *testing.T) {
	f := newFixture(t)
	f.manifest("appA", "modulepath: []\n")
	f.input("app: appA\n")
	f.runner.err = errors.New("exec format error")

	err := f.service.Run(context.Background(), "")
	assert.EqualError(t, err, "exec format error")
	assert.FileExists(t, f.settings.OutputPath)
}

func TestApplyService_PrepareDoesNotExec(t *testing.T) {
	f := newFixture(t)
	f.manifest("appA", "modulepath: []\n")
	f.input("app: appA\n")

	cmd, err := f.service.Prepare(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "/usr/bin/puppet", cmd.Executable())
	assert.Empty(t, f.runner.calls)
	assert.Empty(t, f.out.String())
	assert.FileExists(t, f.settings.OutputPath)
}
