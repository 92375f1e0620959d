package process

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Command is the argument vector handed to the configuration tool.
type Command struct {
	executable string
	args       []string
}

// NewCommand creates a new Command value object
func NewCommand(executable string, args []string) (Command, error) {
	if executable == "" {
		return Command{}, fmt.Errorf("executable cannot be empty")
	}

	return Command{
		executable: executable,
		args:       append([]string(nil), args...), // Copy slice
	}, nil
}

// ApplyRequest carries the values that vary between puppet apply runs.
type ApplyRequest struct {
	PuppetBin    string
	ENCPath      string
	ModulePath   string
	ManifestPath string
}

// NewApplyCommand builds
//
//	<puppet> apply --node_terminus exec --external_nodes <enc> --modulepath <path> <manifest>
func NewApplyCommand(req ApplyRequest) (Command, error) {
	if req.ModulePath == "" {
		return Command{}, fmt.Errorf("module path cannot be empty")
	}
	if req.ManifestPath == "" {
		return Command{}, fmt.Errorf("manifest path cannot be empty")
	}

	return NewCommand(req.PuppetBin, []string{
		"apply",
		"--node_terminus",
		"exec",
		"--external_nodes",
		req.ENCPath,
		"--modulepath",
		req.ModulePath,
		req.ManifestPath,
	})
}

// Executable returns the command executable
func (c Command) Executable() string {
	return c.executable
}

// Args returns a copy of the command arguments
func (c Command) Args() []string {
	return append([]string(nil), c.args...)
}

// Argv returns the full argument vector, with the executable as argv[0].
func (c Command) Argv() []string {
	result := make([]string, 0, len(c.args)+1)
	result = append(result, c.executable)
	result = append(result, c.args...)
	return result
}

// String returns the command line as echoed for operators
func (c Command) String() string {
	return strings.Join(c.Argv(), " ")
}

// IsValid validates the command structure
func (c Command) IsValid() error {
	if c.executable == "" {
		return fmt.Errorf("executable cannot be empty")
	}
	if !filepath.IsAbs(c.executable) {
		return fmt.Errorf("executable must be an absolute path: %s", c.executable)
	}
	return nil
}
