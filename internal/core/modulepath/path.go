// Package modulepath resolves an application's manifest into the ordered,
// validated list of directories puppet searches for modules.
package modulepath

import (
	"os"
	"path/filepath"
	"strings"

	"localpuppet.io/cli/internal/core/domain"
)

// MaxEntries bounds the number of directories handed to puppet.
const MaxEntries = 9

// Path is an ordered list of absolute module directories. Order matters:
// puppet resolves a module from the first directory that contains it.
type Path []string

// String joins the directories with ':' as puppet's --modulepath expects
func (p Path) String() string {
	return strings.Join(p, string(os.PathListSeparator))
}

// ValidateEntry rejects absolute entries and any entry containing "..".
// It does not touch the filesystem.
func ValidateEntry(entry string) error {
	if entry == "" {
		return domain.Violation("empty module path entry")
	}
	if strings.HasPrefix(entry, "/") {
		return domain.Violation("module path entry %q must be relative", entry)
	}
	if strings.Contains(entry, "..") {
		return domain.Violation("module path entry %q must not contain '..'", entry)
	}
	return nil
}

// Build validates entries against root and returns their absolute paths.
//
// All entries are checked for shape before the filesystem is consulted. An
// entry that does not exist under root is reported as a validation error.
func Build(root string, entries []string) (Path, error) {
	if root == "" {
		return nil, domain.Violation("module root is empty")
	}
	if len(entries) == 0 {
		return nil, domain.Violation("no module path entries")
	}
	if len(entries) > MaxEntries {
		return nil, domain.Violation("%d module path entries exceed the limit of %d", len(entries), MaxEntries)
	}
	for _, entry := range entries {
		if err := ValidateEntry(entry); err != nil {
			return nil, err
		}
	}

	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, domain.Violation("module root %s is not a directory", root)
	}

	path := make(Path, 0, len(entries))
	for _, entry := range entries {
		full := filepath.Join(root, entry)
		if _, err := os.Stat(full); err != nil {
			return nil, domain.NewValidationError("app_dir %s does not exist.", entry)
		}
		path = append(path, full)
	}
	return path, nil
}
