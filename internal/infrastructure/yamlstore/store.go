// Package yamlstore reads ENC documents and writes classifier files as YAML.
package yamlstore

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"localpuppet.io/cli/internal/core/enc"
	"localpuppet.io/cli/internal/core/ports"
)

// Store implements ports.DocumentStore on the local filesystem
type Store struct {
	logger zerolog.Logger
	mode   os.FileMode
}

// NewStore creates a store writing files with mode 0644
func NewStore(logger zerolog.Logger) *Store {
	return &Store{logger: logger, mode: 0o644}
}

// LoadENC reads and parses the ENC document at path. An empty file yields an
// empty document.
func (s *Store) LoadENC(path string) (enc.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return enc.Document{}, fmt.Errorf("read ENC input: %w", err)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return enc.Document{}, fmt.Errorf("parse ENC input %s: %w", path, err)
	}

	doc := enc.NewDocument(raw)
	s.logger.Debug().Str("path", path).Int("keys", doc.Len()).Msg("loaded ENC input")
	return doc, nil
}

// Marshal renders a classification the way it is written to disk.
func Marshal(c enc.Classification) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode classification: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("encode classification: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteClassification writes c next to path and renames it into place, so
// readers never observe a partially written file. A symlink at path is
// followed and its target replaced. An existing file keeps its mode and,
// where permitted, its owner.
func (s *Store) WriteClassification(path string, c enc.Classification) error {
	data, err := Marshal(c)
	if err != nil {
		return err
	}

	target, err := resolveTarget(path)
	if err != nil {
		return err
	}
	mode := s.mode
	existing, err := os.Stat(target)
	switch {
	case err == nil:
		mode = existing.Mode().Perm()
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("stat classifier file: %w", err)
	}

	dir := filepath.Dir(target)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*")
	if err != nil {
		return fmt.Errorf("create temp classifier file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write classifier file: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod classifier file: %w", err)
	}
	if existing != nil {
		if err := keepOwner(tmp, existing); err != nil {
			s.logger.Debug().Err(err).Str("path", target).Msg("could not keep classifier file owner")
		}
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close classifier file: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return fmt.Errorf("install classifier file: %w", err)
	}

	s.logger.Debug().Str("path", target).Int("classes", len(c.Classes)).Msg("wrote classifier file")
	return nil
}

// resolveTarget returns the file a write to path should replace. Symlinks
// are followed, including one whose target does not exist yet.
func resolveTarget(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("resolve classifier path: %w", err)
	}

	info, lerr := os.Lstat(path)
	if lerr != nil || info.Mode()&fs.ModeSymlink == 0 {
		return path, nil
	}
	link, err := os.Readlink(path)
	if err != nil {
		return "", fmt.Errorf("resolve classifier path: %w", err)
	}
	if !filepath.IsAbs(link) {
		link = filepath.Join(filepath.Dir(path), link)
	}
	return link, nil
}

var _ ports.DocumentStore = (*Store)(nil)
