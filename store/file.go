package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileStoreConfig names the on-disk destination per document.
type FileStoreConfig struct {
	// Path receives the unified graph document.
	Path string

	// MappingsPath receives the mappings document (empty = skip it).
	MappingsPath string
}

// FileStore writes documents to the filesystem. Writes go through a
// temporary file and a rename, so readers never observe a half-written
// document.
type FileStore struct {
	cfg FileStoreConfig
}

// NewFileStore creates a FileStore.
func NewFileStore(cfg FileStoreConfig) (*FileStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("file store: output path is required")
	}
	return &FileStore{cfg: cfg}, nil
}

// Load writes the document to its configured path.
func (s *FileStore) Load(_ context.Context, doc Document) error {
	path, err := s.pathFor(doc.Name)
	if err != nil {
		return err
	}
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("file store: create %s: %w", filepath.Dir(path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("file store: temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(doc.Data); err != nil {
		tmp.Close()
		return fmt.Errorf("file store: write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file store: close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("file store: rename %s: %w", path, err)
	}
	return nil
}

func (s *FileStore) pathFor(name string) (string, error) {
	switch name {
	case DocumentUnified:
		return s.cfg.Path, nil
	case DocumentMappings:
		return s.cfg.MappingsPath, nil
	default:
		return "", fmt.Errorf("file store: unknown document %q", name)
	}
}
