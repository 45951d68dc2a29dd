package storage

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// FileStore writes pipeline artifacts under a single output directory. Each
// stage of the pipeline leaves an indented JSON snapshot behind so a stuck
// extraction can be inspected file by file.
type FileStore struct {
	dir string
}

// NewFileStore creates the output directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "outputs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create artifact dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// SaveJSON writes v as indented JSON to <base>_<suffix>.json and returns the
// full path.
func (s *FileStore) SaveJSON(baseName, suffix string, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal artifact: %w", err)
	}

	path := filepath.Join(s.dir, fmt.Sprintf("%s_%s.json", baseName, suffix))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}

	log.Printf("[STORE] Wrote %s", path)
	return path, nil
}

// SaveRaw writes bytes verbatim under the given file name.
func (s *FileStore) SaveRaw(name string, data []byte) (string, error) {
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	log.Printf("[STORE] Wrote %s (%d bytes)", path, len(data))
	return path, nil
}
