package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/smartcity/energy/internal/domain"
)

// FileSource implements domain.ModelSource for artifacts on local disk
type FileSource struct {
	root string
}

// NewFileSource creates a file source; relative references resolve against root.
func NewFileSource(root string) *FileSource {
	return &FileSource{root: root}
}

// Name returns the source kind
func (s *FileSource) Name() string {
	return "file"
}

// Fetch reads the artifact file at ref
func (s *FileSource) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := s.resolve(ref)
	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("filesystem: %s: %w", path, domain.ErrArtifactNotFound)
		}
		return nil, fmt.Errorf("filesystem: failed to read %s: %w", path, err)
	}

	return payload, nil
}

// Health checks the root directory is readable
func (s *FileSource) Health(ctx context.Context) error {
	dir := s.root
	if dir == "" {
		dir = "."
	}
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("filesystem: health check failed: %w", err)
	}
	return nil
}

func (s *FileSource) resolve(ref string) string {
	if s.root == "" || filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(s.root, ref)
}
