package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
)

// AferoStore writes files under a directory of an afero filesystem. Use
// afero.NewOsFs for local disk and afero.NewMemMapFs in tests.
type AferoStore struct {
	fs  afero.Fs
	dir string
}

// NewAferoStore creates dir if needed and returns a store rooted there.
func NewAferoStore(fs afero.Fs, dir string) (*AferoStore, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}
	return &AferoStore{fs: fs, dir: dir}, nil
}

// Create truncates or creates dir/name.
func (s *AferoStore) Create(_ context.Context, name string) (io.WriteCloser, error) {
	f, err := s.fs.Create(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", name, err)
	}
	return f, nil
}

// Path returns where name is stored.
func (s *AferoStore) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}
