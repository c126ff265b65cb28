package image

import (
	"context"
	"os"
	"path/filepath"

	ai "github.com/spetersoncode/postflow"
)

// FSStore writes image assets to a local directory.
type FSStore struct {
	dir string
}

// NewFSStore creates a store rooted at dir. The directory is created on
// first save.
func NewFSStore(dir string) *FSStore {
	return &FSStore{dir: dir}
}

// Save writes data under the store directory and returns the file path.
func (s *FSStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", &ai.ImageError{Op: "store", Ref: s.dir, Err: err}
	}

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", &ai.ImageError{Op: "store", Ref: path, Err: err}
	}
	return path, nil
}

var _ AssetStore = (*FSStore)(nil)
