package attachments

import (
	"context"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// DirStore serves attachment blobs from a directory, using the storage key
// as a relative file path. Keys escaping the root are rejected.
type DirStore struct {
	root string
}

// NewDirStore returns a store rooted at dir.
func NewDirStore(dir string) *DirStore {
	return &DirStore{root: dir}
}

// Get implements Store; a missing file is reported as (nil, nil).
func (s *DirStore) Get(_ context.Context, key string) (*Blob, error) {
	rel := filepath.Clean(key)
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return nil, errors.Errorf("invalid storage key %q", key)
	}
	data, err := os.ReadFile(filepath.Join(s.root, rel))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "read attachment %s", key)
	}

	mimeType := mime.TypeByExtension(filepath.Ext(rel))
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	return &Blob{MimeType: mimeType, Data: data}, nil
}

var _ Store = (*DirStore)(nil)
