package iconcache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/weather-client/internal/domain"
)

// errUnsafeID is returned for identifiers that would resolve outside the cache
// directory. Such icons are still served, just never cached.
var errUnsafeID = errors.New("icon id escapes cache directory")

// DirStore keeps one "{id}.png" file per icon in a single directory. Entries
// are never evicted.
type DirStore struct {
	dir string
}

// NewDirStore returns a store rooted at dir. The directory is created lazily
// on the first write.
func NewDirStore(dir string) *DirStore {
	return &DirStore{dir: dir}
}

// Path returns the cache file for id.
func (s *DirStore) Path(id domain.IconID) (string, error) {
	p := filepath.Join(s.dir, string(id)+".png")
	rel, err := filepath.Rel(s.dir, p)
	if err != nil || rel != filepath.Base(p) || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%w: %q", errUnsafeID, id)
	}
	return p, nil
}

// Load reads the cached bytes for id. A missing entry yields an error
// matching fs.ErrNotExist.
func (s *DirStore) Load(id domain.IconID) ([]byte, error) {
	p, err := s.Path(id)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(p)
}

// Save writes data for id. The bytes go to a temp file in the same directory
// which is renamed into place, so readers never observe a partial entry.
// Concurrent saves of the same id are harmless: the content is identical.
func (s *DirStore) Save(id domain.IconID, data []byte) error {
	p, err := s.Path(id)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+filepath.Base(p)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write icon: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close icon: %w", err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename icon: %w", err)
	}
	return nil
}
