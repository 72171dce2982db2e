package localreader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tablemeta/metaindex/pkg/capability"
)

// DiskFileSystem implements capability.FileSystem over a real directory
// tree, rooted at BasePath. It is adapted from cuemby-warren's
// pkg/volume LocalDriver, repointed from per-volume directory management
// to listing/deleting table paths for the FS Fallback Lister and the
// `bootstrap`/`doctor` CLI commands.
type DiskFileSystem struct {
	BasePath string
}

// NewDiskFileSystem creates a filesystem rooted at basePath, creating it
// if absent.
func NewDiskFileSystem(basePath string) (*DiskFileSystem, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating base path %s: %w", basePath, err)
	}
	return &DiskFileSystem{BasePath: basePath}, nil
}

// List returns the entries under path (relative to BasePath).
func (fs *DiskFileSystem) List(_ context.Context, path string) ([]capability.Entry, error) {
	full := joinBase(fs.BasePath, path)
	dirEntries, err := os.ReadDir(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing %s: %w", full, err)
	}

	entries := make([]capability.Entry, 0, len(dirEntries))
	for _, e := range dirEntries {
		entries = append(entries, capability.Entry{
			Path:  filepath.ToSlash(filepath.Join(path, e.Name())),
			Name:  e.Name(),
			IsDir: e.IsDir(),
		})
	}
	return entries, nil
}

// Delete removes path (relative to BasePath), recursively if recursive
// is set, mirroring LocalDriver.Delete's os.Stat-then-os.RemoveAll shape.
func (fs *DiskFileSystem) Delete(_ context.Context, path string, recursive bool) error {
	full := joinBase(fs.BasePath, path)
	if _, err := os.Stat(full); os.IsNotExist(err) {
		return nil
	}
	if recursive {
		if err := os.RemoveAll(full); err != nil {
			return fmt.Errorf("deleting %s: %w", full, err)
		}
		return nil
	}
	if err := os.Remove(full); err != nil {
		return fmt.Errorf("deleting %s: %w", full, err)
	}
	return nil
}
