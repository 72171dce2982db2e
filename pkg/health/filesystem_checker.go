package health

import (
	"context"
	"fmt"
	"time"

	"github.com/tablemeta/metaindex/pkg/capability"
)

// FileSystemChecker probes that the table's base path is listable on the
// configured capability.FileSystem.
type FileSystemChecker struct {
	FS       capability.FileSystem
	BasePath string
	Timeout  time.Duration
}

// NewFileSystemChecker creates a checker for the given base path.
func NewFileSystemChecker(fs capability.FileSystem, basePath string) *FileSystemChecker {
	return &FileSystemChecker{FS: fs, BasePath: basePath, Timeout: 10 * time.Second}
}

// Check performs the filesystem reachability check
func (c *FileSystemChecker) Check(ctx context.Context) Result {
	start := time.Now()

	checkCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	entries, err := c.FS.List(checkCtx, c.BasePath)
	if err != nil {
		return Result{
			Healthy:   false,
			Message:   fmt.Sprintf("listing %s: %v", c.BasePath, err),
			CheckedAt: start,
			Duration:  time.Since(start),
		}
	}

	return Result{
		Healthy:   true,
		Message:   fmt.Sprintf("listed %s (%d entries)", c.BasePath, len(entries)),
		CheckedAt: start,
		Duration:  time.Since(start),
	}
}

// Name identifies this checker's dependency
func (c *FileSystemChecker) Name() string {
	return "base_path_fs"
}

// WithTimeout sets the listing timeout
func (c *FileSystemChecker) WithTimeout(timeout time.Duration) *FileSystemChecker {
	c.Timeout = timeout
	return c
}
