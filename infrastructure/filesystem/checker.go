package filesystem

import (
	"github.com/spf13/afero"
)

// Checker answers file questions against an afero filesystem
type Checker struct {
	fs afero.Fs
}

// NewCheckerWithFS creates a checker on fs
func NewCheckerWithFS(fs afero.Fs) *Checker {
	return &Checker{fs: fs}
}

// Exists returns true if the file exists
func (c *Checker) Exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := c.fs.Stat(path)
	return err == nil
}

// Size returns the size of path in bytes, or 0 if it cannot be read
func (c *Checker) Size(path string) int64 {
	info, err := c.fs.Stat(path)
	if err != nil || info.IsDir() {
		return 0
	}
	return info.Size()
}

// Remove deletes path
func (c *Checker) Remove(path string) error {
	return c.fs.Remove(path)
}
