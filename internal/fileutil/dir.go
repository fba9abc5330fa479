package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// EnsureDir creates a directory and all parent directories with perm if they
// don't exist. Returns nil if the directory already exists.
func EnsureDir(path string, perm fs.FileMode) error {
	if err := os.MkdirAll(path, perm); err != nil {
		return fmt.Errorf("create directory %s: %w", path, err)
	}
	return nil
}

// IsRegularFile reports whether path names a regular file, following
// symlinks. Missing files and permission errors report false.
func IsRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Exists reports whether path exists. Errors other than fs.ErrNotExist are
// returned so a caller can tell an unreadable directory from a missing file.
func Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
}
