package utils

import (
	"os"
	"path/filepath"
)

// FileExists simply checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates directory if it doesn't exist
func EnsureDir(dirPath string) error {
	return os.MkdirAll(dirPath, 0755)
}

// GetAbsolutePath returns the absolute path of a file
func GetAbsolutePath(path string) string {
	if path == "" {
		return "unknown"
	}

	if !filepath.IsAbs(path) {
		if absPath, err := filepath.Abs(path); err == nil {
			return absPath
		}
	}
	return path
}

// GetExecutableDir returns the directory of the current executable.
// Fallback for when no explicit data/config paths are given.
func GetExecutableDir() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(execPath), nil
}

// ResolveDataPath resolves a path relative to cwd first, then relative
// to the executable directory. Returns the input unchanged when absolute.
func ResolveDataPath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if FileExists(path) {
		return path
	}
	execDir, err := GetExecutableDir()
	if err != nil {
		return path
	}
	candidate := filepath.Join(execDir, path)
	if FileExists(candidate) {
		return candidate
	}
	return path
}
