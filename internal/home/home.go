// Package home locates folium's on-disk home directory: config file and
// the pagination cache tree.
package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the folium home directory.
	DefaultDirName = ".folium"

	// CacheDirName is the subdirectory pagination cache entries live under
	// (SPEC_FULL.md §4.6).
	CacheDirName = "cache"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"
)

// Dir represents the folium home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.folium).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// CachePath returns the root of the pagination cache tree when bookID is
// empty, the book's directory when only layoutKey is empty, and the path to
// that entry's file when both are non-empty.
func (d *Dir) CachePath(bookID, layoutKey string) string {
	if bookID == "" {
		return filepath.Join(d.path, CacheDirName)
	}
	if layoutKey == "" {
		return filepath.Join(d.path, CacheDirName, bookID)
	}
	return filepath.Join(d.path, CacheDirName, bookID, layoutKey+".json")
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// EnsureExists creates the home directory and its cache subdirectory if
// they don't already exist.
func (d *Dir) EnsureExists() error {
	// Create cache directory (this also creates the parent)
	if err := os.MkdirAll(d.CachePath("", ""), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}
