// Package walk provides helper functions for directory tree walking.
package walk

import (
	"errors"
	"io/fs"
	"path"
)

// DirFunc is a function type that can recursively walk a directory.
// This allows the walk helpers to call back into the area's walkDir method.
type DirFunc func(name string, walkFn fs.WalkDirFunc) error

// ProcessEntry processes a single entry during directory walking.
// It determines whether the entry is a file or directory and calls the appropriate handler.
func ProcessEntry(parentName string, entry fs.DirEntry, walkFn fs.WalkDirFunc, walkDir DirFunc) error {
	entryPath := path.Join(parentName, entry.Name())

	if entry.IsDir() {
		return ProcessDirectory(entryPath, walkFn, walkDir)
	}

	return ProcessFile(entryPath, entry, walkFn)
}

// ProcessDirectory handles walking into a subdirectory.
func ProcessDirectory(entryPath string, walkFn fs.WalkDirFunc, walkDir DirFunc) error {
	err := walkDir(entryPath, walkFn)
	if errors.Is(err, fs.SkipDir) {
		return nil // Skip this directory, continue with siblings
	}
	return err
}

// ProcessFile handles calling walkFn for a file entry. A returned fs.SkipDir
// is passed up so the caller can skip the remaining siblings.
func ProcessFile(entryPath string, entry fs.DirEntry, walkFn fs.WalkDirFunc) error {
	return walkFn(entryPath, entry, nil)
}
