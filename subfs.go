package crashplanfs

import (
	"io/fs"
	"path"
	"time"
)

// SubFS is a view of one directory of an FS. Names are resolved relative to
// that directory and cannot climb above it.
type SubFS struct {
	parent *FS
	dir    string
}

func newSubFS(parent *FS, dir string) *SubFS {
	return &SubFS{parent: parent, dir: clean(dir)}
}

// Path returns the directory of the parent view this SubFS is scoped to.
func (s *SubFS) Path() string {
	return s.dir
}

func (s *SubFS) resolve(name string) string {
	return path.Join(s.dir, clean(name))
}

// Stat is FS.Stat relative to the directory.
func (s *SubFS) Stat(name string) (*Info, error) {
	return s.parent.Stat(s.resolve(name))
}

// ReadDir is FS.ReadDir relative to the directory.
func (s *SubFS) ReadDir(name string) ([]string, error) {
	return s.parent.ReadDir(s.resolve(name))
}

// Mkdir is FS.Mkdir relative to the directory.
func (s *SubFS) Mkdir(name string, recreate bool) (*SubFS, error) {
	return s.parent.Mkdir(s.resolve(name), recreate)
}

// OpenFile is FS.OpenFile relative to the directory.
func (s *SubFS) OpenFile(name string, flag int, perm fs.FileMode) (*File, error) {
	return s.parent.OpenFile(s.resolve(name), flag, perm)
}

// Open is FS.Open relative to the directory.
func (s *SubFS) Open(name string) (*File, error) {
	return s.parent.Open(s.resolve(name))
}

// Create is FS.Create relative to the directory.
func (s *SubFS) Create(name string) (*File, error) {
	return s.parent.Create(s.resolve(name))
}

// Remove is FS.Remove relative to the directory.
func (s *SubFS) Remove(name string) error {
	return s.parent.Remove(s.resolve(name))
}

// RemoveDir is FS.RemoveDir relative to the directory. The directory itself
// can be removed through "/".
func (s *SubFS) RemoveDir(name string) error {
	return s.parent.RemoveDir(s.resolve(name))
}

// SetModTime is FS.SetModTime relative to the directory.
func (s *SubFS) SetModTime(name string, atime, mtime time.Time) error {
	return s.parent.SetModTime(s.resolve(name), atime, mtime)
}

// Walk is FS.Walk relative to the directory. Paths passed to fn are relative
// to the directory and start with "/".
func (s *SubFS) Walk(root string, fn fs.WalkDirFunc) error {
	return s.parent.Walk(s.resolve(root), func(p string, d fs.DirEntry, err error) error {
		rel := "/" + trimDir(s.dir, p)
		return fn(path.Clean(rel), d, err)
	})
}

// trimDir strips dir from the front of p.
func trimDir(dir, p string) string {
	if dir == "/" {
		return p[1:]
	}
	if p == dir {
		return ""
	}
	return p[len(dir)+1:]
}
