package billy

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/jmgilman/go/crashplanfs/fs/core"
)

// LocalFS is a disk-backed transfer area rooted at a host directory.
type LocalFS struct {
	area
	root string
}

// MemoryFS is an in-memory transfer area. Its contents vanish with the value.
type MemoryFS struct {
	area
}

// NewLocal creates a transfer area rooted at the host directory root.
// The directory is not created; callers pass an existing path.
func NewLocal(root string, _ ...Option) *LocalFS {
	root = filepath.Clean(root)
	return &LocalFS{
		area: area{bfs: osfs.New(root)},
		root: root,
	}
}

// NewMemory creates an empty in-memory transfer area.
func NewMemory(_ ...Option) *MemoryFS {
	return &MemoryFS{
		area: area{bfs: memfs.New()},
	}
}

// Root returns the host directory backing the area.
func (lfs *LocalFS) Root() string {
	return lfs.root
}

// Chtimes changes access and modification times of the named entry.
// It goes straight to the host filesystem, which always supports it.
func (lfs *LocalFS) Chtimes(name string, atime, mtime time.Time) error {
	name = normalize(name)
	if err := os.Chtimes(filepath.Join(lfs.root, filepath.FromSlash(name)), atime, mtime); err != nil {
		return &fs.PathError{Op: "chtimes", Path: name, Err: translate(err)}
	}
	return nil
}

// Type returns FSTypeLocal.
func (lfs *LocalFS) Type() core.FSType {
	return core.FSTypeLocal
}

// Chtimes changes access and modification times of the named entry.
// It returns core.ErrUnsupported if the memfs build cannot store times.
func (mfs *MemoryFS) Chtimes(name string, atime, mtime time.Time) error {
	return mfs.chtimes(name, atime, mtime)
}

// Type returns FSTypeMemory.
func (mfs *MemoryFS) Type() core.FSType {
	return core.FSTypeMemory
}

// Compile-time interface checks.
var (
	_ core.TransferArea = (*LocalFS)(nil)
	_ core.TransferArea = (*MemoryFS)(nil)
	_ core.TransferArea = (*TempFS)(nil)
)
