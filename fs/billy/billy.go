package billy

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/jmgilman/go/crashplanfs/fs/core"
)

// area adapts a billy.Filesystem to core.TransferArea. LocalFS, MemoryFS and
// TempFS embed it and differ only in how times are stored and in Type.
type area struct {
	bfs billy.Filesystem
}

// normalize converts names to the cleaned, slash-separated relative form
// billy expects. The root is always ".".
func normalize(name string) string {
	name = path.Clean("/" + filepath.ToSlash(name))
	if name == "/" {
		return "."
	}
	return name[1:]
}

// Unwrap returns the underlying billy.Filesystem.
func (a *area) Unwrap() billy.Filesystem {
	return a.bfs
}

// Stat returns metadata for the named entry. The root is reported as a
// directory even on backends that do not store it.
func (a *area) Stat(name string) (fs.FileInfo, error) {
	name = normalize(name)
	if name == "." {
		return rootInfo{}, nil
	}
	info, err := a.bfs.Stat(name)
	if err != nil {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: translate(err)}
	}
	return info, nil
}

// ReadDir returns the entries of the named directory sorted by name.
func (a *area) ReadDir(name string) ([]fs.DirEntry, error) {
	name = normalize(name)
	infos, err := a.bfs.ReadDir(name)
	if err != nil {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: translate(err)}
	}
	entries := make([]fs.DirEntry, len(infos))
	for i, info := range infos {
		entries[i] = fs.FileInfoToDirEntry(info)
	}
	return entries, nil
}

// Exists reports whether the named file or directory exists.
func (a *area) Exists(name string) (bool, error) {
	_, err := a.Stat(name)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// OpenFile opens a file with the specified flags and permissions.
// Unlike plain billy, a missing parent directory is an error.
func (a *area) OpenFile(name string, flag int, perm fs.FileMode) (core.File, error) {
	name = normalize(name)
	if parent := path.Dir(name); parent != "." {
		info, err := a.bfs.Stat(parent)
		if err != nil {
			return nil, &fs.PathError{Op: "open", Path: name, Err: translate(err)}
		}
		if !info.IsDir() {
			return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
		}
	}
	if info, err := a.bfs.Stat(name); err == nil && info.IsDir() {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	f, err := a.bfs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: translate(err)}
	}
	return &File{file: f, fs: a.bfs, name: name, flag: flag}, nil
}

// MkdirAll creates a directory named path, along with any necessary parents.
func (a *area) MkdirAll(name string, perm fs.FileMode) error {
	name = normalize(name)
	if name == "." {
		return nil
	}
	return a.bfs.MkdirAll(name, perm)
}

// Remove removes the named file or empty directory.
func (a *area) Remove(name string) error {
	name = normalize(name)
	if err := a.bfs.Remove(name); err != nil {
		return &fs.PathError{Op: "remove", Path: name, Err: translate(err)}
	}
	return nil
}

// Walk walks the tree rooted at root in lexical order, including root.
func (a *area) Walk(root string, walkFn fs.WalkDirFunc) error {
	root = normalize(root)
	info, err := a.Stat(root)
	if err != nil {
		err = walkFn(root, nil, err)
	} else {
		err = a.walk(root, fs.FileInfoToDirEntry(info), walkFn)
	}
	if errors.Is(err, fs.SkipDir) || errors.Is(err, fs.SkipAll) {
		return nil
	}
	return err
}

func (a *area) walk(name string, d fs.DirEntry, walkFn fs.WalkDirFunc) error {
	if err := walkFn(name, d, nil); err != nil || !d.IsDir() {
		if errors.Is(err, fs.SkipDir) && d.IsDir() {
			err = nil
		}
		return err
	}

	entries, err := a.ReadDir(name)
	if err != nil {
		if err = walkFn(name, d, err); err != nil {
			return err
		}
	}

	for _, entry := range entries {
		if err := a.walk(path.Join(name, entry.Name()), entry, walkFn); err != nil {
			if errors.Is(err, fs.SkipDir) {
				continue
			}
			return err
		}
	}
	return nil
}

// chtimes sets times through billy's optional Change interface.
func (a *area) chtimes(name string, atime, mtime time.Time) error {
	changer, ok := a.bfs.(billy.Change)
	if !ok {
		return &fs.PathError{Op: "chtimes", Path: name, Err: core.ErrUnsupported}
	}
	if err := changer.Chtimes(normalize(name), atime, mtime); err != nil {
		return &fs.PathError{Op: "chtimes", Path: name, Err: translate(err)}
	}
	return nil
}

// translate maps backend errors onto io/fs sentinels. ENOTEMPTY also
// satisfies os.IsExist, so it is checked first.
func translate(err error) error {
	switch {
	case errors.Is(err, syscall.ENOTEMPTY), strings.HasSuffix(err.Error(), "contains files"):
		return core.ErrNotEmpty
	case os.IsNotExist(err):
		return fs.ErrNotExist
	case os.IsExist(err):
		return fs.ErrExist
	case os.IsPermission(err):
		return fs.ErrPermission
	}
	return err
}

// rootInfo describes the root of an area.
type rootInfo struct{}

func (rootInfo) Name() string       { return "." }
func (rootInfo) Size() int64        { return 0 }
func (rootInfo) Mode() fs.FileMode  { return fs.ModeDir | 0o755 }
func (rootInfo) ModTime() time.Time { return time.Time{} }
func (rootInfo) IsDir() bool        { return true }
func (rootInfo) Sys() interface{}   { return nil }
