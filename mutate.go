package crashplanfs

import (
	"io/fs"
	"os"
	"path"
	"time"

	"github.com/jmgilman/go/crashplanfs/errors"
	"github.com/jmgilman/go/crashplanfs/fs/core"
)

// Mkdir creates the directory name in the transfer area and returns a view
// scoped to it.
//
// The parent must be a directory of the merged view. If name already exists
// Mkdir fails with errors.CodeDirectoryExists, unless recreate is set, in
// which case the existing directory is returned.
func (f *FS) Mkdir(name string, recreate bool) (*SubFS, error) {
	p := clean(name)

	if !f.IsDir(path.Dir(p)) {
		return nil, errNotFound(p)
	}

	info, err := f.Stat(p)
	switch {
	case err == nil && !recreate:
		return nil, pathErr(errors.CodeDirectoryExists, fs.ErrExist, "directory exists", p)
	case err == nil && !info.IsDir():
		return nil, errDirectoryExpected(p)
	case err == nil:
		return newSubFS(f, p), nil
	case !errors.HasCode(err, errors.CodeNotFound):
		return nil, err
	}

	if err := f.area.MkdirAll(f.localKey(p), 0o755); err != nil {
		return nil, storageErr(err, "unable to create directory", p)
	}
	return newSubFS(f, p), nil
}

// MakeDirs creates name and any missing parents in the transfer area.
// An existing directory fails with errors.CodeDirectoryExists unless
// recreate is set; an existing file anywhere on the way fails with
// errors.CodeDirectoryExpected.
func (f *FS) MakeDirs(name string, recreate bool) (*SubFS, error) {
	p := clean(name)

	if info, err := f.Stat(p); err == nil {
		if !info.IsDir() {
			return nil, errDirectoryExpected(p)
		}
		if !recreate {
			return nil, pathErr(errors.CodeDirectoryExists, fs.ErrExist, "directory exists", p)
		}
		return newSubFS(f, p), nil
	} else if !errors.HasCode(err, errors.CodeNotFound) {
		return nil, err
	}

	for dir := path.Dir(p); dir != "/"; dir = path.Dir(dir) {
		info, err := f.Stat(dir)
		if err == nil {
			if !info.IsDir() {
				return nil, errDirectoryExpected(dir)
			}
			break
		}
		if !errors.HasCode(err, errors.CodeNotFound) {
			return nil, err
		}
	}

	if err := f.area.MkdirAll(f.localKey(p), 0o755); err != nil {
		return nil, storageErr(err, "unable to create directories", p)
	}
	return newSubFS(f, p), nil
}

// OpenFile opens name in the transfer area with os.O_* flags.
//
// With os.O_CREATE the parent must exist in the merged view, an existing
// directory fails with errors.CodeFileExpected and os.O_EXCL on an existing
// entry fails with errors.CodeFileExists. Without it the entry must exist
// and be a file. Missing parents in the transfer area are created first.
//
// A file known only to the log has no content to read; opening it fails
// with errors.CodeNotFound.
func (f *FS) OpenFile(name string, flag int, perm fs.FileMode) (*File, error) {
	p := clean(name)
	if p == "/" {
		return nil, errFileExpected(p)
	}

	if flag&os.O_CREATE != 0 {
		if parent := path.Dir(p); parent != "/" {
			info, err := f.Stat(parent)
			if err != nil {
				if errors.HasCode(err, errors.CodeNotFound) {
					return nil, errNotFound(p)
				}
				return nil, err
			}
			if !info.IsDir() {
				return nil, errDirectoryExpected(parent)
			}
		}

		info, err := f.Stat(p)
		switch {
		case err == nil && flag&os.O_EXCL != 0:
			return nil, pathErr(errors.CodeFileExists, fs.ErrExist, "file exists", p)
		case err == nil && info.IsDir():
			return nil, errFileExpected(p)
		case err != nil && !errors.HasCode(err, errors.CodeNotFound):
			return nil, err
		}
	} else {
		info, err := f.Stat(p)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			return nil, errFileExpected(p)
		}
	}

	return openStaged(f.area, f.localKey(p), p, flag, perm)
}

// Open opens name for reading.
func (f *FS) Open(name string) (*File, error) {
	return f.OpenFile(name, os.O_RDONLY, 0)
}

// Create creates or truncates name for writing.
func (f *FS) Create(name string) (*File, error) {
	return f.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
}

// Remove deletes the staged copy of the file name. A file known only to
// the log surfaces the transfer area's not-found error.
func (f *FS) Remove(name string) error {
	p := clean(name)

	info, err := f.Stat(p)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return errFileExpected(p)
	}

	if err := f.area.Remove(f.localKey(p)); err != nil {
		return storageErr(err, "unable to remove file", p)
	}
	return nil
}

// RemoveDir deletes the empty directory name from the transfer area.
// The root cannot be removed, and a directory with children in the log or
// in the transfer area fails with errors.CodeDirectoryNotEmpty.
func (f *FS) RemoveDir(name string) error {
	p := clean(name)
	if p == "/" {
		return pathErr(errors.CodeRemoveRoot, fs.ErrPermission, "cannot remove root", p)
	}

	info, err := f.Stat(p)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return errDirectoryExpected(p)
	}

	names, err := f.ReadDir(p)
	if err != nil {
		return err
	}
	if len(names) == 0 && !f.preferLocal {
		// Staged children are not part of the listing without WithPreferLocal.
		entries, err := f.area.ReadDir(f.localKey(p))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return storageErr(err, "unable to list staged directory", p)
		}
		if len(entries) > 0 {
			names = append(names, entries[0].Name())
		}
	}
	if len(names) > 0 {
		return pathErr(errors.CodeDirectoryNotEmpty, core.ErrNotEmpty, "directory not empty", p)
	}

	if err := f.area.Remove(f.localKey(p)); err != nil {
		return storageErr(err, "unable to remove directory", p)
	}
	return nil
}

// SetModTime sets the times of the staged copy of name. The log is never
// changed.
func (f *FS) SetModTime(name string, atime, mtime time.Time) error {
	p := clean(name)
	if err := f.area.Chtimes(f.localKey(p), atime, mtime); err != nil {
		return storageErr(err, "unable to set times", p)
	}
	return nil
}

// Stage copies every entry of src into the directory dir of the transfer
// area. dir must be a directory of the merged view. Staged copies keep
// their modification times where the area supports it, so the next
// collection can tell whether the backup has caught up with them.
func (f *FS) Stage(src fs.FS, dir string) error {
	p := clean(dir)

	info, err := f.Stat(p)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return errDirectoryExpected(p)
	}

	if err := core.CopyFS(src, ".", f.area, f.localKey(p)); err != nil {
		return storageErr(err, "unable to stage files", p)
	}
	f.logger.Debug("staged files", "dir", p)
	return nil
}
