package crashplanfs

import (
	"io/fs"
	"path"
	"sort"

	"github.com/jmgilman/go/crashplanfs/errors"
)

// ReadDir returns the sorted names of the children of the directory name.
//
// Children come from the log records below the directory. With
// WithPreferLocal the transfer area's children are added too. Names present
// in both appear once.
func (f *FS) ReadDir(name string) ([]string, error) {
	p := clean(name)

	info, err := f.Stat(p)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, errDirectoryExpected(p)
	}

	names := f.index.Children(f.indexKey(p))
	if !f.preferLocal {
		return names, nil
	}

	entries, err := f.area.ReadDir(f.localKey(p))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return names, nil
		}
		return nil, storageErr(err, "unable to list staged directory", p)
	}

	seen := make(map[string]struct{}, len(names)+len(entries))
	for _, n := range names {
		seen[n] = struct{}{}
	}
	for _, e := range entries {
		if _, ok := seen[e.Name()]; !ok {
			seen[e.Name()] = struct{}{}
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Walk walks the merged view rooted at root in lexical order, calling fn
// for root and every entry below it. fs.SkipDir and fs.SkipAll behave as
// in fs.WalkDir.
func (f *FS) Walk(root string, fn fs.WalkDirFunc) error {
	root = clean(root)

	info, err := f.Stat(root)
	if err != nil {
		err = fn(root, nil, err)
	} else {
		err = f.walk(root, fs.FileInfoToDirEntry(info), fn)
	}
	if errors.Is(err, fs.SkipDir) || errors.Is(err, fs.SkipAll) {
		return nil
	}
	return err
}

func (f *FS) walk(p string, d fs.DirEntry, fn fs.WalkDirFunc) error {
	if err := fn(p, d, nil); err != nil || !d.IsDir() {
		if errors.Is(err, fs.SkipDir) && d.IsDir() {
			err = nil
		}
		return err
	}

	names, err := f.ReadDir(p)
	if err != nil {
		if err = fn(p, d, err); err != nil {
			if errors.Is(err, fs.SkipDir) {
				err = nil
			}
			return err
		}
	}

	for _, n := range names {
		child := path.Join(p, n)
		info, err := f.Stat(child)
		if err != nil {
			if err := fn(child, nil, err); err != nil {
				return err
			}
			continue
		}
		if err := f.walk(child, fs.FileInfoToDirEntry(info), fn); err != nil {
			if errors.Is(err, fs.SkipDir) {
				return nil
			}
			return err
		}
	}
	return nil
}
