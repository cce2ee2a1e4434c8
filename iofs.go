package crashplanfs

import (
	"io"
	"io/fs"
	"path"
	"slices"
)

// IOFS returns the view as an fs.FS so it works with fs.WalkDir,
// fs.ReadFile and friends. Names follow io/fs rules: unrooted, with "."
// for the root. Directories open as fs.ReadDirFile.
func (f *FS) IOFS() fs.FS {
	return ioFS{f}
}

type ioFS struct {
	f *FS
}

func (i ioFS) name(op, name string) (string, error) {
	if !fs.ValidPath(name) {
		return "", &fs.PathError{Op: op, Path: name, Err: fs.ErrInvalid}
	}
	return clean(name), nil
}

func (i ioFS) Open(name string) (fs.File, error) {
	p, err := i.name("open", name)
	if err != nil {
		return nil, err
	}

	info, err := i.f.Stat(p)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	if info.IsDir() {
		return &dirFile{f: i.f, p: p, info: info}, nil
	}

	file, err := i.f.Open(p)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	return file, nil
}

func (i ioFS) Stat(name string) (fs.FileInfo, error) {
	p, err := i.name("stat", name)
	if err != nil {
		return nil, err
	}
	info, err := i.f.Stat(p)
	if err != nil {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: err}
	}
	if p == "/" {
		return namedInfo{Info: info, name: "."}, nil
	}
	return info, nil
}

func (i ioFS) ReadDir(name string) ([]fs.DirEntry, error) {
	p, err := i.name("readdir", name)
	if err != nil {
		return nil, err
	}
	entries, err := readDirEntries(i.f, p)
	if err != nil {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: err}
	}
	return entries, nil
}

// readDirEntries lists p with merged information for every child.
func readDirEntries(f *FS, p string) ([]fs.DirEntry, error) {
	names, err := f.ReadDir(p)
	if err != nil {
		return nil, err
	}
	entries := make([]fs.DirEntry, 0, len(names))
	for _, n := range names {
		info, err := f.Stat(path.Join(p, n))
		if err != nil {
			return nil, err
		}
		entries = append(entries, fs.FileInfoToDirEntry(info))
	}
	return entries, nil
}

// namedInfo renames an Info; io/fs calls the root ".".
type namedInfo struct {
	*Info
	name string
}

func (n namedInfo) Name() string { return n.name }

// dirFile is an open directory of the view.
type dirFile struct {
	f       *FS
	p       string
	info    *Info
	entries []fs.DirEntry
	read    bool
}

func (d *dirFile) Stat() (fs.FileInfo, error) { return d.info, nil }

func (d *dirFile) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.p, Err: fs.ErrInvalid}
}

func (d *dirFile) Close() error { return nil }

// ReadDir follows fs.ReadDirFile: n <= 0 returns everything left, n > 0
// returns at most n entries and io.EOF at the end.
func (d *dirFile) ReadDir(n int) ([]fs.DirEntry, error) {
	if !d.read {
		entries, err := readDirEntries(d.f, d.p)
		if err != nil {
			return nil, err
		}
		d.entries, d.read = entries, true
	}

	if n <= 0 {
		out := d.entries
		d.entries = nil
		return out, nil
	}
	if len(d.entries) == 0 {
		return nil, io.EOF
	}
	n = min(n, len(d.entries))
	out := slices.Clone(d.entries[:n])
	d.entries = d.entries[n:]
	return out, nil
}

var (
	_ fs.StatFS      = ioFS{}
	_ fs.ReadDirFS   = ioFS{}
	_ fs.ReadDirFile = (*dirFile)(nil)
)
