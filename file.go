package crashplanfs

import (
	"io"
	"io/fs"
	"os"
	"path"

	"github.com/jmgilman/go/crashplanfs/errors"
	"github.com/jmgilman/go/crashplanfs/fs/core"
)

// File is an open file of the view. It proxies a transfer area handle and
// enforces the access mode the file was opened with.
type File struct {
	f    core.File
	name string
	flag int
}

// openStaged opens key in area. When creating, missing parents of key are
// created first.
func openStaged(area core.TransferArea, key, name string, flag int, perm fs.FileMode) (*File, error) {
	if dir := path.Dir(key); flag&os.O_CREATE != 0 && dir != "." {
		ok, err := area.Exists(dir)
		if err != nil {
			return nil, storageErr(err, "unable to check staged directory", name)
		}
		if !ok {
			if err := area.MkdirAll(dir, 0o755); err != nil {
				return nil, storageErr(err, "unable to create staged directory", name)
			}
		}
	}

	af, err := area.OpenFile(key, flag, perm)
	if err != nil {
		return nil, storageErr(err, "unable to open file", name)
	}
	return &File{f: af, name: name, flag: flag}, nil
}

func (f *File) accessMode() int {
	return f.flag & (os.O_RDONLY | os.O_WRONLY | os.O_RDWR)
}

// Readable reports whether the file was opened for reading.
func (f *File) Readable() bool {
	return f.accessMode() != os.O_WRONLY
}

// Writable reports whether the file was opened for writing.
func (f *File) Writable() bool {
	return f.accessMode() != os.O_RDONLY
}

// Name returns the view path the file was opened with.
func (f *File) Name() string {
	return f.name
}

// Read reads from the staged file. It fails with fs.ErrInvalid when the file
// is not open for reading.
func (f *File) Read(p []byte) (int, error) {
	if !f.Readable() {
		return 0, pathErr(errors.CodeInvalidInput, fs.ErrInvalid, "not open for reading", f.name)
	}
	return f.f.Read(p)
}

// Write writes to the staged file and reports len(p) on success. It fails
// with fs.ErrInvalid when the file is not open for writing.
func (f *File) Write(p []byte) (int, error) {
	if !f.Writable() {
		return 0, pathErr(errors.CodeInvalidInput, fs.ErrInvalid, "not open for writing", f.name)
	}
	return f.f.Write(p)
}

// Seek sets the offset for the next Read or Write and returns it.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart, io.SeekCurrent, io.SeekEnd:
	default:
		return 0, pathErr(errors.CodeInvalidInput, fs.ErrInvalid, "invalid whence", f.name)
	}

	seeker, ok := f.f.(io.Seeker)
	if !ok {
		return 0, pathErr(errors.CodeUnsupported, core.ErrUnsupported, "seek not supported", f.name)
	}
	return seeker.Seek(offset, whence)
}

// Truncate changes the size of the file. A negative size truncates at the
// current offset. It returns the new size.
func (f *File) Truncate(size int64) (int64, error) {
	if size < 0 {
		off, err := f.Seek(0, io.SeekCurrent)
		if err != nil {
			return 0, err
		}
		size = off
	}

	t, ok := f.f.(core.Truncater)
	if !ok {
		return 0, pathErr(errors.CodeUnsupported, core.ErrUnsupported, "truncate not supported", f.name)
	}
	if err := t.Truncate(size); err != nil {
		return 0, storageErr(err, "unable to truncate", f.name)
	}
	return size, nil
}

// Sync flushes the staged file when the transfer area supports it.
func (f *File) Sync() error {
	if s, ok := f.f.(core.Syncer); ok {
		return s.Sync()
	}
	return nil
}

// Stat returns the transfer area's information for the open file.
func (f *File) Stat() (fs.FileInfo, error) {
	return f.f.Stat()
}

// Close releases the transfer area handle.
func (f *File) Close() error {
	return f.f.Close()
}

var (
	_ fs.File       = (*File)(nil)
	_ io.ReadWriter = (*File)(nil)
	_ io.Seeker     = (*File)(nil)
)
