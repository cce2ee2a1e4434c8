package billy

import (
	"io"
	"io/fs"

	"github.com/go-git/go-billy/v5"
	"github.com/jmgilman/go/crashplanfs/fs/core"
)

// File wraps billy.File to implement core.File.
// The name is kept as passed to OpenFile because billy backends report
// File.Name() in different forms; the filesystem is kept for Stat.
type File struct {
	file billy.File
	fs   billy.Basic
	name string
	flag int
}

// Read delegates to the underlying billy.File.
func (f *File) Read(p []byte) (int, error) {
	return f.file.Read(p)
}

// Write delegates to the underlying billy.File.
func (f *File) Write(p []byte) (int, error) {
	return f.file.Write(p)
}

// Close releases the underlying billy.File.
func (f *File) Close() error {
	return f.file.Close()
}

// Stat asks the filesystem, since billy.File has no Stat of its own.
func (f *File) Stat() (fs.FileInfo, error) {
	return f.fs.Stat(f.name)
}

// Name returns the name passed to OpenFile.
func (f *File) Name() string {
	return f.name
}

// Flag returns the os.O_* flags the file was opened with.
func (f *File) Flag() int {
	return f.flag
}

// Seek delegates to the underlying billy.File.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	return f.file.Seek(offset, whence)
}

// Truncate delegates to the underlying billy.File.
func (f *File) Truncate(size int64) error {
	return f.file.Truncate(size)
}

// Sync flushes to stable storage when the backend supports it and is a
// no-op otherwise (memfs).
func (f *File) Sync() error {
	if syncer, ok := f.file.(interface{ Sync() error }); ok {
		return syncer.Sync()
	}
	return nil
}

// Compile-time interface checks.
var (
	_ core.File      = (*File)(nil)
	_ io.Seeker      = (*File)(nil)
	_ core.Truncater = (*File)(nil)
	_ core.Syncer    = (*File)(nil)
)
