// Package types holds the file information the MinIO transfer area reports
// for staged objects and directories.
package types // nolint:revive // Internal package with clear purpose

import (
	"io/fs"
	"time"
)

const (
	filePerm fs.FileMode = 0o644
	dirPerm  fs.FileMode = 0o755
)

// Info describes a staged object or a directory. Directories are either
// marker objects or implied by keys below them.
type Info struct {
	name    string
	size    int64
	modTime time.Time
	dir     bool
}

// File describes a staged object.
func File(name string, size int64, modTime time.Time) *Info {
	return &Info{name: name, size: size, modTime: modTime}
}

// Dir describes a directory. modTime is zero for implied directories.
func Dir(name string, modTime time.Time) *Info {
	return &Info{name: name, modTime: modTime, dir: true}
}

// Name returns the base name.
func (i *Info) Name() string { return i.name }

// Size returns the object size; directories report 0.
func (i *Info) Size() int64 { return i.size }

// Mode returns 0644 for objects and fs.ModeDir|0755 for directories.
func (i *Info) Mode() fs.FileMode {
	if i.dir {
		return fs.ModeDir | dirPerm
	}
	return filePerm
}

// ModTime returns the stored modification time.
func (i *Info) ModTime() time.Time { return i.modTime }

// IsDir reports whether i describes a directory.
func (i *Info) IsDir() bool { return i.dir }

// Sys returns nil.
func (i *Info) Sys() any { return nil }

// Entry returns i as an fs.DirEntry.
func (i *Info) Entry() fs.DirEntry { return fs.FileInfoToDirEntry(i) }

var _ fs.FileInfo = (*Info)(nil)
