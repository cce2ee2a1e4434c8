package crashplanfs

import (
	"io/fs"
	"path"
	"time"

	"github.com/jmgilman/go/crashplanfs/backuplog"
)

// Source says where an Info came from.
type Source int

const (
	// SourceSynthetic marks the view root, which always exists.
	SourceSynthetic Source = iota
	// SourceRemote marks information derived from the backup log.
	SourceRemote
	// SourceLocal marks information read from the transfer area.
	SourceLocal
)

// String returns a string representation of the Source.
func (s Source) String() string {
	switch s {
	case SourceRemote:
		return "remote"
	case SourceLocal:
		return "local"
	default:
		return "synthetic"
	}
}

// perm is reported for every entry; the log carries no permissions.
const perm fs.FileMode = 0o755

// Info describes an entry of the merged view. It implements fs.FileInfo.
// Size is -1 when unknown, which is always the case for remote entries.
type Info struct {
	name    string
	dir     bool
	modTime time.Time
	size    int64
	source  Source
}

func rootInfo() *Info {
	return &Info{name: "", dir: true, size: -1, source: SourceSynthetic}
}

func remoteInfo(p string, rec backuplog.Record) *Info {
	return &Info{
		name:    path.Base(p),
		dir:     rec.IsDir,
		modTime: rec.Time,
		size:    -1,
		source:  SourceRemote,
	}
}

func localInfo(p string, fi fs.FileInfo) *Info {
	size := fi.Size()
	if fi.IsDir() {
		size = -1
	}
	return &Info{
		name:    path.Base(p),
		dir:     fi.IsDir(),
		modTime: fi.ModTime(),
		size:    size,
		source:  SourceLocal,
	}
}

// Name returns the base name; the root's name is empty.
func (i *Info) Name() string { return i.name }

// IsDir reports whether the entry is a directory.
func (i *Info) IsDir() bool { return i.dir }

// ModTime returns the modification time. It is zero when unknown.
func (i *Info) ModTime() time.Time { return i.modTime }

// Size returns the size in bytes, or -1 when unknown.
func (i *Info) Size() int64 { return i.size }

// Mode returns 0755, with fs.ModeDir set for directories.
func (i *Info) Mode() fs.FileMode {
	if i.dir {
		return fs.ModeDir | perm
	}
	return perm
}

// Sys returns nil.
func (i *Info) Sys() any { return nil }

// Source reports where the information came from.
func (i *Info) Source() Source { return i.source }

var _ fs.FileInfo = (*Info)(nil)
