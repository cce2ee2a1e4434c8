package core

import (
	"io"
	"io/fs"
	"time"
)

// FSType represents the underlying type of a transfer area implementation.
type FSType int

const (
	// FSTypeUnknown indicates the backend type is unknown or unspecified.
	FSTypeUnknown FSType = iota
	// FSTypeLocal indicates a local, disk-backed transfer area.
	FSTypeLocal
	// FSTypeMemory indicates an in-memory transfer area.
	FSTypeMemory
	// FSTypeRemote indicates an object-store transfer area (e.g., S3, MinIO).
	FSTypeRemote
)

// String returns a string representation of the FSType.
func (t FSType) String() string {
	switch t {
	case FSTypeLocal:
		return "local"
	case FSTypeMemory:
		return "memory"
	case FSTypeRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// TransferArea is the mutable staging store sitting under the backup view.
//
// Names are slash-separated and relative to the area's root; "." names the
// root itself. The view never branches on the concrete backend, so every
// provider MUST implement the full interface, composed of ReadFS, WriteFS,
// ManageFS, WalkFS and TimesFS.
type TransferArea interface {
	ReadFS
	WriteFS
	ManageFS
	WalkFS
	TimesFS

	// Type returns the underlying backend type.
	Type() FSType
}

// ReadFS defines the metadata lookups the view needs.
type ReadFS interface {
	// Stat returns metadata for the named file or directory.
	// Missing entries report an error matching fs.ErrNotExist.
	Stat(name string) (fs.FileInfo, error)

	// ReadDir returns the entries of the named directory sorted by name.
	ReadDir(name string) ([]fs.DirEntry, error)

	// Exists reports whether the named file or directory exists.
	// A false result with a non-nil error means existence could not be
	// determined, not that the entry is missing.
	Exists(name string) (bool, error)
}

// WriteFS defines the operations that create content.
type WriteFS interface {
	// OpenFile opens a file with os.O_* flags. If the file is created, perm
	// is used (before umask). Parent directories must already exist.
	OpenFile(name string, flag int, perm fs.FileMode) (File, error)

	// MkdirAll creates a directory along with any missing parents.
	// It is a no-op for an existing directory.
	MkdirAll(path string, perm fs.FileMode) error
}

// ManageFS defines removal.
type ManageFS interface {
	// Remove removes the named file or empty directory.
	Remove(name string) error
}

// WalkFS defines recursive traversal.
type WalkFS interface {
	// Walk visits root and every entry below it in lexical order, calling
	// walkFn for files and directories alike.
	Walk(root string, walkFn fs.WalkDirFunc) error
}

// TimesFS defines modification-time updates.
type TimesFS interface {
	// Chtimes changes the access and modification times of the named entry.
	// Backends that cannot store access times ignore atime.
	Chtimes(name string, atime, mtime time.Time) error
}

// File is an open transfer area file. It extends fs.File with writes.
type File interface {
	fs.File
	io.Writer

	// Name returns the name of the file as passed to OpenFile.
	Name() string
}

// Optional File capabilities (use type assertions):
//
// - io.Seeker: Seek(offset int64, whence int) (int64, error)
// - Truncater: Truncate(size int64) error
// - Syncer: Sync() error

// Truncater allows truncating a file to a specified size.
type Truncater interface {
	// Truncate changes the size of the file without moving the offset.
	Truncate(size int64) error
}

// Syncer allows syncing file contents to stable storage.
type Syncer interface {
	// Sync commits the current contents of the file to stable storage.
	Sync() error
}
