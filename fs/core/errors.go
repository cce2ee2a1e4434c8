package core

import (
	"errors"
	"io/fs"
)

var (
	// ErrNotExist is returned when a file or directory does not exist.
	ErrNotExist = fs.ErrNotExist

	// ErrExist is returned when a file or directory already exists.
	ErrExist = fs.ErrExist

	// ErrPermission is returned when permission is denied.
	ErrPermission = fs.ErrPermission

	// ErrClosed is returned when an operation is performed on a closed file.
	ErrClosed = fs.ErrClosed

	// ErrNotEmpty is returned when removing a directory that still has entries.
	ErrNotEmpty = errors.New("directory not empty")

	// ErrUnsupported is returned when a backend cannot perform an operation,
	// for example read-write opens on an object store.
	ErrUnsupported = errors.New("operation not supported")
)
