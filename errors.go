package crashplanfs

import (
	"io/fs"

	"github.com/jmgilman/go/crashplanfs/errors"
	"github.com/jmgilman/go/crashplanfs/fs/core"
)

// pathErr builds a coded error for path. A non-nil cause is wrapped so
// errors.Is keeps matching io/fs sentinels.
func pathErr(code errors.ErrorCode, cause error, message, path string) error {
	var err errors.PlatformError
	if cause != nil {
		err = errors.Wrap(cause, code, message)
	} else {
		err = errors.New(code, message)
	}
	return errors.WithContext(err, "path", path)
}

func errNotFound(path string) error {
	return pathErr(errors.CodeNotFound, fs.ErrNotExist, "resource not found", path)
}

func errDirectoryExpected(path string) error {
	return pathErr(errors.CodeDirectoryExpected, fs.ErrInvalid, "directory expected", path)
}

func errFileExpected(path string) error {
	return pathErr(errors.CodeFileExpected, fs.ErrInvalid, "file expected", path)
}

// storageErr wraps a transfer area failure. Not-exist failures become
// CodeNotFound, non-empty directories CodeDirectoryNotEmpty and unsupported
// operations CodeUnsupported.
func storageErr(err error, message, path string) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return pathErr(errors.CodeNotFound, err, message, path)
	case errors.Is(err, core.ErrNotEmpty):
		return pathErr(errors.CodeDirectoryNotEmpty, err, message, path)
	case errors.Is(err, core.ErrUnsupported):
		return pathErr(errors.CodeUnsupported, err, message, path)
	}
	return pathErr(errors.CodeStorage, err, message, path)
}
