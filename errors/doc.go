// Package errors provides structured error handling for crashplanfs.
//
// Every failure surfaced by the filesystem view is a PlatformError carrying an
// ErrorCode from a small taxonomy (CodeNotFound, CodeFileExpected,
// CodeDirectoryNotEmpty, ...), a retry classification, and context metadata
// such as the offending path. Errors wrap the matching io/fs sentinel where one
// exists, so stdlib callers can keep using errors.Is(err, fs.ErrNotExist).
//
// # Creating errors
//
//	err := errors.New(errors.CodeRemoveRoot, "cannot remove the root directory")
//	err = errors.WithContext(err, "path", "/")
//
// # Wrapping errors
//
//	if err := area.Remove(key); err != nil {
//	    return errors.Wrap(err, errors.CodeStorage, "failed to remove staged file")
//	}
//
// # Inspecting errors
//
//	switch errors.GetCode(err) {
//	case errors.CodeNotFound:
//	    // ...
//	}
//
// Only backend failures (CodeStorage, CodeUnavailable) are retryable; the
// backup log is static, so everything else is permanent.
package errors
