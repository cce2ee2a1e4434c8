// Package errors provides the structured error taxonomy used by crashplanfs.
// It extends Go's standard error handling with error codes, retry classification,
// context preservation, and JSON serialization.
package errors

// ErrorCode represents a specific error condition.
// Error codes are string-based for debuggability and natural JSON serialization.
type ErrorCode string

const (
	// Construction errors.

	// CodeCreateFailed indicates the filesystem could not be constructed, either
	// because no readable backup log was found or because the requested root
	// does not exist and creation was not requested.
	CodeCreateFailed ErrorCode = "CREATE_FAILED"

	// Resource errors.

	// CodeNotFound indicates the path has neither a remote nor a local representation.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeDirectoryExpected indicates the operation needs a directory but found a file.
	CodeDirectoryExpected ErrorCode = "DIRECTORY_EXPECTED"

	// CodeFileExpected indicates the operation needs a file but found a directory.
	CodeFileExpected ErrorCode = "FILE_EXPECTED"

	// CodeDirectoryExists indicates a directory already exists at the path.
	CodeDirectoryExists ErrorCode = "DIRECTORY_EXISTS"

	// CodeFileExists indicates an exclusive create found an existing resource.
	CodeFileExists ErrorCode = "FILE_EXISTS"

	// CodeDirectoryNotEmpty indicates removal of a directory that still has children.
	CodeDirectoryNotEmpty ErrorCode = "DIRECTORY_NOT_EMPTY"

	// CodeRemoveRoot indicates an attempt to remove the root directory.
	CodeRemoveRoot ErrorCode = "REMOVE_ROOT"

	// CodeNoURL indicates no locator can be produced for the path or purpose.
	CodeNoURL ErrorCode = "NO_URL"

	// Validation errors.

	// CodeInvalidInput indicates the provided input is invalid or malformed.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeInvalidConfig indicates a configuration error prevents the operation.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// Infrastructure errors.

	// CodeStorage indicates the transfer area backend failed.
	CodeStorage ErrorCode = "STORAGE_ERROR"

	// CodeUnavailable indicates the backend is temporarily unavailable.
	CodeUnavailable ErrorCode = "SERVICE_UNAVAILABLE"

	// System errors.

	// CodeUnsupported indicates the operation is not supported by this view.
	CodeUnsupported ErrorCode = "UNSUPPORTED"

	// CodeInternal indicates an internal error occurred.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// Generic errors.

	// CodeUnknown indicates an unknown or unclassified error occurred.
	CodeUnknown ErrorCode = "UNKNOWN"
)
