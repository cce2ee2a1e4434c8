package errors

import "fmt"

// New creates a PlatformError with the given code and message.
// The classification follows the default mapping for the code.
//
// Example:
//
//	err := errors.New(errors.CodeRemoveRoot, "cannot remove the root directory")
func New(code ErrorCode, message string) PlatformError {
	return &platformError{
		code:           code,
		classification: getDefaultClassification(code),
		message:        message,
	}
}

// Newf creates a PlatformError with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) PlatformError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps err with a code and message while preserving it for errors.Is
// and errors.As. A wrapped PlatformError keeps its classification.
//
// Returns nil if err is nil.
//
// Example:
//
//	if err := area.Remove(key); err != nil {
//	    return errors.Wrap(err, errors.CodeStorage, "failed to remove staged file")
//	}
func Wrap(err error, code ErrorCode, message string) PlatformError {
	return WrapWithContext(err, code, message, nil)
}

// Wrapf wraps err with a formatted message.
//
// Returns nil if err is nil.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) PlatformError {
	if err == nil {
		return nil
	}
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WrapWithContext wraps err and attaches a copy of ctx in one step.
//
// Returns nil if err is nil.
func WrapWithContext(err error, code ErrorCode, message string, ctx map[string]interface{}) PlatformError {
	if err == nil {
		return nil
	}

	classification := getDefaultClassification(code)
	var pe PlatformError
	if As(err, &pe) {
		classification = pe.Classification()
	}

	return &platformError{
		code:           code,
		classification: classification,
		message:        message,
		context:        copyContext(ctx),
		cause:          err,
	}
}
