package errors

// ErrorClassification indicates whether an error should trigger a retry.
type ErrorClassification string

const (
	// ClassificationRetryable indicates temporary failures that may succeed on retry.
	// Examples: object store timeouts, an unreachable backend.
	ClassificationRetryable ErrorClassification = "RETRYABLE"

	// ClassificationPermanent indicates failures that will not succeed on retry.
	// Examples: missing paths, kind mismatches, a missing backup log.
	ClassificationPermanent ErrorClassification = "PERMANENT"
)

// IsRetryable returns true if the classification indicates retry should be attempted.
func (c ErrorClassification) IsRetryable() bool {
	return c == ClassificationRetryable
}

// defaultClassifications maps error codes to their default classification.
// The backup log is static, so only backend failures are worth retrying.
var defaultClassifications = map[ErrorCode]ErrorClassification{
	CodeStorage:     ClassificationRetryable,
	CodeUnavailable: ClassificationRetryable,

	CodeCreateFailed:      ClassificationPermanent,
	CodeNotFound:          ClassificationPermanent,
	CodeDirectoryExpected: ClassificationPermanent,
	CodeFileExpected:      ClassificationPermanent,
	CodeDirectoryExists:   ClassificationPermanent,
	CodeFileExists:        ClassificationPermanent,
	CodeDirectoryNotEmpty: ClassificationPermanent,
	CodeRemoveRoot:        ClassificationPermanent,
	CodeNoURL:             ClassificationPermanent,
	CodeInvalidInput:      ClassificationPermanent,
	CodeInvalidConfig:     ClassificationPermanent,
	CodeUnsupported:       ClassificationPermanent,
	CodeInternal:          ClassificationPermanent,
	CodeUnknown:           ClassificationPermanent,
}

// getDefaultClassification returns the default classification for an error code.
// Returns ClassificationPermanent if the code is not in the map.
func getDefaultClassification(code ErrorCode) ErrorClassification {
	if class, ok := defaultClassifications[code]; ok {
		return class
	}
	return ClassificationPermanent
}
