package errors

// WithContext returns a copy of err with one context field added.
// Existing fields are kept. Plain errors are converted to CodeUnknown.
//
// Returns nil if err is nil.
//
// Example:
//
//	err = errors.WithContext(err, "path", "/my/backups/vms")
func WithContext(err error, key string, value interface{}) PlatformError {
	if err == nil {
		return nil
	}
	return WithContextMap(err, map[string]interface{}{key: value})
}

// WithContextMap returns a copy of err with the given fields merged into its
// context. New fields override existing ones with the same key.
//
// Returns nil if err is nil.
func WithContextMap(err error, ctx map[string]interface{}) PlatformError {
	if err == nil {
		return nil
	}

	pe := asPlatform(err)
	merged := copyContext(pe.Context())
	if merged == nil {
		merged = make(map[string]interface{}, len(ctx))
	}
	for k, v := range ctx {
		merged[k] = v
	}

	return &platformError{
		code:           pe.Code(),
		classification: pe.Classification(),
		message:        pe.Message(),
		context:        merged,
		cause:          pe.Unwrap(),
	}
}

// WithClassification returns a copy of err with its classification overridden.
//
// Returns nil if err is nil.
func WithClassification(err error, classification ErrorClassification) PlatformError {
	if err == nil {
		return nil
	}

	pe := asPlatform(err)
	return &platformError{
		code:           pe.Code(),
		classification: classification,
		message:        pe.Message(),
		context:        pe.Context(),
		cause:          pe.Unwrap(),
	}
}
