package errors

import (
	"errors"
	"maps"
)

// promote returns err as a PlatformError, converting plain errors to
// CodeUnknown with err as the cause.
func promote(err error) PlatformError {
	var platformErr PlatformError
	if errors.As(err, &platformErr) {
		return platformErr
	}
	return &platformError{
		code:           CodeUnknown,
		classification: ClassificationPermanent,
		message:        err.Error(),
		cause:          err,
	}
}

// WithContext returns a copy of err with key set to value.
// Returns nil if err is nil.
func WithContext(err error, key string, value any) PlatformError {
	if err == nil {
		return nil
	}
	return WithContextMap(err, map[string]any{key: value})
}

// WithContextMap returns a copy of err with ctx merged over its existing
// context. Returns nil if err is nil.
func WithContextMap(err error, ctx map[string]any) PlatformError {
	if err == nil {
		return nil
	}

	pe := promote(err)
	merged := pe.Context()
	if merged == nil {
		merged = make(map[string]any, len(ctx))
	}
	maps.Copy(merged, ctx)

	return &platformError{
		code:           pe.Code(),
		classification: pe.Classification(),
		message:        pe.Message(),
		context:        merged,
		cause:          pe.Unwrap(),
	}
}

// WithClassification returns a copy of err with its classification replaced.
func WithClassification(err error, classification ErrorClassification) PlatformError {
	if err == nil {
		return nil
	}

	pe := promote(err)
	return &platformError{
		code:           pe.Code(),
		classification: classification,
		message:        pe.Message(),
		context:        pe.Context(),
		cause:          pe.Unwrap(),
	}
}

// GetContext returns the value stored under key on the outermost
// PlatformError in err's chain, or nil.
func GetContext(err error, key string) any {
	var platformErr PlatformError
	if err == nil || !errors.As(err, &platformErr) {
		return nil
	}
	return platformErr.Context()[key]
}
