package errors

// ErrorClassification tells callers whether retrying may help.
type ErrorClassification string

const (
	// ClassificationRetryable marks transient failures.
	ClassificationRetryable ErrorClassification = "RETRYABLE"

	// ClassificationPermanent marks failures that will repeat on retry.
	ClassificationPermanent ErrorClassification = "PERMANENT"
)

// IsRetryable reports whether c is ClassificationRetryable.
func (c ErrorClassification) IsRetryable() bool {
	return c == ClassificationRetryable
}

var defaultClassifications = map[ErrorCode]ErrorClassification{
	// Transient backend conditions.
	CodeStorage:        ClassificationRetryable,
	CodeNetwork:        ClassificationRetryable,
	CodeTimeout:        ClassificationRetryable,
	CodeTransferFailed: ClassificationRetryable,

	// Caller or data problems.
	CodeInvalidPath:    ClassificationPermanent,
	CodeNotFound:       ClassificationPermanent,
	CodeAlreadyExists:  ClassificationPermanent,
	CodeNotRecursive:   ClassificationPermanent,
	CodeInvalidInput:   ClassificationPermanent,
	CodeInvalidConfig:  ClassificationPermanent,
	CodePartialFailure: ClassificationPermanent,
	CodeIntegrity:      ClassificationPermanent,
	CodeForbidden:      ClassificationPermanent,
	CodeCanceled:       ClassificationPermanent,
	CodeInternal:       ClassificationPermanent,
	CodeNotImplemented: ClassificationPermanent,
	CodeUnknown:        ClassificationPermanent,
}

// getDefaultClassification falls back to permanent for unmapped codes.
func getDefaultClassification(code ErrorCode) ErrorClassification {
	if class, ok := defaultClassifications[code]; ok {
		return class
	}
	return ClassificationPermanent
}
