package errors

// ErrorCode identifies a class of failure. Codes are strings so they read
// well in logs and serialize naturally.
type ErrorCode string

const (
	// Path errors.

	// CodeInvalidPath indicates a path that is ambiguous or names nothing
	// where a concrete file or directory was required.
	CodeInvalidPath ErrorCode = "INVALID_PATH"

	// CodeNotFound indicates an explicit existence check failed.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeAlreadyExists indicates the target already exists.
	CodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Usage errors.

	// CodeNotRecursive indicates a directory was targeted without the
	// recursive flag. The "operation" context key names the guarded operation.
	CodeNotRecursive ErrorCode = "DIRECTORY_NOT_RECURSIVE"

	// CodeInvalidInput indicates malformed caller input.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeInvalidConfig indicates the storage configuration is unusable.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// Operation errors.

	// CodePartialFailure indicates some targets of a multi-target operation
	// failed while others succeeded.
	CodePartialFailure ErrorCode = "PARTIAL_FAILURE"

	// CodeTransferFailed indicates moving bytes between a source and a
	// destination failed.
	CodeTransferFailed ErrorCode = "TRANSFER_FAILED"

	// CodeIntegrity indicates transferred data did not match its source.
	CodeIntegrity ErrorCode = "INTEGRITY_CHECK_FAILED"

	// Infrastructure errors.

	// CodeStorage indicates the storage backend rejected or failed a call.
	CodeStorage ErrorCode = "STORAGE_ERROR"

	// CodeForbidden indicates the backend denied access.
	CodeForbidden ErrorCode = "FORBIDDEN"

	// CodeNetwork indicates a network failure talking to the backend.
	CodeNetwork ErrorCode = "NETWORK_ERROR"

	// CodeTimeout indicates an operation exceeded its deadline.
	CodeTimeout ErrorCode = "TIMEOUT"

	// CodeCanceled indicates the caller canceled the operation.
	CodeCanceled ErrorCode = "CANCELED"

	// System errors.

	// CodeInternal indicates a bug or unexpected state.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeNotImplemented indicates the backend lacks the capability.
	CodeNotImplemented ErrorCode = "NOT_IMPLEMENTED"

	// CodeUnknown is used for errors that never passed through this package.
	CodeUnknown ErrorCode = "UNKNOWN"
)
