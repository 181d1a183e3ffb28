// Package errors provides the structured error type used across storify.
//
// Every failure surfaced by the storage engine is a PlatformError: an
// immutable value carrying an ErrorCode, a retry classification, a
// human-readable message, optional context metadata and the underlying
// cause. The cause chain is always preserved so errors.Is and errors.As
// continue to work against backend errors such as fs.ErrNotExist.
//
// # Creating errors
//
//	err := errors.Newf(errors.CodeInvalidPath, "Invalid path: %s", path)
//
// # Wrapping backend failures
//
//	if err := w.Close(); err != nil {
//	    return errors.WrapWithContext(err, errors.CodeTransferFailed, "transfer failed", map[string]any{
//	        "source":      src,
//	        "destination": dest,
//	    })
//	}
//
// # Inspecting errors
//
//	switch errors.GetCode(err) {
//	case errors.CodeNotFound:
//	    // ...
//	case errors.CodePartialFailure:
//	    failed := errors.GetContext(err, "failed_paths")
//	}
//
// Errors serialize to a flat JSON document through ToJSON or json.Marshal;
// the cause chain is never included in the serialized form.
package errors
