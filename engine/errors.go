package engine

import (
	"context"
	"fmt"
	"net"

	"github.com/jmgilman/storify/errors"
	"github.com/jmgilman/storify/fs/core"
)

func invalidPath(path string) error {
	return errors.WithContext(errors.Newf(errors.CodeInvalidPath, "Invalid path: %s", path), "path", path)
}

func pathNotFound(path string) error {
	return errors.WithContext(errors.Newf(errors.CodeNotFound, "Path not found: %s", path), "path", path)
}

func deleteNotRecursive(path string) error {
	return errors.WithContextMap(
		errors.Newf(errors.CodeNotRecursive, "Cannot delete directory without -R flag: %s", path),
		map[string]any{"op": "delete", "path": path},
	)
}

func uploadNotRecursive(path string) error {
	return errors.WithContextMap(
		errors.New(errors.CodeNotRecursive, "Use -R to upload directories"),
		map[string]any{"op": "upload", "path": path},
	)
}

func partialDeletion(failed []string, causes []error) error {
	err := errors.Newf(errors.CodePartialFailure, "Partial deletion failure: %d path(s) failed to delete", len(failed))
	if cause := errors.Join(causes...); cause != nil {
		err = errors.Wrap(cause, errors.CodePartialFailure, err.Message())
	}
	return errors.WithContext(err, "failed_paths", failed)
}

// codeFor picks a more specific code than fallback when cause is a
// cancellation, a timeout, a network failure or a known backend sentinel.
func codeFor(cause error, fallback errors.ErrorCode) errors.ErrorCode {
	var netErr net.Error
	switch {
	case errors.Is(cause, context.Canceled):
		return errors.CodeCanceled
	case errors.Is(cause, context.DeadlineExceeded):
		return errors.CodeTimeout
	case errors.Is(cause, core.ErrPermission):
		return errors.CodeForbidden
	case errors.Is(cause, core.ErrUnsupported):
		return errors.CodeNotImplemented
	case errors.Is(cause, core.ErrExist):
		return errors.CodeAlreadyExists
	case errors.As(cause, &netErr):
		if netErr.Timeout() {
			return errors.CodeTimeout
		}
		return errors.CodeNetwork
	}
	return fallback
}

func transferFailed(src, dest string, cause error) error {
	return errors.WrapWithContext(cause, codeFor(cause, errors.CodeTransferFailed),
		fmt.Sprintf("failed to transfer %s to %s", src, dest),
		map[string]any{"src": src, "dest": dest},
	)
}

func storageFailed(op, path string, cause error) error {
	return errors.WrapWithContext(cause, codeFor(cause, errors.CodeStorage),
		fmt.Sprintf("failed to %s %s", op, path),
		map[string]any{"op": op, "path": path},
	)
}

// IsInvalidPath reports whether err was caused by an ambiguous or missing
// path where a concrete file or directory was required.
func IsInvalidPath(err error) bool {
	return errors.HasCode(err, errors.CodeInvalidPath)
}

// IsPathNotFound reports whether err is an explicit existence failure.
func IsPathNotFound(err error) bool {
	return errors.HasCode(err, errors.CodeNotFound)
}

// IsNotRecursive reports whether err rejected a directory because the
// recursive flag was absent.
func IsNotRecursive(err error) bool {
	return errors.HasCode(err, errors.CodeNotRecursive)
}

// IsPartialDeletion reports whether err aggregates failed delete targets.
func IsPartialDeletion(err error) bool {
	return errors.HasCode(err, errors.CodePartialFailure)
}

// IsTransferFailed reports whether err came from a failed transfer. Canceled,
// forbidden and other specifically coded transfers do not match.
func IsTransferFailed(err error) bool {
	return errors.HasCode(err, errors.CodeTransferFailed)
}

// FailedPaths returns the paths named by a partial deletion error, or nil.
func FailedPaths(err error) []string {
	paths, _ := errors.GetContext(err, "failed_paths").([]string)
	return paths
}
