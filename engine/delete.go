package engine

import (
	"context"

	"github.com/jmgilman/storify/fs/pathutil"
)

// Delete removes every path in paths, one after another.
//
// A missing path, or a path whose removal fails, is recorded and the
// remaining paths are still attempted; recorded failures are returned
// together as a partial deletion error. A directory without recursive
// aborts the call immediately since it is a usage error.
func (e *Engine) Delete(ctx context.Context, paths []string, recursive bool) error {
	var (
		failed []string
		causes []error
	)

	for _, path := range paths {
		k, _, err := resolve(ctx, e.op, path)
		if err != nil {
			e.logger.Warn("failed to resolve path", "path", path, "error", err)
			failed = append(failed, path)
			causes = append(causes, err)
			continue
		}
		if k == kindMissing {
			e.logger.Warn("path not found", "path", path)
			failed = append(failed, path)
			causes = append(causes, pathNotFound(path))
			continue
		}
		if k == kindDir && !recursive {
			return deleteNotRecursive(path)
		}

		remove := e.op.RemoveAll
		if k == kindFile {
			// A sibling directory of the same name stays.
			remove = e.op.Delete
		}
		if err := remove(ctx, pathutil.Normalize(path)); err != nil {
			e.logger.Warn("failed to delete path", "path", path, "error", err)
			failed = append(failed, path)
			causes = append(causes, storageFailed("delete", path, err))
			continue
		}
		e.printf("Deleted: %s", path)
	}

	if len(failed) > 0 {
		return partialDeletion(failed, causes)
	}
	return nil
}
