package engine

import (
	"context"
	"slices"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/jmgilman/storify/fs/pathutil"
)

// Copy copies src to dest on the remote operator.
//
// A directory source is copied recursively. When dest is an existing
// directory the tree is nested under it as dest/<base(src)>; otherwise dest
// becomes the new tree root. A file source is written to dest, or to
// dest/<base(src)> when dest is an existing directory. A dest with a
// trailing delimiter that is not a directory is rejected.
func (e *Engine) Copy(ctx context.Context, src, dest string) error {
	return e.copyTree(ctx, src, dest, false)
}

// Move copies src to dest and removes every source object right after its
// own transfer succeeds. Directory markers of the source are removed once
// all transfers finish. Move is not atomic: a failure leaves files that
// were already moved at the destination and the rest at the source.
func (e *Engine) Move(ctx context.Context, src, dest string) error {
	return e.copyTree(ctx, src, dest, true)
}

func (e *Engine) copyTree(ctx context.Context, src, dest string, move bool) error {
	srcKind, srcEntry, err := resolve(ctx, e.op, src)
	if err != nil {
		return err
	}
	if srcKind == kindMissing {
		return invalidPath(src)
	}

	destKind, _, err := resolve(ctx, e.op, dest)
	if err != nil {
		return err
	}

	if srcKind == kindDir {
		return e.copyDir(ctx, src, dest, destKind == kindDir, move)
	}

	if pathutil.IsDirHint(dest) && destKind != kindDir {
		return invalidPath(dest)
	}

	srcKey := pathutil.Normalize(src)
	target := pathutil.Normalize(dest)
	if destKind == kindDir {
		target = pathutil.Join(target, pathutil.Base(srcKey))
	}
	if target == "" || target == srcKey {
		return invalidPath(dest)
	}

	n, err := e.transfer(ctx, e.remoteTask("Copying "+srcKey, srcKey, target, srcEntry.Size))
	if err != nil {
		return err
	}
	if move {
		if err := e.op.Delete(ctx, srcKey); err != nil {
			return storageFailed("delete", srcKey, err)
		}
	}

	e.printf("%s: %s → %s", verb(move), srcKey, target)
	e.logger.Info("transfer finished", "op", opName(move), "src", srcKey, "dest", target, "size", humanize.IBytes(uint64(n)))
	return nil
}

// copyDir copies the tree under src. Directory markers are created in
// traversal order before any file beneath them is dispatched, and file
// transfers run on a bounded worker pool.
func (e *Engine) copyDir(ctx context.Context, src, dest string, destIsDir, move bool) error {
	srcKey := pathutil.Normalize(src)
	targetRoot := pathutil.Normalize(dest)
	if destIsDir {
		targetRoot = pathutil.Join(targetRoot, pathutil.Base(srcKey))
	}
	if pathutil.IsWithin(targetRoot, srcKey) {
		return invalidPath(dest)
	}

	if err := e.op.CreateDir(ctx, targetRoot); err != nil {
		return storageFailed("create directory", targetRoot, err)
	}
	e.logger.Debug("resolved target root", "src", srcKey, "target", targetRoot)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	var (
		files    atomic.Int64
		moved    atomic.Int64
		markers  []string
		listErr  error
		srcDir   = pathutil.DirKey(srcKey)
		rootDest = targetRoot
	)

	for entry, err := range walk(gctx, e.op, srcDir) {
		if err != nil {
			listErr = err
			break
		}
		if pathutil.Normalize(entry.Key) == srcKey {
			continue
		}

		destKey := pathutil.Join(rootDest, pathutil.RelativeTo(entry.Key, srcKey))

		if entry.IsDir() {
			if err := e.op.CreateDir(gctx, destKey); err != nil {
				listErr = storageFailed("create directory", destKey, err)
				break
			}
			if move {
				markers = append(markers, entry.Key)
			}
			continue
		}

		g.Go(func() error {
			e.logger.Debug("dispatching transfer", "src", entry.Key, "dest", destKey)
			n, err := e.transfer(gctx, e.remoteTask("Copying "+entry.Key, entry.Key, destKey, entry.Size))
			if err != nil {
				return err
			}
			if move {
				if err := e.op.Delete(gctx, entry.Key); err != nil {
					return storageFailed("delete", entry.Key, err)
				}
			}
			files.Add(1)
			moved.Add(n)
			e.printf("%s: %s → %s", verb(move), entry.Key, destKey)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if listErr != nil {
		return listErr
	}

	if move {
		if err := e.removeMarkers(ctx, markers, srcDir); err != nil {
			return err
		}
	}

	e.logger.Info("tree transfer finished",
		"op", opName(move),
		"src", srcKey,
		"dest", targetRoot,
		"files", files.Load(),
		"size", humanize.IBytes(uint64(moved.Load())),
	)
	return nil
}

// removeMarkers deletes the collected source directory markers deepest
// first and then the source root's own marker.
func (e *Engine) removeMarkers(ctx context.Context, markers []string, root string) error {
	slices.SortStableFunc(markers, func(a, b string) int {
		return pathutil.Depth(b) - pathutil.Depth(a)
	})
	if root != "" {
		markers = append(markers, root)
	}

	for _, key := range markers {
		if err := e.op.Delete(ctx, key); err != nil {
			return storageFailed("delete", key, err)
		}
	}
	return nil
}

func verb(move bool) string {
	if move {
		return "Moved"
	}
	return "Copied"
}

func opName(move bool) string {
	if move {
		return "move"
	}
	return "copy"
}
