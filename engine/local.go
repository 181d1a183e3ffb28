package engine

import (
	"context"
	"path/filepath"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/jmgilman/storify/errors"
	"github.com/jmgilman/storify/fs/core"
	"github.com/jmgilman/storify/fs/pathutil"
)

// localKey maps a local path to a key on the local operator, which is
// rooted at the filesystem root.
func localKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return pathutil.Normalize(filepath.ToSlash(path))
}

// localPath renders a local key for output.
func localPath(key string) string {
	return filepath.FromSlash("/" + key)
}

// Upload copies the local path to the remote operator. A file is written
// to remote/<base(local)>. A directory requires recursive and has its
// contents recreated directly under remote.
func (e *Engine) Upload(ctx context.Context, local, remote string, recursive bool) error {
	srcKey := localKey(local)
	entry, err := e.local.Stat(ctx, srcKey)
	if err != nil {
		if errors.Is(err, core.ErrNotExist) {
			return pathNotFound(local)
		}
		return storageFailed("stat", local, err)
	}

	remoteRoot := pathutil.Normalize(remote)

	if !entry.IsDir() {
		dest := pathutil.Join(remoteRoot, pathutil.Base(srcKey))
		n, err := e.transfer(ctx, crossTask(e.local, e.op, "Uploading "+local, srcKey, dest, entry.Size, LocalChunkSize))
		if err != nil {
			return err
		}
		e.printf("Uploaded: %s → %s (%d bytes)", local, dest, n)
		return nil
	}

	if !recursive {
		return uploadNotRecursive(local)
	}

	if err := e.op.CreateDir(ctx, remoteRoot); err != nil {
		return storageFailed("create directory", remoteRoot, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	var (
		files   atomic.Int64
		sent    atomic.Int64
		walkErr error
	)

	for child, err := range walk(gctx, e.local, pathutil.DirKey(srcKey)) {
		if err != nil {
			walkErr = err
			break
		}

		dest := pathutil.Join(remoteRoot, pathutil.RelativeTo(child.Key, srcKey))
		if child.IsDir() {
			if err := e.op.CreateDir(gctx, dest); err != nil {
				walkErr = storageFailed("create directory", dest, err)
				break
			}
			continue
		}

		src := localPath(child.Key)
		g.Go(func() error {
			e.logger.Debug("dispatching upload", "src", src, "dest", dest)
			n, err := e.transfer(gctx, crossTask(e.local, e.op, "Uploading "+src, child.Key, dest, child.Size, LocalChunkSize))
			if err != nil {
				return err
			}
			files.Add(1)
			sent.Add(n)
			e.printf("Uploaded: %s → %s (%d bytes)", src, dest, n)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if walkErr != nil {
		return walkErr
	}

	e.logger.Info("upload finished", "src", local, "dest", remoteRoot, "files", files.Load(), "size", humanize.IBytes(uint64(sent.Load())))
	return nil
}

// Download copies remote to the local path. The remote path must exist. A
// file is written to local/<base(remote)>, creating local when missing. A
// directory has its contents recreated under local.
//
// Keys with doubled delimiters and objects that vanish between listing and
// reading are skipped with a warning.
func (e *Engine) Download(ctx context.Context, remote, local string) error {
	srcKind, srcEntry, err := resolve(ctx, e.op, remote)
	if err != nil {
		return err
	}
	if srcKind == kindMissing {
		return pathNotFound(remote)
	}

	localRoot := localKey(local)

	if srcKind == kindFile {
		srcKey := pathutil.Normalize(remote)
		dest := pathutil.Join(localRoot, pathutil.Base(srcKey))
		if _, err := e.transfer(ctx, crossTask(e.op, e.local, "Downloading "+srcKey, srcKey, dest, srcEntry.Size, RemoteChunkSize)); err != nil {
			return err
		}
		e.printf("Downloaded: %s → %s", srcKey, localPath(dest))
		return nil
	}

	srcKey := pathutil.Normalize(remote)
	if err := e.local.CreateDir(ctx, localRoot); err != nil {
		return storageFailed("create directory", local, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	var (
		files   atomic.Int64
		skipped atomic.Int64
		recv    atomic.Int64
		walkErr error
	)

	for entry, err := range walk(gctx, e.op, pathutil.DirKey(srcKey)) {
		if err != nil {
			walkErr = err
			break
		}
		if pathutil.HasDoubledDelimiter(entry.Key) {
			e.logger.Warn("skipping key with doubled delimiter", "key", entry.Key)
			skipped.Add(1)
			continue
		}

		dest := pathutil.Join(localRoot, pathutil.RelativeTo(entry.Key, srcKey))
		if entry.IsDir() {
			if err := e.local.CreateDir(gctx, dest); err != nil {
				walkErr = storageFailed("create directory", localPath(dest), err)
				break
			}
			continue
		}

		g.Go(func() error {
			e.logger.Debug("dispatching download", "src", entry.Key, "dest", localPath(dest))
			n, err := e.transfer(gctx, crossTask(e.op, e.local, "Downloading "+entry.Key, entry.Key, dest, entry.Size, RemoteChunkSize))
			if errors.Is(err, core.ErrNotExist) {
				e.logger.Warn("object vanished before download", "key", entry.Key)
				skipped.Add(1)
				return nil
			}
			if err != nil {
				return err
			}
			files.Add(1)
			recv.Add(n)
			e.printf("Downloaded: %s → %s", entry.Key, localPath(dest))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if walkErr != nil {
		return walkErr
	}

	e.logger.Info("download finished",
		"src", srcKey,
		"dest", local,
		"files", files.Load(),
		"skipped", skipped.Load(),
		"size", humanize.IBytes(uint64(recv.Load())),
	)
	return nil
}
