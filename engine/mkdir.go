package engine

import (
	"context"

	"github.com/jmgilman/storify/fs/pathutil"
)

// Mkdir creates a directory marker for path. With parents, every missing
// ancestor is created first. Creating an existing directory succeeds; a
// file in the way is an invalid path.
func (e *Engine) Mkdir(ctx context.Context, path string, parents bool) error {
	dir := pathutil.DirKey(path)
	if dir == "" {
		e.printf("Root directory already exists")
		return nil
	}

	if parents {
		for _, ancestor := range pathutil.Ancestors(pathutil.Parent(dir)) {
			k, _, err := resolve(ctx, e.op, pathutil.Normalize(ancestor))
			if err != nil {
				return err
			}
			if k == kindDir {
				continue
			}
			if k == kindFile {
				return invalidPath(ancestor)
			}
			if err := e.createDir(ctx, ancestor); err != nil {
				return err
			}
		}
	}

	k, _, err := resolve(ctx, e.op, pathutil.Normalize(dir))
	if err != nil {
		return err
	}
	switch k {
	case kindDir:
		e.printf("Directory already exists: %s", dir)
		return nil
	case kindFile:
		return invalidPath(path)
	}
	return e.createDir(ctx, dir)
}

func (e *Engine) createDir(ctx context.Context, dir string) error {
	if err := e.op.CreateDir(ctx, dir); err != nil {
		return storageFailed("create directory", dir, err)
	}
	e.printf("Created directory: %s", dir)
	return nil
}
