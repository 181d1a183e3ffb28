package engine

import (
	"context"
	"iter"

	"github.com/jmgilman/storify/errors"
	"github.com/jmgilman/storify/fs/core"
	"github.com/jmgilman/storify/fs/pathutil"
)

// kind is the resolved shape of a user-supplied path.
type kind int

const (
	kindMissing kind = iota
	kindFile
	kindDir
)

func (k kind) String() string {
	switch k {
	case kindFile:
		return "file"
	case kindDir:
		return "dir"
	default:
		return "missing"
	}
}

// resolve decides whether path names a file, a directory or nothing on
// op. A direct lookup wins; a missing key is then looked up as a marker and
// finally probed for any entry beneath it, which detects virtual
// directories on object stores. A path with a trailing delimiter never
// resolves to a file.
func resolve(ctx context.Context, op core.Operator, path string) (kind, core.Entry, error) {
	key := pathutil.Normalize(path)
	if key == "" {
		return kindDir, core.Entry{Key: "", Mode: core.ModeDir}, nil
	}

	if !pathutil.IsDirHint(path) {
		entry, err := op.Stat(ctx, key)
		switch {
		case err == nil && entry.IsDir():
			return kindDir, entry, nil
		case err == nil:
			return kindFile, entry, nil
		case !errors.Is(err, core.ErrNotExist):
			return kindMissing, core.Entry{}, storageFailed("stat", path, err)
		}
	}

	dir := pathutil.DirKey(key)
	entry, err := op.Stat(ctx, dir)
	if err == nil {
		return kindDir, entry, nil
	}
	if !errors.Is(err, core.ErrNotExist) {
		return kindMissing, core.Entry{}, storageFailed("stat", path, err)
	}

	found, err := probe(ctx, op, dir)
	if err != nil {
		return kindMissing, core.Entry{}, storageFailed("list", path, err)
	}
	if found {
		return kindDir, core.Entry{Key: dir, Mode: core.ModeDir}, nil
	}
	return kindMissing, core.Entry{}, nil
}

// probe reports whether any entry exists beneath dir.
func probe(ctx context.Context, op core.Operator, dir string) (bool, error) {
	for _, err := range op.List(ctx, dir, core.ListOptions{Limit: 1}) {
		if err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// walk yields every descendant of dir. Listing errors end the sequence as
// storage failures.
func walk(ctx context.Context, op core.Operator, dir string) iter.Seq2[core.Entry, error] {
	return func(yield func(core.Entry, error) bool) {
		for entry, err := range op.List(ctx, dir, core.ListOptions{Recursive: true}) {
			if err != nil {
				yield(core.Entry{}, storageFailed("list", dir, err))
				return
			}
			if !yield(entry, nil) {
				return
			}
		}
	}
}
