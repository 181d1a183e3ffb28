package billy

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/jmgilman/storify/fs/core"
	"github.com/jmgilman/storify/fs/pathutil"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// errStopWalk ends a walk early when the consumer stops iterating.
var errStopWalk = errors.New("stop walk")

// BillyFS adapts a billy.Filesystem to core.Operator.
//
// billy filesystems such as memfs are not safe for concurrent use, so every
// call into bfs, including reads and writes on open files, holds mu.
//
//nolint:revive // BillyFS name matches the other backends
type BillyFS struct {
	mu     sync.RWMutex
	bfs    billy.Filesystem
	fsType core.FSType
}

// NewLocal returns an operator rooted at root on local disk. The root
// directory is created if it does not exist.
func NewLocal(root string) (*BillyFS, error) {
	if root == "" {
		root = "."
	}
	if err := os.MkdirAll(root, dirPerm); err != nil {
		return nil, core.PathError("mkdir", root, translate(err))
	}
	return New(osfs.New(root), core.FSTypeLocal), nil
}

// NewMemory returns an operator over an empty billy memfs.
func NewMemory() *BillyFS {
	return New(memfs.New(), core.FSTypeMemory)
}

// New wraps an existing billy filesystem.
func New(bfs billy.Filesystem, fsType core.FSType) *BillyFS {
	return &BillyFS{bfs: bfs, fsType: fsType}
}

// Unwrap returns the underlying billy.Filesystem.
func (b *BillyFS) Unwrap() billy.Filesystem {
	return b.bfs
}

// toPath converts a key to a billy path. The root maps to ".".
func toPath(key string) string {
	p := pathutil.Normalize(key)
	if p == "" {
		return "."
	}
	return filepath.FromSlash(p)
}

// toKey converts a billy path back to a key.
func toKey(path string, isDir bool) string {
	key := pathutil.Normalize(filepath.ToSlash(filepath.Clean(path)))
	if key == "." {
		key = ""
	}
	if isDir {
		return pathutil.DirKey(key)
	}
	return key
}

// translate maps os errors onto the core sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case os.IsNotExist(err):
		return core.ErrNotExist
	case os.IsPermission(err):
		return core.ErrPermission
	case os.IsExist(err):
		return core.ErrExist
	}
	return err
}

func entryFromInfo(key string, info fs.FileInfo) core.Entry {
	entry := core.Entry{
		Key:          key,
		Mode:         core.ModeFile,
		Size:         info.Size(),
		LastModified: info.ModTime(),
	}
	switch {
	case info.IsDir():
		entry.Mode = core.ModeDir
		entry.Size = 0
	case !info.Mode().IsRegular():
		entry.Mode = core.ModeUnknown
	}
	return entry
}

// Stat returns metadata for key. A key with a trailing delimiter only
// matches a directory.
func (b *BillyFS) Stat(_ context.Context, key string) (core.Entry, error) {
	if toPath(key) == "." {
		return core.Entry{Key: "", Mode: core.ModeDir}, nil
	}

	info, err := b.stat(toPath(key))
	if err != nil {
		return core.Entry{}, core.PathError("stat", key, translate(err))
	}
	if pathutil.IsDirHint(key) && !info.IsDir() {
		return core.Entry{}, core.PathError("stat", key, core.ErrNotExist)
	}
	return entryFromInfo(toKey(toPath(key), info.IsDir()), info), nil
}

// List yields the children of prefix, or every descendant when recursive.
// Entries within a directory are yielded in name order.
func (b *BillyFS) List(ctx context.Context, prefix string, opts core.ListOptions) iter.Seq2[core.Entry, error] {
	root := toPath(prefix)

	return func(yield func(core.Entry, error) bool) {
		if root != "." {
			info, err := b.stat(root)
			if err != nil {
				if !os.IsNotExist(err) {
					yield(core.Entry{}, core.PathError("list", prefix, translate(err)))
				}
				return
			}
			if !info.IsDir() {
				return
			}
		}

		count := 0
		emit := func(path string, info fs.FileInfo) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if !yield(entryFromInfo(toKey(path, info.IsDir()), info), nil) {
				return errStopWalk
			}
			count++
			if opts.Limit > 0 && count >= opts.Limit {
				return errStopWalk
			}
			return nil
		}

		err := b.walk(root, opts.Recursive, emit)
		if err != nil && !errors.Is(err, errStopWalk) {
			yield(core.Entry{}, core.PathError("list", prefix, translate(err)))
		}
	}
}

// walk visits the children of dir, descending into subdirectories when
// recursive. Directories are visited before their contents.
func (b *BillyFS) walk(dir string, recursive bool, fn func(string, fs.FileInfo) error) error {
	infos, err := b.readDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			// Removed between listing its parent and reading it.
			return nil
		}
		return err
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name() < infos[j].Name()
	})

	for _, info := range infos {
		path := b.bfs.Join(dir, info.Name())
		if err := fn(path, info); err != nil {
			return err
		}
		if recursive && info.IsDir() {
			if err := b.walk(path, true, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// Read opens key and positions it at the start of rng. Directories read
// as empty.
func (b *BillyFS) Read(_ context.Context, key string, rng core.Range) (io.ReadCloser, error) {
	path := toPath(key)
	info, err := b.stat(path)
	if err != nil {
		return nil, core.PathError("read", key, translate(err))
	}
	if info.IsDir() {
		return io.NopCloser(strings.NewReader("")), nil
	}

	b.mu.RLock()
	f, err := b.bfs.Open(path)
	if err == nil && rng.Offset > 0 {
		if _, err = f.Seek(rng.Offset, io.SeekStart); err != nil {
			_ = f.Close()
		}
	}
	b.mu.RUnlock()
	if err != nil {
		return nil, core.PathError("read", key, translate(err))
	}

	r := &fileReader{mu: &b.mu, file: f, r: f}
	if rng.Length > 0 {
		r.r = io.LimitReader(f, rng.Length)
	}
	return r, nil
}

// fileReader reads an open file under the shared lock.
type fileReader struct {
	mu   *sync.RWMutex
	file billy.File
	r    io.Reader
}

func (r *fileReader) Read(p []byte) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.r.Read(p)
}

func (r *fileReader) Close() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.file.Close()
}

// Writer creates key, and any missing parent directories, for writing.
func (b *BillyFS) Writer(_ context.Context, key string) (core.Writer, error) {
	if pathutil.Normalize(key) == "" || pathutil.IsDirHint(key) {
		return nil, core.PathError("write", key, core.ErrUnsupported)
	}

	path := toPath(key)

	b.mu.Lock()
	defer b.mu.Unlock()
	if parent := filepath.Dir(path); parent != "." {
		if err := b.bfs.MkdirAll(parent, dirPerm); err != nil {
			return nil, core.PathError("write", key, translate(err))
		}
	}

	f, err := b.bfs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm)
	if err != nil {
		return nil, core.PathError("write", key, translate(err))
	}
	return &fileWriter{b: b, file: f, path: path, key: key}, nil
}

// CreateDir creates key and its parents as directories.
func (b *BillyFS) CreateDir(_ context.Context, key string) error {
	path := toPath(key)
	if path == "." {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.bfs.MkdirAll(path, dirPerm); err != nil {
		return core.PathError("mkdir", key, translate(err))
	}
	return nil
}

// Delete removes a file or an empty directory.
func (b *BillyFS) Delete(_ context.Context, key string) error {
	path := toPath(key)
	if path == "." {
		return nil
	}
	if err := b.remove(path); err != nil && !os.IsNotExist(err) {
		return core.PathError("delete", key, translate(err))
	}
	return nil
}

// RemoveAll removes key and everything beneath it. Removing the root
// empties it.
func (b *BillyFS) RemoveAll(_ context.Context, key string) error {
	path := toPath(key)
	if path == "." {
		infos, err := b.readDir(path)
		if err != nil {
			return core.PathError("removeall", key, translate(err))
		}
		for _, info := range infos {
			if err := b.removeAll(info.Name()); err != nil {
				return core.PathError("removeall", key, translate(err))
			}
		}
		return nil
	}

	if err := b.removeAll(path); err != nil {
		return core.PathError("removeall", key, translate(err))
	}
	return nil
}

func (b *BillyFS) removeAll(path string) error {
	info, err := b.stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if info.IsDir() {
		infos, err := b.readDir(path)
		if err != nil {
			return err
		}
		for _, child := range infos {
			if err := b.removeAll(b.bfs.Join(path, child.Name())); err != nil {
				return err
			}
		}
	}

	if err := b.remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (b *BillyFS) stat(path string) (fs.FileInfo, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.bfs.Stat(path)
}

func (b *BillyFS) readDir(path string) ([]fs.FileInfo, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.bfs.ReadDir(path)
}

func (b *BillyFS) remove(path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bfs.Remove(path)
}

// Exists reports whether Stat succeeds for key.
func (b *BillyFS) Exists(ctx context.Context, key string) (bool, error) {
	_, err := b.Stat(ctx, key)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, core.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Type returns the type the operator was constructed with.
func (b *BillyFS) Type() core.FSType {
	return b.fsType
}

// fileWriter writes straight into the destination file. Abort removes it.
type fileWriter struct {
	b      *BillyFS
	file   billy.File
	path   string
	key    string
	closed bool
}

func (w *fileWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, core.PathError("write", w.key, core.ErrClosed)
	}
	w.b.mu.Lock()
	defer w.b.mu.Unlock()
	return w.file.Write(p)
}

func (w *fileWriter) Close() error {
	if w.closed {
		return core.PathError("close", w.key, core.ErrClosed)
	}
	w.closed = true
	w.b.mu.Lock()
	err := w.file.Close()
	w.b.mu.Unlock()
	if err != nil {
		return core.PathError("close", w.key, err)
	}
	return nil
}

func (w *fileWriter) Abort() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.b.mu.Lock()
	_ = w.file.Close()
	w.b.mu.Unlock()
	if err := w.b.remove(w.path); err != nil && !os.IsNotExist(err) {
		return core.PathError("abort", w.key, err)
	}
	return nil
}

// Compile-time interface check.
var _ core.Operator = (*BillyFS)(nil)
