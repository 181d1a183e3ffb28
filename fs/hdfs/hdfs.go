// Package hdfs provides a core.Operator backed by a Hadoop namenode.
//
// HDFS is hierarchical: directories are real, listings report every
// intermediate directory and writes create missing parents.
package hdfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/colinmarc/hdfs/v2"

	"github.com/jmgilman/storify/fs/core"
	"github.com/jmgilman/storify/fs/pathutil"
)

const dirPerm = 0o755

var errStopWalk = errors.New("stop walk")

// Config holds HDFS operator configuration.
type Config struct {
	// Namenode is the namenode address, e.g. "localhost:8020".
	Namenode string

	// User is the HDFS user. Empty uses the client default.
	User string

	// Root is the absolute directory keys are resolved against. Defaults
	// to "/".
	Root string
}

// client is the subset of the HDFS client the operator needs.
type client interface {
	Stat(name string) (os.FileInfo, error)
	ReadDir(name string) ([]os.FileInfo, error)
	Open(name string) (io.ReadSeekCloser, error)
	Create(name string) (io.WriteCloser, error)
	MkdirAll(name string, perm os.FileMode) error
	Remove(name string) error
	RemoveAll(name string) error
	Close() error
}

// namenodeClient adapts *hdfs.Client to client.
type namenodeClient struct {
	*hdfs.Client
}

func (c namenodeClient) Open(name string) (io.ReadSeekCloser, error) {
	return c.Client.Open(name)
}

func (c namenodeClient) Create(name string) (io.WriteCloser, error) {
	return c.Client.Create(name)
}

// HDFS implements core.Operator over an HDFS client.
type HDFS struct {
	client client
	root   string
}

// New connects to the namenode in cfg.
func New(cfg Config) (*HDFS, error) {
	if cfg.Namenode == "" {
		return nil, fmt.Errorf("invalid config: namenode is required")
	}

	c, err := hdfs.NewClient(hdfs.ClientOptions{
		Addresses: []string{cfg.Namenode},
		User:      cfg.User,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to namenode %s: %w", cfg.Namenode, err)
	}

	return newWithClient(namenodeClient{c}, cfg.Root), nil
}

func newWithClient(c client, root string) *HDFS {
	return &HDFS{client: c, root: cleanRoot(root)}
}

// Close releases the namenode connection.
func (h *HDFS) Close() error {
	return h.client.Close()
}

func cleanRoot(root string) string {
	if root == "" {
		return "/"
	}
	return path.Clean("/" + root)
}

// toPath converts a key to an absolute HDFS path.
func (h *HDFS) toPath(key string) string {
	return path.Join(h.root, pathutil.Normalize(key))
}

// toKey converts an absolute HDFS path back to a key.
func (h *HDFS) toKey(p string, isDir bool) string {
	key := strings.TrimPrefix(p, h.root)
	key = pathutil.Normalize(key)
	if isDir {
		return pathutil.DirKey(key)
	}
	return key
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, os.ErrNotExist):
		return core.ErrNotExist
	case errors.Is(err, os.ErrPermission):
		return core.ErrPermission
	case errors.Is(err, os.ErrExist):
		return core.ErrExist
	}
	return err
}

func entryFromInfo(key string, info os.FileInfo) core.Entry {
	if info.IsDir() {
		return core.Entry{Key: key, Mode: core.ModeDir, LastModified: info.ModTime()}
	}
	return core.Entry{
		Key:          key,
		Mode:         core.ModeFile,
		Size:         info.Size(),
		LastModified: info.ModTime(),
	}
}

// Stat returns metadata for key.
func (h *HDFS) Stat(_ context.Context, key string) (core.Entry, error) {
	if pathutil.Normalize(key) == "" {
		return core.Entry{Key: "", Mode: core.ModeDir}, nil
	}

	p := h.toPath(key)
	info, err := h.client.Stat(p)
	if err != nil {
		return core.Entry{}, core.PathError("stat", key, translate(err))
	}
	if pathutil.IsDirHint(key) && !info.IsDir() {
		return core.Entry{}, core.PathError("stat", key, core.ErrNotExist)
	}
	return entryFromInfo(h.toKey(p, info.IsDir()), info), nil
}

// List yields the children of prefix in name order, descending into
// subdirectories when recursive.
func (h *HDFS) List(ctx context.Context, prefix string, opts core.ListOptions) iter.Seq2[core.Entry, error] {
	root := h.toPath(prefix)

	return func(yield func(core.Entry, error) bool) {
		info, err := h.client.Stat(root)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				yield(core.Entry{}, core.PathError("list", prefix, translate(err)))
			}
			return
		}
		if !info.IsDir() {
			return
		}

		count := 0
		emit := func(p string, info os.FileInfo) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if !yield(entryFromInfo(h.toKey(p, info.IsDir()), info), nil) {
				return errStopWalk
			}
			count++
			if opts.Limit > 0 && count >= opts.Limit {
				return errStopWalk
			}
			return nil
		}

		if err := h.walk(root, opts.Recursive, emit); err != nil && !errors.Is(err, errStopWalk) {
			yield(core.Entry{}, core.PathError("list", prefix, translate(err)))
		}
	}
}

func (h *HDFS) walk(dir string, recursive bool, fn func(string, os.FileInfo) error) error {
	infos, err := h.client.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name() < infos[j].Name()
	})

	for _, info := range infos {
		p := path.Join(dir, info.Name())
		if err := fn(p, info); err != nil {
			return err
		}
		if recursive && info.IsDir() {
			if err := h.walk(p, true, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// Read opens key positioned at rng.
func (h *HDFS) Read(_ context.Context, key string, rng core.Range) (io.ReadCloser, error) {
	p := h.toPath(key)
	info, err := h.client.Stat(p)
	if err != nil {
		return nil, core.PathError("read", key, translate(err))
	}
	if info.IsDir() {
		return io.NopCloser(strings.NewReader("")), nil
	}

	f, err := h.client.Open(p)
	if err != nil {
		return nil, core.PathError("read", key, translate(err))
	}
	if rng.Offset > 0 {
		if _, err := f.Seek(rng.Offset, io.SeekStart); err != nil {
			_ = f.Close()
			return nil, core.PathError("read", key, err)
		}
	}
	if rng.Length > 0 {
		return &limitedReader{Reader: io.LimitReader(f, rng.Length), Closer: f}, nil
	}
	return f, nil
}

type limitedReader struct {
	io.Reader
	io.Closer
}

// Writer creates key for writing, replacing any existing file. HDFS
// refuses to create over an existing file, so the old one is removed first.
func (h *HDFS) Writer(_ context.Context, key string) (core.Writer, error) {
	if pathutil.Normalize(key) == "" || pathutil.IsDirHint(key) {
		return nil, core.PathError("write", key, core.ErrUnsupported)
	}

	p := h.toPath(key)
	if err := h.client.MkdirAll(path.Dir(p), dirPerm); err != nil {
		return nil, core.PathError("write", key, translate(err))
	}
	if err := h.client.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, core.PathError("write", key, translate(err))
	}

	w, err := h.client.Create(p)
	if err != nil {
		return nil, core.PathError("write", key, translate(err))
	}
	return &fileWriter{client: h.client, w: w, path: p, key: key}, nil
}

// CreateDir creates key and its parents.
func (h *HDFS) CreateDir(_ context.Context, key string) error {
	if pathutil.Normalize(key) == "" {
		return nil
	}
	if err := h.client.MkdirAll(h.toPath(key), dirPerm); err != nil {
		return core.PathError("mkdir", key, translate(err))
	}
	return nil
}

// Delete removes a file or an empty directory.
func (h *HDFS) Delete(_ context.Context, key string) error {
	if pathutil.Normalize(key) == "" {
		return nil
	}
	if err := h.client.Remove(h.toPath(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return core.PathError("delete", key, translate(err))
	}
	return nil
}

// RemoveAll removes key recursively. Removing the root empties it.
func (h *HDFS) RemoveAll(_ context.Context, key string) error {
	if pathutil.Normalize(key) != "" {
		if err := h.client.RemoveAll(h.toPath(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return core.PathError("removeall", key, translate(err))
		}
		return nil
	}

	infos, err := h.client.ReadDir(h.root)
	if err != nil {
		return core.PathError("removeall", key, translate(err))
	}
	for _, info := range infos {
		if err := h.client.RemoveAll(path.Join(h.root, info.Name())); err != nil && !errors.Is(err, os.ErrNotExist) {
			return core.PathError("removeall", key, translate(err))
		}
	}
	return nil
}

// Exists reports whether Stat succeeds for key.
func (h *HDFS) Exists(ctx context.Context, key string) (bool, error) {
	_, err := h.Stat(ctx, key)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, core.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Type returns FSTypeRemote.
func (h *HDFS) Type() core.FSType {
	return core.FSTypeRemote
}

type fileWriter struct {
	client client
	w      io.WriteCloser
	path   string
	key    string
	closed bool
}

func (w *fileWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, core.PathError("write", w.key, core.ErrClosed)
	}
	return w.w.Write(p)
}

func (w *fileWriter) Close() error {
	if w.closed {
		return core.PathError("close", w.key, core.ErrClosed)
	}
	w.closed = true
	if err := w.w.Close(); err != nil {
		return core.PathError("close", w.key, translate(err))
	}
	return nil
}

func (w *fileWriter) Abort() error {
	if w.closed {
		return nil
	}
	w.closed = true
	_ = w.w.Close()
	if err := w.client.Remove(w.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return core.PathError("abort", w.key, translate(err))
	}
	return nil
}

var _ core.Operator = (*HDFS)(nil)
