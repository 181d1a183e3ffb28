// Package memory provides an in-memory implementation of core.Operator.
//
// Keys live in a single flat map exactly as they would in an object store:
// directories exist only as zero-byte markers ending in "/" or as prefixes
// of other keys. The backend is primarily used to exercise tree operations
// without a network service.
package memory

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"io"
	"iter"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/jmgilman/storify/fs/core"
	"github.com/jmgilman/storify/fs/pathutil"
)

const defaultContentType = "application/octet-stream"

// objectData is a stored object. It is never mutated after insertion.
type objectData struct {
	data        []byte
	modTime     time.Time
	etag        string
	contentType string
}

// MemoryFS is a flat key namespace held in process memory.
//
//nolint:revive // MemoryFS name matches the other backends
type MemoryFS struct {
	mu      sync.RWMutex
	objects map[string]*objectData
}

// New returns an empty in-memory operator.
func New() *MemoryFS {
	return &MemoryFS{
		objects: make(map[string]*objectData, 16),
	}
}

func newObjectData(data []byte) *objectData {
	sum := md5.Sum(data)
	return &objectData{
		data:        data,
		modTime:     time.Now().UTC(),
		etag:        hex.EncodeToString(sum[:]),
		contentType: defaultContentType,
	}
}

func (od *objectData) entry(key string) core.Entry {
	return core.Entry{
		Key:          key,
		Mode:         core.ModeOf(key),
		Size:         int64(len(od.data)),
		LastModified: od.modTime,
		ETag:         od.etag,
		ContentType:  od.contentType,
	}
}

func (m *MemoryFS) get(key string) *objectData {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.objects[key]
}

func (m *MemoryFS) put(key string, od *objectData) {
	m.mu.Lock()
	m.objects[key] = od
	m.mu.Unlock()
}

// sortedKeys returns a snapshot of the keys starting with prefix.
func (m *MemoryFS) sortedKeys(prefix string) []string {
	m.mu.RLock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	m.mu.RUnlock()
	slices.Sort(keys)
	return keys
}

// Stat returns metadata for key.
func (m *MemoryFS) Stat(_ context.Context, key string) (core.Entry, error) {
	key = strings.TrimLeft(key, "/")
	if key == "" {
		return core.Entry{Key: "", Mode: core.ModeDir}, nil
	}

	od := m.get(key)
	if od == nil {
		return core.Entry{}, core.PathError("stat", key, core.ErrNotExist)
	}
	return od.entry(key), nil
}

// List yields the entries beneath prefix in lexical order.
func (m *MemoryFS) List(ctx context.Context, prefix string, opts core.ListOptions) iter.Seq2[core.Entry, error] {
	dir := pathutil.DirKey(prefix)

	return func(yield func(core.Entry, error) bool) {
		seen := make(map[string]struct{})
		count := 0

		for _, key := range m.sortedKeys(dir) {
			if err := ctx.Err(); err != nil {
				yield(core.Entry{}, err)
				return
			}
			if key == dir {
				continue
			}

			entryKey := key
			if !opts.Recursive {
				rest := key[len(dir):]
				if i := strings.Index(rest, "/"); i >= 0 {
					entryKey = dir + rest[:i+1]
				}
			}
			if _, dup := seen[entryKey]; dup {
				continue
			}
			seen[entryKey] = struct{}{}

			entry := core.Entry{Key: entryKey, Mode: core.ModeOf(entryKey)}
			if od := m.get(entryKey); od != nil {
				entry = od.entry(entryKey)
			}

			if !yield(entry, nil) {
				return
			}
			count++
			if opts.Limit > 0 && count >= opts.Limit {
				return
			}
		}
	}
}

// Read returns a reader over the selected range of key.
func (m *MemoryFS) Read(_ context.Context, key string, rng core.Range) (io.ReadCloser, error) {
	key = strings.TrimLeft(key, "/")
	od := m.get(key)
	if od == nil {
		return nil, core.PathError("read", key, core.ErrNotExist)
	}

	size := int64(len(od.data))
	start := min(rng.Offset, size)
	end := size
	if rng.Length > 0 {
		end = min(start+rng.Length, size)
	}
	return io.NopCloser(bytes.NewReader(od.data[start:end])), nil
}

// Writer returns a Writer that stores key when closed.
func (m *MemoryFS) Writer(_ context.Context, key string) (core.Writer, error) {
	key = strings.TrimLeft(key, "/")
	if key == "" {
		return nil, core.PathError("write", key, core.ErrUnsupported)
	}
	return &writer{fs: m, key: key}, nil
}

// CreateDir stores a zero-byte marker for key.
func (m *MemoryFS) CreateDir(_ context.Context, key string) error {
	dir := pathutil.DirKey(key)
	if dir == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[dir]; !ok {
		m.objects[dir] = newObjectData(nil)
	}
	return nil
}

// Delete removes a single key.
func (m *MemoryFS) Delete(_ context.Context, key string) error {
	key = strings.TrimLeft(key, "/")
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

// RemoveAll removes key, its marker and every key beneath it.
func (m *MemoryFS) RemoveAll(_ context.Context, key string) error {
	name := pathutil.Normalize(key)

	m.mu.Lock()
	defer m.mu.Unlock()
	if name == "" {
		clear(m.objects)
		return nil
	}

	delete(m.objects, name)
	dir := name + "/"
	for k := range m.objects {
		if strings.HasPrefix(k, dir) {
			delete(m.objects, k)
		}
	}
	return nil
}

// Exists reports whether key is stored (or is the root).
func (m *MemoryFS) Exists(ctx context.Context, key string) (bool, error) {
	_, err := m.Stat(ctx, key)
	if err == nil {
		return true, nil
	}
	return false, nil
}

// Type returns core.FSTypeMemory.
func (m *MemoryFS) Type() core.FSType {
	return core.FSTypeMemory
}

// Keys returns every stored key in lexical order.
func (m *MemoryFS) Keys() []string {
	return m.sortedKeys("")
}

// writer buffers an object until Close.
type writer struct {
	fs     *MemoryFS
	key    string
	buf    bytes.Buffer
	closed bool
}

func (w *writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, core.PathError("write", w.key, core.ErrClosed)
	}
	return w.buf.Write(p)
}

func (w *writer) Close() error {
	if w.closed {
		return core.PathError("close", w.key, core.ErrClosed)
	}
	w.closed = true
	w.fs.put(w.key, newObjectData(bytes.Clone(w.buf.Bytes())))
	return nil
}

func (w *writer) Abort() error {
	w.closed = true
	w.buf.Reset()
	return nil
}

// Compile-time interface check.
var _ core.Operator = (*MemoryFS)(nil)
