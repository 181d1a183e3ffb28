package core

import (
	"context"
	"io"
	"iter"
	"strings"
	"time"
)

// FSType describes where an Operator keeps its data.
type FSType int

const (
	// FSTypeUnknown indicates the type is unspecified.
	FSTypeUnknown FSType = iota
	// FSTypeLocal indicates local disk.
	FSTypeLocal
	// FSTypeMemory indicates process memory.
	FSTypeMemory
	// FSTypeRemote indicates a network service (object store, HDFS).
	FSTypeRemote
)

// String returns a string representation of the FSType.
func (t FSType) String() string {
	switch t {
	case FSTypeLocal:
		return "local"
	case FSTypeMemory:
		return "memory"
	case FSTypeRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// Mode classifies an Entry.
type Mode int

const (
	// ModeUnknown is reported for entries a backend cannot classify.
	ModeUnknown Mode = iota
	// ModeFile is a regular object.
	ModeFile
	// ModeDir is a directory or directory marker.
	ModeDir
)

// String returns "file", "dir" or "other".
func (m Mode) String() string {
	switch m {
	case ModeFile:
		return "file"
	case ModeDir:
		return "dir"
	default:
		return "other"
	}
}

// Entry is a single result of Stat or List. Entries are read-only
// snapshots; nothing is cached between calls.
type Entry struct {
	// Key is the full key relative to the operator root. Directory keys end
	// with "/".
	Key string

	// Mode is derived from Key when the entry is produced.
	Mode Mode

	// Size is the content length in bytes. Zero for directories.
	Size int64

	// LastModified is zero when the backend does not report it.
	LastModified time.Time

	// ETag is empty when the backend does not report it.
	ETag string

	// ContentType is empty when the backend does not report it.
	ContentType string
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool {
	return e.Mode == ModeDir
}

// ModeOf derives the Mode of key from its trailing delimiter.
func ModeOf(key string) Mode {
	if key == "" || strings.HasSuffix(key, "/") {
		return ModeDir
	}
	return ModeFile
}

// ListOptions controls a List call.
type ListOptions struct {
	// Recursive yields every descendant instead of immediate children.
	Recursive bool

	// Limit stops the sequence after this many entries. Zero means no limit.
	Limit int
}

// Range selects a byte range for Read. The zero value reads everything.
type Range struct {
	// Offset is the first byte to read.
	Offset int64

	// Length is the number of bytes to read. Zero reads to the end.
	Length int64
}

// IsZero reports whether r selects the whole object.
func (r Range) IsZero() bool {
	return r.Offset == 0 && r.Length == 0
}

// Writer streams the content of a single object.
//
// Data written is not durable until Close returns nil. Abort discards the
// object; calling Close after Abort returns ErrClosed.
type Writer interface {
	io.WriteCloser

	// Abort discards everything written so far.
	Abort() error
}

// Operator is the storage capability every backend provides.
//
// All methods are safe for concurrent use. Errors for missing keys satisfy
// errors.Is(err, ErrNotExist).
type Operator interface {
	// Stat returns metadata for key. A key ending in "/" is looked up as a
	// directory; the empty key reports the root.
	Stat(ctx context.Context, key string) (Entry, error)

	// List yields entries under prefix, which is treated as a directory. The
	// prefix's own entry is never yielded and a missing prefix yields
	// nothing.
	List(ctx context.Context, prefix string, opts ListOptions) iter.Seq2[Entry, error]

	// Read opens key for streaming. The caller must close the reader.
	Read(ctx context.Context, key string, rng Range) (io.ReadCloser, error)

	// Writer opens key for streaming writes, replacing any existing object.
	Writer(ctx context.Context, key string) (Writer, error)

	// CreateDir creates a directory marker for key. Creating an existing
	// directory succeeds.
	CreateDir(ctx context.Context, key string) error

	// Delete removes a single object, marker or empty directory. Deleting a
	// missing key succeeds.
	Delete(ctx context.Context, key string) error

	// RemoveAll removes key and everything beneath it. Removing a missing
	// key succeeds.
	RemoveAll(ctx context.Context, key string) error

	// Exists reports whether Stat would succeed for key.
	Exists(ctx context.Context, key string) (bool, error)

	// Type returns where the operator keeps its data.
	Type() FSType
}
