package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/jmgilman/storify/fs/core"
	"github.com/jmgilman/storify/fs/pathutil"
)

// ListOptions controls List.
type ListOptions struct {
	// Long prints type, size and modification time for every entry.
	Long bool

	// Recursive lists every descendant instead of immediate children.
	Recursive bool
}

// List prints the entries under path, one per line. A path naming a file
// prints that file. A missing path prints nothing.
func (e *Engine) List(ctx context.Context, path string, opts ListOptions) error {
	if !pathutil.IsDirHint(path) && pathutil.Normalize(path) != "" {
		entry, err := e.op.Stat(ctx, pathutil.Normalize(path))
		if err == nil && !entry.IsDir() {
			e.printEntry(entry, opts.Long)
			return nil
		}
	}

	for entry, err := range e.op.List(ctx, pathutil.DirKey(path), core.ListOptions{Recursive: opts.Recursive}) {
		if err != nil {
			return storageFailed("list", path, err)
		}
		e.printEntry(entry, opts.Long)
	}
	return nil
}

func (e *Engine) printEntry(entry core.Entry, long bool) {
	if !long {
		e.printf("%s", entry.Key)
		return
	}
	e.printf("%s", formatLong(entry))
}

// formatLong renders "<TYPE> <size> <modified> <key>" with the type padded
// to six columns and the size right-aligned in ten.
func formatLong(entry core.Entry) string {
	kind, size := "FILE", FormatSize(entry.Size)
	if entry.IsDir() {
		kind, size = "DIR", "-"
	}

	modified := "Unknown"
	if !entry.LastModified.IsZero() {
		modified = entry.LastModified.UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("%-6s %10s %s %s", kind, size, modified, entry.Key)
}
