package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jmgilman/storify/fs/core"
)

// Format selects how ObjectMeta is rendered.
type Format int

const (
	// FormatHuman renders one "key: value" line per field.
	FormatHuman Format = iota
	// FormatRaw renders a single line of key=value pairs.
	FormatRaw
	// FormatJSON renders a single-line JSON object.
	FormatJSON
)

// ObjectMeta is the metadata reported by Stat.
type ObjectMeta struct {
	Path         string `json:"path"`
	EntryType    string `json:"entry_type"`
	Size         int64  `json:"size"`
	LastModified string `json:"last_modified,omitempty"`
	ETag         string `json:"etag,omitempty"`
	ContentType  string `json:"content_type,omitempty"`
}

// Stat returns metadata for path. Directories without a marker are
// reported as directories of size zero.
func (e *Engine) Stat(ctx context.Context, path string) (ObjectMeta, error) {
	k, entry, err := resolve(ctx, e.op, path)
	if err != nil {
		return ObjectMeta{}, err
	}
	if k == kindMissing {
		return ObjectMeta{}, pathNotFound(path)
	}

	meta := ObjectMeta{
		Path:        path,
		EntryType:   entry.Mode.String(),
		Size:        entry.Size,
		ETag:        entry.ETag,
		ContentType: entry.ContentType,
	}
	if entry.Mode == core.ModeUnknown {
		meta.EntryType = k.String()
	}
	if !entry.LastModified.IsZero() {
		meta.LastModified = entry.LastModified.UTC().Format(time.RFC3339)
	}
	return meta, nil
}

// Write renders m to w in format f.
func (m ObjectMeta) Write(w io.Writer, f Format) error {
	switch f {
	case FormatJSON:
		data, err := json.Marshal(m)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	case FormatRaw:
		_, err := fmt.Fprintln(w, strings.Join(m.pairs("="), " "))
		return err
	default:
		_, err := fmt.Fprintln(w, strings.Join(m.pairs(": "), "\n"))
		return err
	}
}

// pairs returns the populated fields joined to their names by sep.
func (m ObjectMeta) pairs(sep string) []string {
	fields := []struct {
		name, value string
	}{
		{"path", m.Path},
		{"type", m.EntryType},
		{"size", fmt.Sprint(m.Size)},
		{"last_modified", m.LastModified},
		{"etag", m.ETag},
		{"content_type", m.ContentType},
	}

	var out []string
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		out = append(out, f.name+sep+f.value)
	}
	return out
}
