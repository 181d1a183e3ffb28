package engine

import (
	"context"
	"io"

	"github.com/jmgilman/storify/fs/core"
)

// DefaultCatSizeLimitMB is the size above which Cat asks for confirmation.
const DefaultCatSizeLimitMB = 10

// CatOptions controls Cat.
type CatOptions struct {
	// Force skips the size confirmation.
	Force bool

	// SizeLimitMB is the confirmation threshold in MiB. Zero uses
	// DefaultCatSizeLimitMB.
	SizeLimitMB int64

	// Confirm is asked whether to print an object larger than the limit.
	// A nil Confirm refuses.
	Confirm func(size int64) bool

	// Offset and Length select a byte range. A zero Length reads to the
	// end.
	Offset int64
	Length int64
}

// Cat streams the content of the file at path to the output sink. Objects
// above the size limit are only printed when forced or confirmed; a
// refusal prints nothing and is not an error.
func (e *Engine) Cat(ctx context.Context, path string, opts CatOptions) error {
	k, entry, err := resolve(ctx, e.op, path)
	if err != nil {
		return err
	}
	switch k {
	case kindMissing:
		return pathNotFound(path)
	case kindDir:
		return invalidPath(path)
	}

	limit := opts.SizeLimitMB
	if limit <= 0 {
		limit = DefaultCatSizeLimitMB
	}
	if !opts.Force && entry.Size > limit*1024*1024 {
		if opts.Confirm == nil || !opts.Confirm(entry.Size) {
			e.logger.Info("cat declined", "path", path, "size", entry.Size)
			return nil
		}
	}

	r, err := e.op.Read(ctx, entry.Key, core.Range{Offset: opts.Offset, Length: opts.Length})
	if err != nil {
		return storageFailed("read", path, err)
	}
	defer func() {
		_ = r.Close()
	}()

	if _, err := io.CopyBuffer(e.out, r, make([]byte, RemoteChunkSize)); err != nil {
		return storageFailed("read", path, err)
	}
	return nil
}
