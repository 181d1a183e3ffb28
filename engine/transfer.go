package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/zeebo/blake3"

	"github.com/jmgilman/storify/errors"
	"github.com/jmgilman/storify/fs/core"
)

const (
	// RemoteChunkSize is the read size for transfers that read from the
	// remote operator.
	RemoteChunkSize = 1024 * 1024

	// LocalChunkSize is the read size for uploads from the local
	// filesystem.
	LocalChunkSize = 8 * 1024

	// ProgressInterval is the number of chunks between progress reports.
	ProgressInterval = 100
)

// ProgressState tracks one transfer and reports its completion percentage
// whenever the transferred byte count crosses a multiple of the step.
// A ProgressState belongs to a single transfer and is not safe for
// concurrent use.
type ProgressState struct {
	Label       string
	Total       int64
	Transferred int64
	Step        int64

	w io.Writer
}

// NewProgress returns a ProgressState writing to w. A total of zero
// disables reporting.
func NewProgress(w io.Writer, label string, total, step int64) *ProgressState {
	if step < 1 {
		step = 1
	}
	return &ProgressState{Label: label, Total: total, Step: step, w: w}
}

// Add records n more transferred bytes and reports when a step boundary
// is crossed.
func (p *ProgressState) Add(n int64) {
	before := p.Transferred
	p.Transferred += n
	if p.Total <= 0 || p.w == nil {
		return
	}
	if p.Transferred/p.Step > before/p.Step {
		percent := p.Transferred * 100 / p.Total
		if percent > 100 {
			percent = 100
		}
		_, _ = fmt.Fprintf(p.w, "\r %s: %d%%", p.Label, percent)
	}
}

// transferTask describes one file transfer. Tasks are built per entry
// during a tree operation and discarded afterwards.
type transferTask struct {
	src   string
	dest  string
	label string
	size  int64
	chunk int

	open   func(ctx context.Context) (io.ReadCloser, error)
	create func(ctx context.Context) (core.Writer, error)
	reopen func(ctx context.Context) (io.ReadCloser, error)
}

// remoteTask transfers between two keys of the same operator.
func (e *Engine) remoteTask(label, src, dest string, size int64) transferTask {
	return transferTask{
		src:   src,
		dest:  dest,
		label: label,
		size:  size,
		chunk: RemoteChunkSize,
		open: func(ctx context.Context) (io.ReadCloser, error) {
			return e.op.Read(ctx, src, core.Range{})
		},
		create: func(ctx context.Context) (core.Writer, error) {
			return e.op.Writer(ctx, dest)
		},
		reopen: func(ctx context.Context) (io.ReadCloser, error) {
			return e.op.Read(ctx, dest, core.Range{})
		},
	}
}

// crossTask transfers key src on from to key dest on to.
func crossTask(from, to core.Operator, label, src, dest string, size int64, chunk int) transferTask {
	return transferTask{
		src:   src,
		dest:  dest,
		label: label,
		size:  size,
		chunk: chunk,
		open: func(ctx context.Context) (io.ReadCloser, error) {
			return from.Read(ctx, src, core.Range{})
		},
		create: func(ctx context.Context) (core.Writer, error) {
			return to.Writer(ctx, dest)
		},
		reopen: func(ctx context.Context) (io.ReadCloser, error) {
			return to.Read(ctx, dest, core.Range{})
		},
	}
}

// transfer streams the task's source into its destination through a
// single reusable chunk buffer. The destination is closed as the final
// step and is aborted on any earlier failure. Errors are wrapped as
// transfer failures with the original cause chained.
func (e *Engine) transfer(ctx context.Context, t transferTask) (int64, error) {
	r, err := t.open(ctx)
	if err != nil {
		return 0, transferFailed(t.src, t.dest, err)
	}
	defer func() {
		_ = r.Close()
	}()

	w, err := t.create(ctx)
	if err != nil {
		return 0, transferFailed(t.src, t.dest, err)
	}

	var hasher *blake3.Hasher
	if e.verify {
		hasher = blake3.New()
	}

	progress := NewProgress(e.progress, t.label, t.size, int64(t.chunk)*ProgressInterval)
	buf := make([]byte, t.chunk)
	var total int64

	for {
		if err := ctx.Err(); err != nil {
			_ = w.Abort()
			return total, transferFailed(t.src, t.dest, err)
		}

		n, rerr := r.Read(buf)
		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				_ = w.Abort()
				return total, transferFailed(t.src, t.dest, err)
			}
			if hasher != nil {
				_, _ = hasher.Write(buf[:n])
			}
			total += int64(n)
			progress.Add(int64(n))
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			_ = w.Abort()
			return total, transferFailed(t.src, t.dest, rerr)
		}
	}

	if err := w.Close(); err != nil {
		return total, transferFailed(t.src, t.dest, err)
	}

	if hasher != nil {
		if err := e.verifyDestination(ctx, t, hasher.Sum(nil)); err != nil {
			return total, transferFailed(t.src, t.dest, err)
		}
	}

	e.logger.Debug("transfer complete", "src", t.src, "dest", t.dest, "bytes", total)
	return total, nil
}

// verifyDestination re-reads the written object and compares its BLAKE3
// digest with the digest of the bytes that were sent.
func (e *Engine) verifyDestination(ctx context.Context, t transferTask, want []byte) error {
	r, err := t.reopen(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = r.Close()
	}()

	hasher := blake3.New()
	if _, err := io.CopyBuffer(hasher, r, make([]byte, t.chunk)); err != nil {
		return err
	}
	if got := hasher.Sum(nil); !bytes.Equal(got, want) {
		return errors.WithContextMap(
			errors.New(errors.CodeIntegrity, "checksum mismatch after transfer"),
			map[string]any{"want": fmt.Sprintf("%x", want), "got": fmt.Sprintf("%x", got)},
		)
	}
	return nil
}
