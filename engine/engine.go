// Package engine implements filesystem-style tree operations on top of a
// core.Operator.
//
// Object stores expose a flat key namespace with prefix-based
// pseudo-directories. The engine reconciles directory semantics onto that
// namespace: it disambiguates files from directories, preserves relative
// paths when copying whole subtrees, streams content in bounded chunks and
// aggregates per-path failures for multi-target operations.
//
// None of the tree operations are transactional. A copy or move that fails
// partway leaves already-transferred files in place, and a move deletes
// each source object right after its own transfer completes, so an
// interrupted move leaves the tree split between source and destination.
//
// Basic usage:
//
//	eng := engine.New(op,
//	    engine.WithConcurrency(10),
//	    engine.WithLogger(logger),
//	)
//	if err := eng.Copy(ctx, "data/2024/", "archive/"); err != nil {
//	    return err
//	}
package engine

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	fsbilly "github.com/jmgilman/storify/fs/billy"
	"github.com/jmgilman/storify/fs/core"
)

// DefaultConcurrency bounds parallel file transfers within one operation.
const DefaultConcurrency = 10

// Engine runs tree operations against a remote operator and the local
// filesystem. An Engine holds no per-operation state and is safe for
// concurrent use.
type Engine struct {
	op          core.Operator
	local       core.Operator
	out         io.Writer
	progress    io.Writer
	logger      *slog.Logger
	concurrency int
	verify      bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLocalFS sets the filesystem used by Upload and Download. Local paths
// are resolved against its root. Defaults to the host filesystem.
func WithLocalFS(bfs billy.Filesystem) Option {
	return func(e *Engine) {
		e.local = fsbilly.New(bfs, core.FSTypeLocal)
	}
}

// WithOutput sets the sink for result lines. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) {
		e.out = w
	}
}

// WithProgress sets the sink for transfer progress. Defaults to discarding
// progress.
func WithProgress(w io.Writer) Option {
	return func(e *Engine) {
		e.progress = w
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithConcurrency bounds parallel file transfers. Values below one are
// ignored.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithVerify enables BLAKE3 verification of every transfer by re-reading
// the destination after it is written.
func WithVerify(verify bool) Option {
	return func(e *Engine) {
		e.verify = verify
	}
}

// New returns an Engine operating on op.
func New(op core.Operator, opts ...Option) *Engine {
	e := &Engine{
		op:          op,
		out:         os.Stdout,
		progress:    io.Discard,
		logger:      slog.Default(),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.local == nil {
		e.local = fsbilly.New(osfs.New("/"), core.FSTypeLocal)
	}

	// Transfers run in parallel and share both sinks.
	e.out = &syncWriter{w: e.out}
	e.progress = &syncWriter{w: e.progress}
	return e
}

// printf writes one result line to the output sink.
func (e *Engine) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(e.out, format+"\n", args...)
}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
