package minio

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/minio/minio-go/v7"

	"github.com/jmgilman/storify/fs/core"
	"github.com/jmgilman/storify/fs/minio/internal/errs"
)

var errAborted = errors.New("upload aborted")

// objectWriter buffers writes until the multipart threshold is crossed and
// then switches to streaming through an io.Pipe into PutObject.
type objectWriter struct {
	ctx  context.Context
	fs   *MinioFS
	name string
	key  string

	buffer *bytes.Buffer
	pipeW  *io.PipeWriter
	putRes chan error
	closed bool
}

// Write implements io.Writer.
func (w *objectWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, core.PathError("write", w.name, core.ErrClosed)
	}

	if w.pipeW != nil {
		n, err := w.pipeW.Write(p)
		if err != nil {
			return n, core.PathError("write", w.name, err)
		}
		return n, nil
	}

	if int64(w.buffer.Len()+len(p)) <= w.fs.multipartThreshold {
		return w.buffer.Write(p)
	}

	return w.startStreaming(p)
}

// startStreaming launches the upload, replays the buffered bytes and then
// writes p.
func (w *objectWriter) startStreaming(p []byte) (int, error) {
	pr, pw := io.Pipe()
	w.pipeW = pw
	w.putRes = make(chan error, 1)

	go func() {
		_, err := w.fs.client.PutObject(w.ctx, w.fs.bucket, w.key, pr, -1, w.fs.streamOptions())
		// Unblock any pending writer if the upload stops reading.
		_ = pr.CloseWithError(err)
		w.putRes <- err
	}()

	if w.buffer.Len() > 0 {
		if _, err := pw.Write(w.buffer.Bytes()); err != nil {
			return 0, core.PathError("write", w.name, err)
		}
	}
	w.buffer = nil

	n, err := pw.Write(p)
	if err != nil {
		return n, core.PathError("write", w.name, err)
	}
	return n, nil
}

// Close uploads buffered content or completes the streaming upload.
func (w *objectWriter) Close() error {
	if w.closed {
		return core.PathError("close", w.name, core.ErrClosed)
	}
	w.closed = true

	if w.pipeW != nil {
		_ = w.pipeW.Close()
		if err := <-w.putRes; err != nil {
			return core.PathError("close", w.name, errs.Translate(err))
		}
		return nil
	}

	_, err := w.fs.client.PutObject(
		w.ctx,
		w.fs.bucket,
		w.key,
		bytes.NewReader(w.buffer.Bytes()),
		int64(w.buffer.Len()),
		minio.PutObjectOptions{ContentType: "application/octet-stream"},
	)
	w.buffer = nil
	if err != nil {
		return core.PathError("close", w.name, errs.Translate(err))
	}
	return nil
}

// Abort discards the object. A streaming upload is cancelled by failing the
// pipe, which makes the client abort the multipart upload.
func (w *objectWriter) Abort() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.buffer = nil

	if w.pipeW != nil {
		_ = w.pipeW.CloseWithError(errAborted)
		<-w.putRes
	}
	return nil
}

// streamOptions returns the options for uploads of unknown length. Without
// a part size the client sizes parts for a 5 TiB object.
func (m *MinioFS) streamOptions() minio.PutObjectOptions {
	return minio.PutObjectOptions{
		ContentType: "application/octet-stream",
		PartSize:    m.partSize,
	}
}

func isNotExist(err error) bool {
	return errors.Is(err, core.ErrNotExist)
}
