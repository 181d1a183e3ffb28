package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/jmgilman/storify/fs/core"
	"github.com/jmgilman/storify/fs/minio/internal/errs"
	"github.com/jmgilman/storify/fs/pathutil"
)

// MinioFS implements core.Operator for S3-compatible storage.
//
//nolint:revive // MinioFS name is intentional to match naming pattern across fs implementations
type MinioFS struct {
	client             *minio.Client
	bucket             string
	prefix             string
	multipartThreshold int64
	partSize           uint64
}

// NewMinIO creates an S3-backed operator.
// Returns error if configuration is invalid or the client cannot be built.
func NewMinIO(cfg Config) (*MinioFS, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	client := cfg.Client
	if client == nil {
		var err error
		client, err = minio.New(cfg.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure: cfg.UseSSL,
			Region: cfg.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create minio client: %w", err)
		}
	}

	threshold := cfg.MultipartThreshold
	if threshold == 0 {
		threshold = DefaultMultipartThreshold
	}

	partSize := cfg.PartSize
	if partSize == 0 {
		partSize = DefaultPartSize
	}

	return &MinioFS{
		client:             client,
		bucket:             cfg.Bucket,
		prefix:             pathutil.Normalize(cfg.Prefix),
		multipartThreshold: threshold,
		partSize:           partSize,
	}, nil
}

// objectKey maps an operator key to the bucket key.
func (m *MinioFS) objectKey(key string) string {
	key = strings.TrimLeft(key, pathutil.Delimiter)
	if m.prefix == "" {
		return key
	}
	return m.prefix + pathutil.Delimiter + key
}

// entryKey maps a bucket key back to an operator key.
func (m *MinioFS) entryKey(objectKey string) string {
	if m.prefix == "" {
		return objectKey
	}
	return strings.TrimPrefix(objectKey, m.prefix+pathutil.Delimiter)
}

// Stat returns metadata for key. Directory keys are only found when a
// marker object exists.
func (m *MinioFS) Stat(ctx context.Context, key string) (core.Entry, error) {
	key = strings.TrimLeft(key, pathutil.Delimiter)
	if key == "" {
		return core.Entry{Key: "", Mode: core.ModeDir}, nil
	}

	info, err := m.client.StatObject(ctx, m.bucket, m.objectKey(key), minio.StatObjectOptions{})
	if err != nil {
		return core.Entry{}, core.PathError("stat", key, errs.Translate(err))
	}

	return core.Entry{
		Key:          key,
		Mode:         core.ModeOf(key),
		Size:         info.Size,
		LastModified: info.LastModified,
		ETag:         info.ETag,
		ContentType:  info.ContentType,
	}, nil
}

// List yields objects under prefix. In recursive mode directories appear
// only where marker objects exist.
func (m *MinioFS) List(ctx context.Context, prefix string, opts core.ListOptions) iter.Seq2[core.Entry, error] {
	return func(yield func(core.Entry, error) bool) {
		// The lister goroutine must exit when iteration stops early.
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		dir := pathutil.DirKey(prefix)
		listPrefix := m.objectKey(dir)

		listOpts := minio.ListObjectsOptions{
			Prefix:    listPrefix,
			Recursive: opts.Recursive,
		}
		if opts.Limit > 0 && opts.Limit < 1000 {
			// The prefix's own marker may be among the results.
			listOpts.MaxKeys = opts.Limit + 1
		}

		count := 0
		for obj := range m.client.ListObjects(ctx, m.bucket, listOpts) {
			if obj.Err != nil {
				yield(core.Entry{}, core.PathError("list", dir, errs.Translate(obj.Err)))
				return
			}
			if obj.Key == listPrefix {
				continue
			}

			key := m.entryKey(obj.Key)
			entry := core.Entry{
				Key:          key,
				Mode:         core.ModeOf(key),
				Size:         obj.Size,
				LastModified: obj.LastModified,
				ETag:         obj.ETag,
				ContentType:  obj.ContentType,
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

// Read opens key for streaming.
func (m *MinioFS) Read(ctx context.Context, key string, rng core.Range) (io.ReadCloser, error) {
	key = strings.TrimLeft(key, pathutil.Delimiter)

	opts := minio.GetObjectOptions{}
	if !rng.IsZero() {
		end := int64(0)
		if rng.Length > 0 {
			end = rng.Offset + rng.Length - 1
		}
		if err := opts.SetRange(rng.Offset, end); err != nil {
			return nil, core.PathError("read", key, err)
		}
	}

	obj, err := m.client.GetObject(ctx, m.bucket, m.objectKey(key), opts)
	if err != nil {
		return nil, core.PathError("read", key, errs.Translate(err))
	}

	// GetObject is lazy; Stat surfaces missing objects before the first Read.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, core.PathError("read", key, errs.Translate(err))
	}

	return obj, nil
}

// Writer opens key for streaming writes. Small objects are buffered and
// uploaded on Close; larger ones stream through a multipart upload.
func (m *MinioFS) Writer(ctx context.Context, key string) (core.Writer, error) {
	key = strings.TrimLeft(key, pathutil.Delimiter)
	if key == "" || pathutil.IsDirHint(key) {
		return nil, core.PathError("write", key, core.ErrUnsupported)
	}

	return &objectWriter{
		ctx:    ctx,
		fs:     m,
		name:   key,
		key:    m.objectKey(key),
		buffer: new(bytes.Buffer),
	}, nil
}

// CreateDir writes a zero-byte marker object for key.
func (m *MinioFS) CreateDir(ctx context.Context, key string) error {
	dir := pathutil.DirKey(key)
	if dir == "" {
		return nil
	}

	_, err := m.client.PutObject(ctx, m.bucket, m.objectKey(dir), bytes.NewReader(nil), 0, minio.PutObjectOptions{})
	if err != nil {
		return core.PathError("mkdir", dir, errs.Translate(err))
	}
	return nil
}

// Delete removes a single object or marker. S3 reports success for
// missing keys.
func (m *MinioFS) Delete(ctx context.Context, key string) error {
	key = strings.TrimLeft(key, pathutil.Delimiter)
	if key == "" {
		return nil
	}

	if err := m.client.RemoveObject(ctx, m.bucket, m.objectKey(key), minio.RemoveObjectOptions{}); err != nil {
		return core.PathError("remove", key, errs.Translate(err))
	}
	return nil
}

// RemoveAll removes key, its marker and everything beneath it using the
// batch delete API.
func (m *MinioFS) RemoveAll(ctx context.Context, key string) error {
	name := pathutil.Normalize(key)

	// Plain objects named exactly like the directory go too.
	if name != "" {
		if err := m.Delete(ctx, name); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	objectsCh := make(chan minio.ObjectInfo, 100)
	listErr := make(chan error, 1)
	go func() {
		defer close(objectsCh)
		for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
			Prefix:    m.objectKey(pathutil.DirKey(name)),
			Recursive: true,
		}) {
			if obj.Err != nil {
				listErr <- obj.Err
				return
			}
			select {
			case objectsCh <- obj:
			case <-ctx.Done():
				return
			}
		}
	}()

	var firstErr error
	for rmErr := range m.client.RemoveObjects(ctx, m.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if rmErr.Err != nil && firstErr == nil {
			firstErr = rmErr.Err
		}
	}

	select {
	case err := <-listErr:
		return core.PathError("removeall", name, errs.Translate(err))
	default:
	}

	if firstErr != nil {
		return core.PathError("removeall", name, errs.Translate(firstErr))
	}
	return nil
}

// Exists reports whether Stat would succeed for key.
func (m *MinioFS) Exists(ctx context.Context, key string) (bool, error) {
	_, err := m.Stat(ctx, key)
	if err == nil {
		return true, nil
	}
	if isNotExist(err) {
		return false, nil
	}
	return false, err
}

// Type returns FSTypeRemote.
func (m *MinioFS) Type() core.FSType {
	return core.FSTypeRemote
}

var _ core.Operator = (*MinioFS)(nil)
