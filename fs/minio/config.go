// Package minio provides an S3-compatible implementation of core.Operator
// backed by minio-go. It serves the minio, s3 and oss providers.
package minio

import (
	"fmt"

	"github.com/minio/minio-go/v7"
)

// DefaultMultipartThreshold is the write size above which uploads stream
// through a multipart PutObject instead of a single buffered request.
const DefaultMultipartThreshold = 5 * 1024 * 1024

// DefaultPartSize is the part size of streaming uploads. minio-go buffers
// one part per upload, so this bounds the memory a single writer holds.
const DefaultPartSize = 16 * 1024 * 1024

// minPartSize is the smallest part S3 accepts.
const minPartSize = 5 * 1024 * 1024

// Config holds S3 operator configuration.
type Config struct {
	// Endpoint is the server host and port (e.g., "localhost:9000").
	Endpoint string

	// Bucket is the bucket name.
	Bucket string

	// AccessKey is the access key ID for authentication.
	AccessKey string

	// SecretKey is the secret access key for authentication.
	SecretKey string

	// Region is passed to the client when set.
	Region string

	// UseSSL enables HTTPS connections.
	UseSSL bool

	// Prefix is an optional prefix applied to every key.
	Prefix string

	// Client is an optional pre-configured client. If provided,
	// Endpoint/AccessKey/SecretKey/Region are ignored.
	Client *minio.Client

	// MultipartThreshold overrides DefaultMultipartThreshold when non-zero.
	MultipartThreshold int64

	// PartSize overrides DefaultPartSize when non-zero. Must be at least 5 MiB.
	PartSize uint64
}

// validate checks if the configuration is valid.
// Either Client OR (Endpoint + Bucket + AccessKey + SecretKey) must be provided.
func (c *Config) validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("bucket is required")
	}
	if c.MultipartThreshold < 0 {
		return fmt.Errorf("multipart threshold must not be negative")
	}
	if c.PartSize != 0 && c.PartSize < minPartSize {
		return fmt.Errorf("part size must be at least %d bytes, got %d", minPartSize, c.PartSize)
	}

	if c.Client != nil {
		return nil
	}

	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required when client is not provided")
	}
	if c.AccessKey == "" {
		return fmt.Errorf("access key is required when client is not provided")
	}
	if c.SecretKey == "" {
		return fmt.Errorf("secret key is required when client is not provided")
	}

	return nil
}
