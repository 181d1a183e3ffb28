package config

import (
	"net/url"
	"strings"

	"github.com/jmgilman/storify/errors"
	fsbilly "github.com/jmgilman/storify/fs/billy"
	"github.com/jmgilman/storify/fs/core"
	"github.com/jmgilman/storify/fs/hdfs"
	"github.com/jmgilman/storify/fs/memory"
	"github.com/jmgilman/storify/fs/minio"
)

// NewOperator builds the operator selected by cfg. Operators that hold a
// connection implement io.Closer.
func NewOperator(cfg *Config) (core.Operator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Provider {
	case ProviderOSS, ProviderS3, ProviderMinIO:
		host, secure, err := ParseEndpoint(cfg.Endpoint)
		if err != nil {
			return nil, err
		}
		op, err := minio.NewMinIO(minio.Config{
			Endpoint:  host,
			Bucket:    cfg.Bucket,
			AccessKey: cfg.AccessKeyID,
			SecretKey: cfg.AccessKeySecret,
			Region:    cfg.Region,
			UseSSL:    secure,
			Prefix:    cfg.RootPath,
		})
		if err != nil {
			return nil, errors.Wrapf(err, errors.CodeInvalidConfig, "failed to create %s operator", cfg.Provider)
		}
		return op, nil

	case ProviderFS:
		op, err := fsbilly.NewLocal(cfg.RootPath)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to create fs operator")
		}
		return op, nil

	case ProviderHDFS:
		op, err := hdfs.New(hdfs.Config{
			Namenode: cfg.HDFSNamenode,
			User:     cfg.HDFSUser,
			Root:     cfg.RootPath,
		})
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to create hdfs operator")
		}
		return op, nil

	default:
		return memory.New(), nil
	}
}

// ParseEndpoint splits an endpoint URL into the host the S3 client dials
// and whether TLS is used. A bare host defaults to TLS.
func ParseEndpoint(endpoint string) (host string, secure bool, err error) {
	if !strings.Contains(endpoint, "://") {
		host = strings.TrimRight(endpoint, "/")
		if host == "" {
			return "", false, invalid("endpoint is empty")
		}
		return host, true, nil
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, errors.WithContext(
			errors.Wrapf(err, errors.CodeInvalidConfig, "invalid endpoint %q", endpoint),
			"endpoint", endpoint,
		)
	}
	switch strings.ToLower(u.Scheme) {
	case "https":
		secure = true
	case "http":
	default:
		return "", false, invalid("unsupported endpoint scheme: " + u.Scheme)
	}
	if u.Host == "" {
		return "", false, invalid("endpoint has no host: " + endpoint)
	}
	return u.Host, secure, nil
}
