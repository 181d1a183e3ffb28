// Package config loads storage settings from the environment and builds the
// matching core.Operator.
//
// Settings are read from the process environment, optionally seeded from a
// .env file. Every setting has a STORAGE_* variable; object store settings
// additionally fall back to the provider's native variable names, so an
// existing OSS_BUCKET or AWS_ACCESS_KEY_ID keeps working:
//
//	cfg, err := config.Load()
//	if err != nil {
//		return err
//	}
//	op, err := config.NewOperator(cfg)
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/jmgilman/storify/errors"
)

// Provider names a storage backend.
type Provider string

const (
	ProviderOSS    Provider = "oss"
	ProviderS3     Provider = "s3"
	ProviderMinIO  Provider = "minio"
	ProviderFS     Provider = "fs"
	ProviderHDFS   Provider = "hdfs"
	ProviderMemory Provider = "memory"
)

// Default values applied by Load.
const (
	DefaultProvider      = ProviderOSS
	DefaultOSSEndpoint   = "https://oss-cn-hangzhou.aliyuncs.com"
	DefaultS3Endpoint    = "https://s3.amazonaws.com"
	DefaultMinIOEndpoint = "http://localhost:9000"
	DefaultFSRoot        = "./storage"
	DefaultHDFSNamenode  = "localhost:8020"
	DefaultConcurrency   = 10
	DefaultLogLevel      = "warn"
)

// ParseProvider maps a provider name to a Provider. Names are
// case-insensitive.
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case ProviderOSS, ProviderS3, ProviderMinIO, ProviderFS, ProviderHDFS, ProviderMemory:
		return p, nil
	}
	return "", errors.WithContext(
		errors.Newf(errors.CodeInvalidConfig, "Unsupported storage provider: %s", s),
		"provider", s,
	)
}

// IsObjectStore reports whether p is served by the S3-compatible backend.
func (p Provider) IsObjectStore() bool {
	return p == ProviderOSS || p == ProviderS3 || p == ProviderMinIO
}

// Config holds the storage settings for one invocation.
type Config struct {
	Provider Provider

	// Object store settings.
	Bucket          string
	AccessKeyID     string
	AccessKeySecret string
	Region          string
	Endpoint        string

	// RootPath is the filesystem root for fs, the base directory for hdfs
	// and the key prefix for object stores.
	RootPath string

	// HDFS settings.
	HDFSNamenode string
	HDFSUser     string

	// Concurrency bounds parallel transfers in tree operations.
	Concurrency int

	// LogLevel is one of debug, info, warn or error.
	LogLevel string
}

// setting binds one configuration key to its environment variables. The
// first variable that is set wins.
type setting struct {
	key  string
	envs []string
}

// envNames returns the variables read for every key, given the selected
// provider. Fallback names follow each provider's own conventions.
func envNames(p Provider) []setting {
	var bucket, accessKey, secret, region, endpoint []string
	switch p {
	case ProviderOSS:
		bucket = []string{"OSS_BUCKET"}
		accessKey = []string{"OSS_ACCESS_KEY_ID"}
		secret = []string{"OSS_ACCESS_KEY_SECRET"}
		region = []string{"OSS_REGION"}
		endpoint = []string{"OSS_ENDPOINT"}
	case ProviderS3:
		bucket = []string{"AWS_S3_BUCKET"}
		accessKey = []string{"AWS_ACCESS_KEY_ID"}
		secret = []string{"AWS_SECRET_ACCESS_KEY"}
		region = []string{"AWS_DEFAULT_REGION"}
	case ProviderMinIO:
		bucket = []string{"MINIO_BUCKET"}
		accessKey = []string{"MINIO_ACCESS_KEY"}
		secret = []string{"MINIO_SECRET_KEY"}
		region = []string{"MINIO_DEFAULT_REGION"}
		endpoint = []string{"MINIO_ENDPOINT"}
	}

	return []setting{
		{"bucket", append([]string{"STORAGE_BUCKET"}, bucket...)},
		{"access_key_id", append([]string{"STORAGE_ACCESS_KEY_ID"}, accessKey...)},
		{"access_key_secret", append([]string{"STORAGE_ACCESS_KEY_SECRET"}, secret...)},
		{"region", append([]string{"STORAGE_REGION"}, region...)},
		{"endpoint", append([]string{"STORAGE_ENDPOINT"}, endpoint...)},
		{"root_path", []string{"STORAGE_ROOT_PATH"}},
		{"hdfs_namenode", []string{"STORAGE_HDFS_NAMENODE"}},
		{"hdfs_user", []string{"STORAGE_HDFS_USER"}},
		{"concurrency", []string{"STORAGE_CONCURRENCY"}},
		{"log_level", []string{"STORAGE_LOG_LEVEL"}},
	}
}

// Load reads envFiles (".env" when none are given) into the environment,
// without overriding variables that are already set, and returns the
// validated configuration. Missing env files are ignored.
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	v.SetDefault("provider", string(DefaultProvider))
	if err := v.BindEnv("provider", "STORAGE_PROVIDER"); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to bind environment")
	}

	provider, err := ParseProvider(v.GetString("provider"))
	if err != nil {
		return nil, err
	}

	v.SetDefault("concurrency", DefaultConcurrency)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("hdfs_namenode", DefaultHDFSNamenode)
	switch provider {
	case ProviderOSS:
		v.SetDefault("endpoint", DefaultOSSEndpoint)
	case ProviderS3:
		v.SetDefault("endpoint", DefaultS3Endpoint)
	case ProviderMinIO:
		v.SetDefault("endpoint", DefaultMinIOEndpoint)
	case ProviderFS:
		v.SetDefault("root_path", DefaultFSRoot)
	}

	for _, s := range envNames(provider) {
		if err := v.BindEnv(append([]string{s.key}, s.envs...)...); err != nil {
			return nil, errors.Wrapf(err, errors.CodeInvalidConfig, "failed to bind %s", s.key)
		}
	}

	cfg := &Config{
		Provider:        provider,
		Bucket:          v.GetString("bucket"),
		AccessKeyID:     v.GetString("access_key_id"),
		AccessKeySecret: v.GetString("access_key_secret"),
		Region:          v.GetString("region"),
		Endpoint:        v.GetString("endpoint"),
		RootPath:        v.GetString("root_path"),
		HDFSNamenode:    v.GetString("hdfs_namenode"),
		HDFSUser:        v.GetString("hdfs_user"),
		Concurrency:     v.GetInt("concurrency"),
		LogLevel:        v.GetString("log_level"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the provider-specific requirements of c.
func (c *Config) Validate() error {
	if _, err := ParseProvider(string(c.Provider)); err != nil {
		return err
	}

	if c.Provider.IsObjectStore() {
		names := envNames(c.Provider)
		required := []struct {
			value string
			envs  []string
		}{
			{c.Bucket, names[0].envs},
			{c.AccessKeyID, names[1].envs},
			{c.AccessKeySecret, names[2].envs},
		}
		for _, r := range required {
			if r.value == "" {
				return invalid(fmt.Sprintf("%s environment variable is required", strings.Join(r.envs, " or ")))
			}
		}
		if c.Endpoint == "" {
			return invalid("STORAGE_ENDPOINT environment variable is required")
		}
	}

	if c.Provider == ProviderHDFS && c.HDFSNamenode == "" {
		return invalid("STORAGE_HDFS_NAMENODE environment variable is required")
	}

	if c.Concurrency < 1 {
		return invalid(fmt.Sprintf("concurrency must be at least 1, got %d", c.Concurrency))
	}
	return nil
}

func invalid(msg string) error {
	return errors.New(errors.CodeInvalidConfig, msg)
}
