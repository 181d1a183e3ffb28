package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/storify/errors"
	fsbilly "github.com/jmgilman/storify/fs/billy"
	"github.com/jmgilman/storify/fs/core"
	"github.com/jmgilman/storify/fs/memory"
	"github.com/jmgilman/storify/fs/minio"
)

var storageVars = []string{
	"STORAGE_PROVIDER", "STORAGE_BUCKET", "STORAGE_ACCESS_KEY_ID", "STORAGE_ACCESS_KEY_SECRET",
	"STORAGE_REGION", "STORAGE_ENDPOINT", "STORAGE_ROOT_PATH", "STORAGE_HDFS_NAMENODE",
	"STORAGE_HDFS_USER", "STORAGE_CONCURRENCY", "STORAGE_LOG_LEVEL",
	"OSS_BUCKET", "OSS_ACCESS_KEY_ID", "OSS_ACCESS_KEY_SECRET", "OSS_REGION", "OSS_ENDPOINT",
	"AWS_S3_BUCKET", "AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "AWS_DEFAULT_REGION",
	"MINIO_BUCKET", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY", "MINIO_DEFAULT_REGION", "MINIO_ENDPOINT",
}

// clearEnv unsets every variable Load reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range storageVars {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

// noEnvFile points Load at a file that does not exist so a stray .env in
// the package directory cannot leak into tests.
func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestParseProvider(t *testing.T) {
	tests := []struct {
		in      string
		want    Provider
		wantErr bool
	}{
		{"oss", ProviderOSS, false},
		{"S3", ProviderS3, false},
		{" minio ", ProviderMinIO, false},
		{"fs", ProviderFS, false},
		{"hdfs", ProviderHDFS, false},
		{"memory", ProviderMemory, false},
		{"gcs", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseProvider(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.CodeInvalidConfig))
				assert.Contains(t, err.Error(), "Unsupported storage provider")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_BUCKET", "bucket")
	t.Setenv("STORAGE_ACCESS_KEY_ID", "id")
	t.Setenv("STORAGE_ACCESS_KEY_SECRET", "secret")

	cfg, err := Load(noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, ProviderOSS, cfg.Provider)
	assert.Equal(t, DefaultOSSEndpoint, cfg.Endpoint)
	assert.Equal(t, DefaultConcurrency, cfg.Concurrency)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultHDFSNamenode, cfg.HDFSNamenode)
	assert.Empty(t, cfg.RootPath)
}

func TestLoad_ProviderFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		want     Config
		provider Provider
	}{
		{
			name: "oss",
			env: map[string]string{
				"OSS_BUCKET": "ob", "OSS_ACCESS_KEY_ID": "oid", "OSS_ACCESS_KEY_SECRET": "osecret",
				"OSS_REGION": "cn-hangzhou", "OSS_ENDPOINT": "https://oss.example.com",
			},
			provider: ProviderOSS,
			want: Config{
				Bucket: "ob", AccessKeyID: "oid", AccessKeySecret: "osecret",
				Region: "cn-hangzhou", Endpoint: "https://oss.example.com",
			},
		},
		{
			name: "s3",
			env: map[string]string{
				"STORAGE_PROVIDER": "s3", "AWS_S3_BUCKET": "sb", "AWS_ACCESS_KEY_ID": "sid",
				"AWS_SECRET_ACCESS_KEY": "ssecret", "AWS_DEFAULT_REGION": "us-east-1",
			},
			provider: ProviderS3,
			want: Config{
				Bucket: "sb", AccessKeyID: "sid", AccessKeySecret: "ssecret",
				Region: "us-east-1", Endpoint: DefaultS3Endpoint,
			},
		},
		{
			name: "minio",
			env: map[string]string{
				"STORAGE_PROVIDER": "minio", "MINIO_BUCKET": "mb", "MINIO_ACCESS_KEY": "mid",
				"MINIO_SECRET_KEY": "msecret", "STORAGE_ROOT_PATH": "team",
			},
			provider: ProviderMinIO,
			want: Config{
				Bucket: "mb", AccessKeyID: "mid", AccessKeySecret: "msecret",
				Endpoint: DefaultMinIOEndpoint, RootPath: "team",
			},
		},
		{
			name: "storage variables win",
			env: map[string]string{
				"STORAGE_PROVIDER": "minio", "STORAGE_BUCKET": "primary", "MINIO_BUCKET": "fallback",
				"STORAGE_ACCESS_KEY_ID": "id", "STORAGE_ACCESS_KEY_SECRET": "secret",
				"STORAGE_ENDPOINT": "http://minio:9000", "MINIO_ENDPOINT": "http://other:9000",
			},
			provider: ProviderMinIO,
			want: Config{
				Bucket: "primary", AccessKeyID: "id", AccessKeySecret: "secret",
				Endpoint: "http://minio:9000",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load(noEnvFile(t))
			require.NoError(t, err)

			want := tt.want
			want.Provider = tt.provider
			want.HDFSNamenode = DefaultHDFSNamenode
			want.Concurrency = DefaultConcurrency
			want.LogLevel = DefaultLogLevel
			assert.Equal(t, &want, cfg)
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_CONCURRENCY", "4")

	path := filepath.Join(t.TempDir(), ".env")
	content := "STORAGE_PROVIDER=fs\nSTORAGE_ROOT_PATH=/srv/data\nSTORAGE_CONCURRENCY=99\nSTORAGE_LOG_LEVEL=debug\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ProviderFS, cfg.Provider)
	assert.Equal(t, "/srv/data", cfg.RootPath)
	assert.Equal(t, 4, cfg.Concurrency, "existing environment is not overridden")
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_FSDefaultRoot(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_PROVIDER", "fs")

	cfg, err := Load(noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, DefaultFSRoot, cfg.RootPath)
}

func TestLoad_MissingCredentials(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		msg  string
	}{
		{
			name: "oss bucket",
			env:  map[string]string{},
			msg:  "STORAGE_BUCKET or OSS_BUCKET environment variable is required",
		},
		{
			name: "s3 access key",
			env:  map[string]string{"STORAGE_PROVIDER": "s3", "STORAGE_BUCKET": "b"},
			msg:  "STORAGE_ACCESS_KEY_ID or AWS_ACCESS_KEY_ID environment variable is required",
		},
		{
			name: "minio secret",
			env:  map[string]string{"STORAGE_PROVIDER": "minio", "STORAGE_BUCKET": "b", "MINIO_ACCESS_KEY": "k"},
			msg:  "STORAGE_ACCESS_KEY_SECRET or MINIO_SECRET_KEY environment variable is required",
		},
		{
			name: "unknown provider",
			env:  map[string]string{"STORAGE_PROVIDER": "ftp"},
			msg:  "Unsupported storage provider: ftp",
		},
		{
			name: "bad concurrency",
			env:  map[string]string{"STORAGE_PROVIDER": "memory", "STORAGE_CONCURRENCY": "0"},
			msg:  "concurrency must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(noEnvFile(t))
			require.Error(t, err)
			assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestValidate_HDFS(t *testing.T) {
	cfg := &Config{Provider: ProviderHDFS, Concurrency: 1}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_HDFS_NAMENODE")

	cfg.HDFSNamenode = "nn:8020"
	assert.NoError(t, cfg.Validate())
}

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		endpoint string
		host     string
		secure   bool
		wantErr  bool
	}{
		{"https://oss-cn-hangzhou.aliyuncs.com", "oss-cn-hangzhou.aliyuncs.com", true, false},
		{"http://localhost:9000", "localhost:9000", false, false},
		{"HTTP://minio:9000/", "minio:9000", false, false},
		{"s3.amazonaws.com", "s3.amazonaws.com", true, false},
		{"ftp://example.com", "", false, true},
		{"http://", "", false, true},
		{"", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			host, secure, err := ParseEndpoint(tt.endpoint)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.CodeInvalidConfig))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.host, host)
			assert.Equal(t, tt.secure, secure)
		})
	}
}

func TestNewOperator(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		op, err := NewOperator(&Config{Provider: ProviderMemory, Concurrency: 1})
		require.NoError(t, err)
		assert.IsType(t, &memory.MemoryFS{}, op)
		assert.Equal(t, core.FSTypeMemory, op.Type())
	})

	t.Run("fs", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "storage")
		op, err := NewOperator(&Config{Provider: ProviderFS, RootPath: root, Concurrency: 1})
		require.NoError(t, err)
		assert.IsType(t, &fsbilly.BillyFS{}, op)

		info, err := os.Stat(root)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("minio", func(t *testing.T) {
		op, err := NewOperator(&Config{
			Provider:        ProviderMinIO,
			Bucket:          "bucket",
			AccessKeyID:     "id",
			AccessKeySecret: "secret",
			Endpoint:        "http://localhost:9000",
			Concurrency:     1,
		})
		require.NoError(t, err)
		assert.IsType(t, &minio.MinioFS{}, op)
		_, closer := op.(io.Closer)
		assert.False(t, closer)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := NewOperator(&Config{Provider: ProviderS3, Concurrency: 1})
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.CodeInvalidConfig))
	})
}
