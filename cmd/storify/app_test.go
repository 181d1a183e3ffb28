package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/storify/config"
	"github.com/jmgilman/storify/errors"
	"github.com/jmgilman/storify/fs/core"
	"github.com/jmgilman/storify/fs/memory"
	"github.com/jmgilman/storify/internal/prompt"
)

type harness struct {
	op     *memory.MemoryFS
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	app    *app
}

func newHarness(t *testing.T, stdin string) *harness {
	t.Helper()

	h := &harness{
		op:     memory.New(),
		stdout: new(bytes.Buffer),
		stderr: new(bytes.Buffer),
	}
	h.app = newApp(strings.NewReader(stdin), h.stdout, h.stderr)
	h.app.loadConfig = func() (*config.Config, error) {
		return &config.Config{Provider: config.ProviderMemory, Concurrency: 2, LogLevel: "error"}, nil
	}
	h.app.newOperator = func(*config.Config) (core.Operator, error) { return h.op, nil }
	return h
}

func (h *harness) run(args ...string) error {
	return h.app.run(context.Background(), append([]string{"storify"}, args...))
}

func (h *harness) put(t *testing.T, key, data string) {
	t.Helper()
	w, err := h.op.Writer(context.Background(), key)
	require.NoError(t, err)
	_, err = w.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func TestMkdirAndList(t *testing.T) {
	h := newHarness(t, "")

	require.NoError(t, h.run("mkdir", "-p", "a/b/c"))
	assert.Equal(t, []string{"a/", "a/b/", "a/b/c/"}, h.op.Keys())

	h.stdout.Reset()
	require.NoError(t, h.run("ls", "-R", "a"))
	assert.Equal(t, "a/b/\na/b/c/\n", h.stdout.String())
}

func TestCopyMoveCat(t *testing.T) {
	h := newHarness(t, "")
	h.put(t, "src.txt", "0123456789")

	require.NoError(t, h.run("cp", "src.txt", "copy.txt"))
	require.NoError(t, h.run("mv", "copy.txt", "moved.txt"))
	assert.Equal(t, []string{"moved.txt", "src.txt"}, h.op.Keys())

	h.stdout.Reset()
	require.NoError(t, h.run("cat", "--offset", "3", "--length", "4", "moved.txt"))
	assert.Equal(t, "3456", h.stdout.String())
}

func TestCat_LargeFileNonInteractive(t *testing.T) {
	h := newHarness(t, "y\n")
	h.put(t, "big.bin", strings.Repeat("x", 2*1024*1024))

	require.NoError(t, h.run("cat", "--size-limit", "1", "big.bin"))
	assert.Zero(t, h.stdout.Len())
	assert.Contains(t, h.stderr.String(), "File is large (2 MB). Skipping display in non-interactive mode.")

	require.NoError(t, h.run("cat", "-f", "--size-limit", "1", "big.bin"))
	assert.Equal(t, 2*1024*1024, h.stdout.Len())
}

func TestRm(t *testing.T) {
	t.Run("cancelled without terminal", func(t *testing.T) {
		h := newHarness(t, "y\n")
		h.put(t, "a.txt", "a")

		require.NoError(t, h.run("rm", "a.txt"))
		assert.Contains(t, h.stdout.String(), "Operation cancelled.")
		assert.Equal(t, []string{"a.txt"}, h.op.Keys())
	})

	t.Run("confirmed", func(t *testing.T) {
		h := newHarness(t, "")
		h.app.deletePrompt = prompt.NewInteractive(strings.NewReader("yes\n"), h.stdout)
		h.put(t, "a.txt", "a")

		require.NoError(t, h.run("rm", "a.txt"))
		assert.Contains(t, h.stdout.String(), "Continue? (y/N): ")
		assert.Contains(t, h.stdout.String(), "Deleted: a.txt")
		assert.Empty(t, h.op.Keys())
	})

	t.Run("forced recursive", func(t *testing.T) {
		h := newHarness(t, "")
		h.put(t, "dir/a.txt", "a")
		h.put(t, "dir/b.txt", "b")

		require.NoError(t, h.run("rm", "-R", "-f", "dir"))
		assert.NotContains(t, h.stdout.String(), "Continue?")
		assert.Empty(t, h.op.Keys())
	})

	t.Run("partial failure", func(t *testing.T) {
		h := newHarness(t, "")
		h.put(t, "a.txt", "a")

		err := h.run("rm", "-f", "a.txt", "missing.txt")
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.CodePartialFailure))
		assert.Empty(t, h.op.Keys())
	})
}

func TestPutGetDu(t *testing.T) {
	h := newHarness(t, "")
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.txt"), []byte("aaa"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "nested", "b.txt"), []byte("bbbbb"), 0o644))

	require.NoError(t, h.run("put", "-R", src, "remote"))
	assert.Equal(t, []string{"remote/", "remote/a.txt", "remote/nested/", "remote/nested/b.txt"}, h.op.Keys())

	h.stdout.Reset()
	require.NoError(t, h.run("du", "-s", "remote"))
	assert.Equal(t, "8B remote\nTotal files: 2\n", h.stdout.String())

	dst := filepath.Join(dir, "dst")
	require.NoError(t, h.run("get", "remote", dst))
	data, err := os.ReadFile(filepath.Join(dst, "nested", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "bbbbb", string(data))
}

func TestStat(t *testing.T) {
	h := newHarness(t, "")
	h.put(t, "a.txt", "hello")

	require.NoError(t, h.run("stat", "--json", "a.txt"))
	var meta map[string]any
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &meta))
	assert.Equal(t, "a.txt", meta["path"])
	assert.Equal(t, "file", meta["entry_type"])
	assert.EqualValues(t, 5, meta["size"])

	err := h.run("stat", "--raw", "--json", "a.txt")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidInput))
}

func TestArguments(t *testing.T) {
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"empty path", []string{"ls", ""}, "Path cannot be empty or just whitespace"},
		{"whitespace path", []string{"get", "remote", "   "}, "Path cannot be empty or just whitespace"},
		{"missing argument", []string{"cp", "only-one"}, "cp expects SRC DEST"},
		{"no paths", []string{"rm", "-f"}, "rm requires at least one path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, "")
			h.put(t, "keep.txt", "x")

			err := h.run(tt.args...)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.CodeInvalidInput))
			assert.Contains(t, err.Error(), tt.msg)
			assert.Equal(t, []string{"keep.txt"}, h.op.Keys())
		})
	}
}

func TestConfigErrorsStopEarly(t *testing.T) {
	h := newHarness(t, "")
	h.app.loadConfig = func() (*config.Config, error) {
		return nil, errors.New(errors.CodeInvalidConfig, "STORAGE_BUCKET or OSS_BUCKET environment variable is required")
	}

	err := h.run("ls", "/")
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))
}

func TestPrintError(t *testing.T) {
	color.NoColor = true

	cause := errors.Wrap(io.ErrUnexpectedEOF, errors.CodeStorage, "failed to read a.txt")
	err := errors.Wrap(cause, errors.CodeTransferFailed, "failed to transfer a.txt to b.txt")

	t.Run("human", func(t *testing.T) {
		var stderr bytes.Buffer
		a := newApp(strings.NewReader(""), io.Discard, &stderr)
		a.printError(err)
		assert.Equal(t, "Error: failed to transfer a.txt to b.txt: failed to read a.txt: unexpected EOF\n", stderr.String())
	})

	t.Run("json", func(t *testing.T) {
		var stderr bytes.Buffer
		a := newApp(strings.NewReader(""), io.Discard, &stderr)
		a.jsonErrors = true
		a.printError(err)

		var resp errors.ErrorResponse
		require.NoError(t, json.Unmarshal(stderr.Bytes(), &resp))
		assert.Equal(t, string(errors.CodeTransferFailed), resp.Code)
		assert.Equal(t, "failed to transfer a.txt to b.txt", resp.Message)
	})
}

func TestDescribe_JoinedCauses(t *testing.T) {
	joined := errors.Join(
		errors.New(errors.CodeNotFound, "Path not found: a"),
		errors.New(errors.CodeNotFound, "Path not found: b"),
	)
	err := errors.Wrap(joined, errors.CodePartialFailure, "Partial deletion failure: 2 path(s) failed to delete")

	assert.Equal(t,
		"Partial deletion failure: 2 path(s) failed to delete: Path not found: a; Path not found: b",
		describe(err))
}
