package billy

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jmgilman/storify/fs/core"
	"github.com/jmgilman/storify/fs/fstest"
)

// TestMemoryFS_Conformance runs the operator suite against billy memfs.
func TestMemoryFS_Conformance(t *testing.T) {
	fstest.TestSuiteWithConfig(t, func() core.Operator {
		return NewMemory()
	}, fstest.HierarchicalConfig())
}

// TestLocalFS_Conformance runs the operator suite against a temp directory.
func TestLocalFS_Conformance(t *testing.T) {
	fstest.TestSuiteWithConfig(t, func() core.Operator {
		op, err := NewLocal(t.TempDir())
		if err != nil {
			t.Fatalf("NewLocal() error = %v", err)
		}
		return op
	}, fstest.HierarchicalConfig())
}

func TestNewLocal_CreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "storage")
	op, err := NewLocal(root)
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}
	if op.Type() != core.FSTypeLocal {
		t.Errorf("Type() = %v, want local", op.Type())
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		t.Errorf("root %q was not created: %v", root, err)
	}
}

func TestLocalFS_WritesUnderRoot(t *testing.T) {
	root := t.TempDir()
	op, err := NewLocal(root)
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}

	w, err := op.Writer(context.Background(), "a/b.txt")
	if err != nil {
		t.Fatalf("Writer() error = %v", err)
	}
	if _, err := io.WriteString(w, "hello"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, "a", "b.txt"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("file content = %q, want %q", data, "hello")
	}
}

func TestStat_FileWithDirHint(t *testing.T) {
	op := NewMemory()
	w, err := op.Writer(context.Background(), "file.txt")
	if err != nil {
		t.Fatalf("Writer() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if _, err := op.Stat(context.Background(), "file.txt/"); !os.IsNotExist(err) {
		t.Errorf("Stat(file.txt/) error = %v, want not exist", err)
	}
}

func TestWriter_RejectsDirectoryKeys(t *testing.T) {
	op := NewMemory()
	for _, key := range []string{"", "/", "dir/"} {
		if _, err := op.Writer(context.Background(), key); err == nil {
			t.Errorf("Writer(%q) error = nil, want error", key)
		}
	}
}

func TestToKey(t *testing.T) {
	tests := []struct {
		path  string
		isDir bool
		want  string
	}{
		{".", true, ""},
		{"a", false, "a"},
		{"a/b", true, "a/b/"},
		{filepath.Join("a", "b.txt"), false, "a/b.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := toKey(tt.path, tt.isDir); got != tt.want {
				t.Errorf("toKey(%q, %v) = %q, want %q", tt.path, tt.isDir, got, tt.want)
			}
		})
	}
}

func TestToPath(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"", "."},
		{"/", "."},
		{"a/", "a"},
		{"/a/b.txt", filepath.Join("a", "b.txt")},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := toPath(tt.key); got != tt.want {
				t.Errorf("toPath(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestTranslate(t *testing.T) {
	if translate(nil) != nil {
		t.Error("translate(nil) should be nil")
	}
	if translate(os.ErrNotExist) != core.ErrNotExist {
		t.Error("translate(ErrNotExist) should map to core.ErrNotExist")
	}
	if translate(os.ErrPermission) != core.ErrPermission {
		t.Error("translate(ErrPermission) should map to core.ErrPermission")
	}
}

func TestMemoryFS_ConcurrentUse(t *testing.T) {
	op := NewMemory()
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers*2)
	for i := range workers {
		wg.Add(2)
		go func() {
			defer wg.Done()
			key := fmt.Sprintf("dir/%d/sub/file.txt", i)
			w, err := op.Writer(ctx, key)
			if err != nil {
				errs <- err
				return
			}
			if _, err := io.WriteString(w, key); err != nil {
				errs <- err
				return
			}
			if err := w.Close(); err != nil {
				errs <- err
				return
			}
			r, err := op.Read(ctx, key, core.Range{})
			if err != nil {
				errs <- err
				return
			}
			defer r.Close()
			if _, err := io.ReadAll(r); err != nil {
				errs <- err
			}
		}()
		go func() {
			defer wg.Done()
			if err := op.CreateDir(ctx, fmt.Sprintf("markers/%d", i)); err != nil {
				errs <- err
				return
			}
			for _, err := range op.List(ctx, "dir", core.ListOptions{Recursive: true}) {
				if err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent operation error = %v", err)
	}

	count := 0
	for entry, err := range op.List(ctx, "dir", core.ListOptions{Recursive: true}) {
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if !entry.IsDir() {
			count++
		}
	}
	if count != workers {
		t.Errorf("List() found %d files, want %d", count, workers)
	}
}
