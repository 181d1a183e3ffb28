package fstest

import (
	"bytes"
	"context"
	"testing"

	"github.com/jmgilman/storify/fs/core"
)

// TestWriteWithConfig tests Writer and CreateDir.
func TestWriteWithConfig(t *testing.T, op core.Operator, config OperatorTestConfig) {
	run(t, config, "Write", "WriteAndRead", func(t *testing.T) {
		data := bytes.Repeat([]byte("0123456789"), 1000)
		writeObject(t, op, "write/data.bin", data)

		got, err := readObject(op, "write/data.bin", core.Range{})
		if err != nil {
			t.Fatalf("Read(write/data.bin): got error %v", err)
		}
		if !bytes.Equal(got, data) {
			t.Errorf("Read(write/data.bin) returned %d bytes, want %d", len(got), len(data))
		}
	})

	run(t, config, "Write", "ReplaceExisting", func(t *testing.T) {
		writeObject(t, op, "write/replace.txt", []byte("first version"))
		writeObject(t, op, "write/replace.txt", []byte("second"))

		got, err := readObject(op, "write/replace.txt", core.Range{})
		if err != nil {
			t.Fatalf("Read(write/replace.txt): got error %v", err)
		}
		if string(got) != "second" {
			t.Errorf("Read(write/replace.txt) = %q, want %q", got, "second")
		}
	})

	run(t, config, "Write", "ImplicitParents", func(t *testing.T) {
		writeObject(t, op, "deep/nested/path/file.txt", []byte("x"))
		if ok, err := op.Exists(context.Background(), "deep/nested/path/file.txt"); err != nil || !ok {
			t.Errorf("Exists(deep/nested/path/file.txt) = %v, %v; want true, nil", ok, err)
		}
	})

	run(t, config, "Write", "EmptyObject", func(t *testing.T) {
		writeObject(t, op, "write/empty.txt", nil)
		entry, err := op.Stat(context.Background(), "write/empty.txt")
		if err != nil {
			t.Fatalf("Stat(write/empty.txt): got error %v", err)
		}
		if entry.Size != 0 || entry.IsDir() {
			t.Errorf("Stat(write/empty.txt) = %+v, want empty file", entry)
		}
	})

	run(t, config, "Write", "Abort", func(t *testing.T) {
		w, err := op.Writer(context.Background(), "write/aborted.txt")
		if err != nil {
			t.Fatalf("Writer(write/aborted.txt): got error %v", err)
		}
		if _, err := w.Write([]byte("partial")); err != nil {
			t.Fatalf("Write(): got error %v", err)
		}
		if err := w.Abort(); err != nil {
			t.Errorf("Abort(): got error %v", err)
		}
		if _, err := op.Stat(context.Background(), "write/aborted.txt"); !isNotExist(err) {
			t.Errorf("Stat(write/aborted.txt) after Abort: got %v, want ErrNotExist", err)
		}
	})

	run(t, config, "Write", "CreateDir", func(t *testing.T) {
		ctx := context.Background()
		if err := op.CreateDir(ctx, "made/dir"); err != nil {
			t.Fatalf("CreateDir(made/dir): got error %v", err)
		}
		if err := op.CreateDir(ctx, "made/dir/"); err != nil {
			t.Errorf("CreateDir(made/dir/) on existing directory: got error %v", err)
		}
		entry, err := op.Stat(ctx, "made/dir/")
		if err != nil {
			t.Fatalf("Stat(made/dir/): got error %v", err)
		}
		if !entry.IsDir() {
			t.Errorf("Stat(made/dir/).Mode = %v, want dir", entry.Mode)
		}
	})

	run(t, config, "Write", "CreateRoot", func(t *testing.T) {
		if err := op.CreateDir(context.Background(), ""); err != nil {
			t.Errorf("CreateDir(\"\"): got error %v", err)
		}
	})
}
