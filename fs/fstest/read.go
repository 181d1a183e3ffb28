package fstest

import (
	"bytes"
	"context"
	"testing"

	"github.com/jmgilman/storify/fs/core"
)

// TestReadWithConfig tests Stat, Read and Exists.
func TestReadWithConfig(t *testing.T, op core.Operator, config OperatorTestConfig) {
	content := []byte("conformance content")
	writeObject(t, op, "testdir/testfile.txt", content)
	if err := op.CreateDir(context.Background(), "markerdir"); err != nil {
		t.Fatalf("CreateDir(markerdir): setup failed: %v", err)
	}

	run(t, config, "Read", "StatFile", func(t *testing.T) {
		entry, err := op.Stat(context.Background(), "testdir/testfile.txt")
		if err != nil {
			t.Fatalf("Stat(testdir/testfile.txt): got error %v", err)
		}
		if entry.Key != "testdir/testfile.txt" {
			t.Errorf("Stat().Key = %q, want %q", entry.Key, "testdir/testfile.txt")
		}
		if entry.Mode != core.ModeFile {
			t.Errorf("Stat().Mode = %v, want file", entry.Mode)
		}
		if entry.Size != int64(len(content)) {
			t.Errorf("Stat().Size = %d, want %d", entry.Size, len(content))
		}
	})

	run(t, config, "Read", "StatDirMarker", func(t *testing.T) {
		entry, err := op.Stat(context.Background(), "markerdir/")
		if err != nil {
			t.Fatalf("Stat(markerdir/): got error %v", err)
		}
		if !entry.IsDir() {
			t.Errorf("Stat(markerdir/).Mode = %v, want dir", entry.Mode)
		}
		if entry.Key != "markerdir/" {
			t.Errorf("Stat(markerdir/).Key = %q, want %q", entry.Key, "markerdir/")
		}
	})

	run(t, config, "Read", "StatRoot", func(t *testing.T) {
		entry, err := op.Stat(context.Background(), "")
		if err != nil {
			t.Fatalf("Stat(\"\"): got error %v", err)
		}
		if !entry.IsDir() {
			t.Errorf("Stat(\"\").Mode = %v, want dir", entry.Mode)
		}
	})

	run(t, config, "Read", "StatNotExist", func(t *testing.T) {
		_, err := op.Stat(context.Background(), "does-not-exist.txt")
		if !isNotExist(err) {
			t.Errorf("Stat(does-not-exist.txt): got %v, want ErrNotExist", err)
		}
	})

	run(t, config, "Read", "ReadAll", func(t *testing.T) {
		got, err := readObject(op, "testdir/testfile.txt", core.Range{})
		if err != nil {
			t.Fatalf("Read(): got error %v", err)
		}
		if !bytes.Equal(got, content) {
			t.Errorf("Read() = %q, want %q", got, content)
		}
	})

	run(t, config, "Read", "ReadRange", func(t *testing.T) {
		got, err := readObject(op, "testdir/testfile.txt", core.Range{Offset: 12, Length: 4})
		if err != nil {
			t.Fatalf("Read(range): got error %v", err)
		}
		if want := content[12:16]; !bytes.Equal(got, want) {
			t.Errorf("Read(range) = %q, want %q", got, want)
		}
	})

	run(t, config, "Read", "ReadOffset", func(t *testing.T) {
		got, err := readObject(op, "testdir/testfile.txt", core.Range{Offset: 12})
		if err != nil {
			t.Fatalf("Read(offset): got error %v", err)
		}
		if want := content[12:]; !bytes.Equal(got, want) {
			t.Errorf("Read(offset) = %q, want %q", got, want)
		}
	})

	run(t, config, "Read", "ReadNotExist", func(t *testing.T) {
		_, err := readObject(op, "does-not-exist.txt", core.Range{})
		if !isNotExist(err) {
			t.Errorf("Read(does-not-exist.txt): got %v, want ErrNotExist", err)
		}
	})

	run(t, config, "Read", "Exists", func(t *testing.T) {
		tests := []struct {
			key  string
			want bool
		}{
			{"testdir/testfile.txt", true},
			{"markerdir/", true},
			{"", true},
			{"does-not-exist.txt", false},
		}
		for _, tt := range tests {
			got, err := op.Exists(context.Background(), tt.key)
			if err != nil {
				t.Errorf("Exists(%q): got error %v", tt.key, err)
				continue
			}
			if got != tt.want {
				t.Errorf("Exists(%q) = %v, want %v", tt.key, got, tt.want)
			}
		}
	})
}
