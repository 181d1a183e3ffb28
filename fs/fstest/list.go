package fstest

import (
	"context"
	"slices"
	"testing"

	"github.com/jmgilman/storify/fs/core"
)

// TestListWithConfig tests List in both modes.
func TestListWithConfig(t *testing.T, op core.Operator, config OperatorTestConfig) {
	writeObject(t, op, "list/a.txt", []byte("a"))
	writeObject(t, op, "list/b.txt", []byte("bb"))
	writeObject(t, op, "list/sub/c.txt", []byte("ccc"))
	writeObject(t, op, "listing-sibling.txt", []byte("s"))
	if err := op.CreateDir(context.Background(), "list"); err != nil {
		t.Fatalf("CreateDir(list): setup failed: %v", err)
	}

	run(t, config, "List", "NonRecursive", func(t *testing.T) {
		keys, err := collect(op, "list", core.ListOptions{})
		if err != nil {
			t.Fatalf("List(list): got error %v", err)
		}
		slices.Sort(keys)
		want := []string{"list/a.txt", "list/b.txt", "list/sub/"}
		if !slices.Equal(keys, want) {
			t.Errorf("List(list) = %v, want %v", keys, want)
		}
	})

	run(t, config, "List", "Recursive", func(t *testing.T) {
		var files, dirs []string
		for entry, err := range op.List(context.Background(), "list/", core.ListOptions{Recursive: true}) {
			if err != nil {
				t.Fatalf("List(list/, recursive): got error %v", err)
			}
			if entry.IsDir() {
				dirs = append(dirs, entry.Key)
			} else {
				files = append(files, entry.Key)
			}
		}
		slices.Sort(files)
		want := []string{"list/a.txt", "list/b.txt", "list/sub/c.txt"}
		if !slices.Equal(files, want) {
			t.Errorf("List(list/, recursive) files = %v, want %v", files, want)
		}
		if slices.Contains(dirs, "list/") {
			t.Errorf("List(list/, recursive) yielded its own prefix")
		}
		if !config.VirtualDirectories && !slices.Contains(dirs, "list/sub/") {
			t.Errorf("List(list/, recursive) dirs = %v, want list/sub/", dirs)
		}
	})

	run(t, config, "List", "EntryMetadata", func(t *testing.T) {
		for entry, err := range op.List(context.Background(), "list", core.ListOptions{}) {
			if err != nil {
				t.Fatalf("List(list): got error %v", err)
			}
			if entry.Key == "list/b.txt" && (entry.Size != 2 || entry.Mode != core.ModeFile) {
				t.Errorf("entry list/b.txt = %+v, want file of size 2", entry)
			}
			if entry.Key == "list/sub/" && entry.Mode != core.ModeDir {
				t.Errorf("entry list/sub/ = %+v, want dir", entry)
			}
		}
	})

	run(t, config, "List", "MissingPrefix", func(t *testing.T) {
		keys, err := collect(op, "no-such-prefix/", core.ListOptions{Recursive: true})
		if err != nil {
			t.Errorf("List(no-such-prefix/): got error %v, want empty sequence", err)
		}
		if len(keys) != 0 {
			t.Errorf("List(no-such-prefix/) = %v, want empty", keys)
		}
	})

	run(t, config, "List", "Limit", func(t *testing.T) {
		keys, err := collect(op, "list/", core.ListOptions{Recursive: true, Limit: 1})
		if err != nil {
			t.Fatalf("List(list/, limit 1): got error %v", err)
		}
		if len(keys) != 1 {
			t.Errorf("List(list/, limit 1) returned %d entries, want 1", len(keys))
		}
	})

	run(t, config, "List", "EarlyBreak", func(t *testing.T) {
		count := 0
		for _, err := range op.List(context.Background(), "list/", core.ListOptions{Recursive: true}) {
			if err != nil {
				t.Fatalf("List(list/): got error %v", err)
			}
			count++
			break
		}
		if count != 1 {
			t.Errorf("range over List stopped after %d entries, want 1", count)
		}
	})
}
