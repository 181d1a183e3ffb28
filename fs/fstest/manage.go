package fstest

import (
	"context"
	"testing"

	"github.com/jmgilman/storify/fs/core"
)

// TestManageWithConfig tests Delete and RemoveAll.
func TestManageWithConfig(t *testing.T, op core.Operator, config OperatorTestConfig) {
	ctx := context.Background()

	run(t, config, "Manage", "DeleteFile", func(t *testing.T) {
		writeObject(t, op, "manage/file.txt", []byte("x"))
		if err := op.Delete(ctx, "manage/file.txt"); err != nil {
			t.Fatalf("Delete(manage/file.txt): got error %v", err)
		}
		if _, err := op.Stat(ctx, "manage/file.txt"); !isNotExist(err) {
			t.Errorf("Stat(manage/file.txt) after Delete: got %v, want ErrNotExist", err)
		}
	})

	run(t, config, "Manage", "DeleteMissing", func(t *testing.T) {
		if err := op.Delete(ctx, "manage/never-existed.txt"); err != nil {
			t.Errorf("Delete(manage/never-existed.txt): got error %v, want nil", err)
		}
	})

	run(t, config, "Manage", "DeleteMarker", func(t *testing.T) {
		if err := op.CreateDir(ctx, "manage/marker"); err != nil {
			t.Fatalf("CreateDir(manage/marker): setup failed: %v", err)
		}
		if err := op.Delete(ctx, "manage/marker/"); err != nil {
			t.Fatalf("Delete(manage/marker/): got error %v", err)
		}
		if _, err := op.Stat(ctx, "manage/marker/"); !isNotExist(err) {
			t.Errorf("Stat(manage/marker/) after Delete: got %v, want ErrNotExist", err)
		}
	})

	run(t, config, "Manage", "RemoveAll", func(t *testing.T) {
		writeObject(t, op, "tree/x.txt", []byte("x"))
		writeObject(t, op, "tree/sub/y.txt", []byte("y"))
		writeObject(t, op, "tree-sibling.txt", []byte("keep"))
		if err := op.CreateDir(ctx, "tree/sub"); err != nil {
			t.Fatalf("CreateDir(tree/sub): setup failed: %v", err)
		}

		if err := op.RemoveAll(ctx, "tree"); err != nil {
			t.Fatalf("RemoveAll(tree): got error %v", err)
		}

		keys, err := collect(op, "tree/", core.ListOptions{Recursive: true})
		if err != nil {
			t.Fatalf("List(tree/): got error %v", err)
		}
		if len(keys) != 0 {
			t.Errorf("List(tree/) after RemoveAll = %v, want empty", keys)
		}
		if ok, _ := op.Exists(ctx, "tree-sibling.txt"); !ok {
			t.Errorf("RemoveAll(tree) removed sibling tree-sibling.txt")
		}
	})

	run(t, config, "Manage", "RemoveAllFile", func(t *testing.T) {
		writeObject(t, op, "single.txt", []byte("x"))
		if err := op.RemoveAll(ctx, "single.txt"); err != nil {
			t.Fatalf("RemoveAll(single.txt): got error %v", err)
		}
		if ok, _ := op.Exists(ctx, "single.txt"); ok {
			t.Errorf("single.txt still exists after RemoveAll")
		}
	})

	run(t, config, "Manage", "RemoveAllMissing", func(t *testing.T) {
		if err := op.RemoveAll(ctx, "never/existed"); err != nil {
			t.Errorf("RemoveAll(never/existed): got error %v, want nil", err)
		}
	})
}
