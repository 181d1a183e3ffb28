package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/storify/fs/core"
	storerrors "github.com/jmgilman/storify/errors"
)

func TestDelete_PartialFailure(t *testing.T) {
	f := newFixture(t)
	f.put(t, "p1", "one")
	f.put(t, "p3", "three")

	err := f.eng.Delete(context.Background(), []string{"p1", "p2", "p3"}, false)
	require.Error(t, err)
	assert.True(t, IsPartialDeletion(err))
	assert.Equal(t, []string{"p2"}, FailedPaths(err))
	assert.Contains(t, err.Error(), "Partial deletion failure: 1 path(s) failed to delete")
	assert.True(t, IsPathNotFound(err), "cause is chained")

	assert.Empty(t, f.op.Keys())
	assert.Equal(t, "Deleted: p1\nDeleted: p3\n", f.out.String())
}

func TestDelete_DirectoryRequiresRecursive(t *testing.T) {
	f := newFixture(t)
	f.put(t, "first.txt", "x")
	f.put(t, "dir/child.txt", "y")

	err := f.eng.Delete(context.Background(), []string{"first.txt", "dir", "missing"}, false)
	require.Error(t, err)
	assert.True(t, IsNotRecursive(err))
	assert.False(t, IsPartialDeletion(err), "usage errors are not aggregated")
	assert.Contains(t, err.Error(), "Cannot delete directory without -R flag: dir")
	assert.Equal(t, "delete", storerrors.GetContext(err, "op"))

	// Paths before the directory were already processed.
	assert.Equal(t, []string{"dir/child.txt"}, f.op.Keys())
}

func TestDelete_Recursive(t *testing.T) {
	f := newFixture(t)
	f.mkdir(t, "dir")
	f.put(t, "dir/a.txt", "a")
	f.put(t, "dir/sub/b.txt", "b")
	f.put(t, "dir-sibling.txt", "keep")

	require.NoError(t, f.eng.Delete(context.Background(), []string{"dir/"}, true))
	assert.Equal(t, []string{"dir-sibling.txt"}, f.op.Keys())
}

func TestDelete_FileKeepsSameNamedDirectory(t *testing.T) {
	f := newFixture(t)
	f.put(t, "name", "file")
	f.put(t, "name/child.txt", "child")

	require.NoError(t, f.eng.Delete(context.Background(), []string{"name"}, true))
	assert.Equal(t, []string{"name/child.txt"}, f.op.Keys())
}

// brokenRemoveOp fails RemoveAll and Delete for one key.
type brokenRemoveOp struct {
	core.Operator
	key string
}

func (o *brokenRemoveOp) Delete(ctx context.Context, key string) error {
	if key == o.key {
		return errors.New("access denied")
	}
	return o.Operator.Delete(ctx, key)
}

func (o *brokenRemoveOp) RemoveAll(ctx context.Context, key string) error {
	if key == o.key {
		return errors.New("access denied")
	}
	return o.Operator.RemoveAll(ctx, key)
}

func TestDelete_RemovalFailureContinues(t *testing.T) {
	f := newFixture(t)
	f.put(t, "locked.txt", "x")
	f.put(t, "free.txt", "y")

	eng := New(&brokenRemoveOp{Operator: f.op, key: "locked.txt"}, WithOutput(f.out), WithLogger(f.eng.logger))

	err := eng.Delete(context.Background(), []string{"locked.txt", "free.txt"}, false)
	require.Error(t, err)
	assert.True(t, IsPartialDeletion(err))
	assert.Equal(t, []string{"locked.txt"}, FailedPaths(err))
	assert.Contains(t, err.Error(), "access denied")
	assert.Equal(t, []string{"locked.txt"}, f.op.Keys())
}

func TestDelete_AllSucceed(t *testing.T) {
	f := newFixture(t)
	f.put(t, "a", "1")
	f.put(t, "b", "2")

	require.NoError(t, f.eng.Delete(context.Background(), []string{"a", "b"}, false))
	assert.Empty(t, f.op.Keys())
	assert.Nil(t, FailedPaths(nil))
}
