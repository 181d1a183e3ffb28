// Package fstest provides a conformance test suite for core.Operator
// implementations.
//
// Each provider package runs the suite against a fresh operator to verify
// it honors the key conventions described in package core. Backends differ
// in how they model directories; OperatorTestConfig captures those
// documented differences so the same assertions apply everywhere.
//
// Example usage:
//
//	func TestMemoryConformance(t *testing.T) {
//	    fstest.TestSuite(t, func() core.Operator {
//	        return memory.New()
//	    })
//	}
package fstest

import (
	"context"
	"errors"
	"io"
	"slices"
	"testing"

	"github.com/jmgilman/storify/fs/core"
)

// OperatorTestConfig configures the suite to match backend characteristics.
type OperatorTestConfig struct {
	// VirtualDirectories indicates directories exist only as markers or
	// prefixes (object stores). When false, recursive listings must report
	// every intermediate directory.
	VirtualDirectories bool

	// SkipTests lists test names to skip, e.g. "List/Limit".
	SkipTests []string
}

// ObjectStoreConfig returns configuration for flat object stores.
func ObjectStoreConfig() OperatorTestConfig {
	return OperatorTestConfig{VirtualDirectories: true}
}

// HierarchicalConfig returns configuration for real filesystems.
func HierarchicalConfig() OperatorTestConfig {
	return OperatorTestConfig{VirtualDirectories: false}
}

// TestSuite runs the suite using ObjectStoreConfig.
// The newOp function must return a fresh, empty operator on every call.
func TestSuite(t *testing.T, newOp func() core.Operator) {
	TestSuiteWithConfig(t, newOp, ObjectStoreConfig())
}

// TestSuiteWithConfig runs every conformance group with config.
func TestSuiteWithConfig(t *testing.T, newOp func() core.Operator, config OperatorTestConfig) {
	groups := []struct {
		name string
		run  func(*testing.T, core.Operator, OperatorTestConfig)
	}{
		{"Read", TestReadWithConfig},
		{"Write", TestWriteWithConfig},
		{"List", TestListWithConfig},
		{"Manage", TestManageWithConfig},
	}

	for _, g := range groups {
		t.Run(g.name, func(t *testing.T) {
			if shouldSkip(config, g.name) {
				t.Skip("Skipped by provider configuration")
			}
			g.run(t, newOp(), config)
		})
	}
}

func shouldSkip(config OperatorTestConfig, name string) bool {
	return slices.Contains(config.SkipTests, name)
}

// run executes a named subtest unless the configuration skips it.
func run(t *testing.T, config OperatorTestConfig, group, name string, fn func(t *testing.T)) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if shouldSkip(config, group+"/"+name) {
			t.Skip("Skipped by provider configuration")
		}
		fn(t)
	})
}

// writeObject writes data to key, failing the test on error.
func writeObject(t *testing.T, op core.Operator, key string, data []byte) {
	t.Helper()
	w, err := op.Writer(context.Background(), key)
	if err != nil {
		t.Fatalf("Writer(%q): setup failed: %v", key, err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("Write(%q): setup failed: %v", key, err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close(%q): setup failed: %v", key, err)
	}
}

// readObject reads rng of key.
func readObject(op core.Operator, key string, rng core.Range) ([]byte, error) {
	r, err := op.Read(context.Background(), key, rng)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = r.Close()
	}()
	return io.ReadAll(r)
}

// collect drains a listing into a slice of keys.
func collect(op core.Operator, prefix string, opts core.ListOptions) ([]string, error) {
	var keys []string
	for entry, err := range op.List(context.Background(), prefix, opts) {
		if err != nil {
			return keys, err
		}
		keys = append(keys, entry.Key)
	}
	return keys, nil
}

func isNotExist(err error) bool {
	return errors.Is(err, core.ErrNotExist)
}
