// Package core defines the Storage Operator contract shared by every
// storify backend.
//
// An Operator exposes a flat, "/"-delimited key namespace. Directories are
// a convention over that namespace: a key ending in "/" is a directory
// marker, and a prefix with descendants is a virtual directory even when no
// marker exists. Hierarchical backends (local disk, HDFS) satisfy the same
// contract by reporting real directories with a trailing "/".
//
// # Key conventions
//
//   - Keys are relative to the operator root and never start with "/".
//   - The empty key is the root and always exists.
//   - Entry.Key carries a trailing "/" for directories.
//
// # Listing
//
// List returns a lazy, non-restartable sequence:
//
//	for entry, err := range op.List(ctx, "logs/", core.ListOptions{Recursive: true}) {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(entry.Key)
//	}
//
// A missing prefix yields an empty sequence rather than an error.
//
// # Provider implementations
//
//   - github.com/jmgilman/storify/fs/memory - in-memory flat keys
//   - github.com/jmgilman/storify/fs/minio - S3, MinIO and OSS
//   - github.com/jmgilman/storify/fs/billy - local disk via go-billy
//   - github.com/jmgilman/storify/fs/hdfs - HDFS
package core
