package engine

import (
	"context"

	"github.com/jmgilman/storify/fs/pathutil"
)

// Usage is the result of DiskUsage.
type Usage struct {
	// Bytes is the total size of every file under the path.
	Bytes int64

	// Files counts files only; directories add to neither field.
	Files int64
}

// DiskUsage folds over the recursive listing of path. Unless summaryOnly
// is set every entry is printed as "<size> <key>", with "-" in place of
// the size of a directory. In summary mode only the total and the file
// count are printed.
//
// A path naming a single file reports that file.
func (e *Engine) DiskUsage(ctx context.Context, path string, summaryOnly bool) (Usage, error) {
	var usage Usage

	k, entry, err := resolve(ctx, e.op, path)
	if err != nil {
		return usage, err
	}

	if k == kindFile {
		usage.Bytes = entry.Size
		usage.Files = 1
		if !summaryOnly {
			e.printf("%s %s", FormatSize(entry.Size), entry.Key)
		}
	} else {
		for entry, err := range walk(ctx, e.op, pathutil.DirKey(path)) {
			if err != nil {
				return usage, err
			}
			if !summaryOnly {
				if entry.IsDir() {
					e.printf("- %s", entry.Key)
				} else {
					e.printf("%s %s", FormatSize(entry.Size), entry.Key)
				}
			}
			if entry.IsDir() {
				continue
			}
			usage.Bytes += entry.Size
			usage.Files++
		}
	}

	if summaryOnly {
		e.printf("%s %s", FormatSize(usage.Bytes), path)
		e.printf("Total files: %d", usage.Files)
	}
	return usage, nil
}
