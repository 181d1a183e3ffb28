// Package billy provides a core.Operator backed by a go-billy filesystem.
//
// It serves the "fs" storage provider: keys map onto paths below a root
// directory and directory markers are real directories. The same adapter
// wraps billy's in-memory filesystem, which makes it a convenient stand-in
// for local disk in tests.
//
//	op, err := billy.NewLocal("./storage")
//	if err != nil {
//	    return err
//	}
//	w, err := op.Writer(ctx, "reports/2024.csv")
package billy
