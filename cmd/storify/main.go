// Command storify manages files on object stores, HDFS and local disks
// through one HDFS-style interface.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := a.run(ctx, os.Args); err != nil {
		a.printError(err)
		cancel()
		os.Exit(1)
	}
}
