package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/jmgilman/storify/engine"
	"github.com/jmgilman/storify/errors"
)

func (a *app) commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:      "ls",
			Usage:     "List directory contents (like hdfs dfs -ls)",
			ArgsUsage: "PATH",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "long", Aliases: []string{"L"}, Usage: "show type, size and modification time"},
				&cli.BoolFlag{Name: "recursive", Aliases: []string{"R"}, Usage: "list every descendant"},
			},
			Action: a.list,
		},
		{
			Name:      "get",
			Usage:     "Download files from remote to local (like hdfs dfs -get)",
			ArgsUsage: "REMOTE LOCAL",
			Action:    a.get,
		},
		{
			Name:      "put",
			Usage:     "Upload files from local to remote (like hdfs dfs -put)",
			ArgsUsage: "LOCAL REMOTE",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "recursive", Aliases: []string{"R"}, Usage: "upload directories"},
			},
			Action: a.put,
		},
		{
			Name:      "du",
			Usage:     "Show disk usage statistics (like hdfs dfs -du)",
			ArgsUsage: "PATH",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "summary", Aliases: []string{"s"}, Usage: "show the total only"},
			},
			Action: a.du,
		},
		{
			Name:      "rm",
			Usage:     "Remove files or directories (like hdfs dfs -rm)",
			ArgsUsage: "PATH...",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "recursive", Aliases: []string{"R"}, Usage: "remove directories and their contents"},
				&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "do not ask for confirmation"},
			},
			Action: a.rm,
		},
		{
			Name:      "cp",
			Usage:     "Copy a file or directory within remote storage",
			ArgsUsage: "SRC DEST",
			Action:    a.cp,
		},
		{
			Name:      "mv",
			Usage:     "Move a file or directory within remote storage",
			ArgsUsage: "SRC DEST",
			Action:    a.mv,
		},
		{
			Name:      "cat",
			Usage:     "Print the content of a file",
			ArgsUsage: "PATH",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "print large files without asking"},
				&cli.Int64Flag{Name: "size-limit", Value: engine.DefaultCatSizeLimitMB, Usage: "ask before printing files above this size in MB"},
				&cli.Int64Flag{Name: "offset", Usage: "first byte to print"},
				&cli.Int64Flag{Name: "length", Usage: "number of bytes to print, 0 for all"},
			},
			Action: a.cat,
		},
		{
			Name:      "stat",
			Usage:     "Show metadata for a file or directory",
			ArgsUsage: "PATH",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "raw", Usage: "print key=value pairs on one line"},
				&cli.BoolFlag{Name: "json", Usage: "print a JSON object"},
			},
			Action: a.stat,
		},
		{
			Name:      "mkdir",
			Usage:     "Create a directory",
			ArgsUsage: "PATH",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "parents", Aliases: []string{"p"}, Usage: "create missing parent directories"},
			},
			Action: a.mkdir,
		},
	}
}

// paths returns the positional arguments of c after checking their count
// and rejecting empty values. A negative want accepts one or more.
func paths(c *cli.Context, want int) ([]string, error) {
	args := c.Args().Slice()
	switch {
	case want < 0 && len(args) == 0:
		return nil, errors.Newf(errors.CodeInvalidInput, "%s requires at least one path", c.Command.Name)
	case want >= 0 && len(args) != want:
		return nil, errors.Newf(errors.CodeInvalidInput, "%s expects %s", c.Command.Name, c.Command.ArgsUsage)
	}

	for _, arg := range args {
		if strings.TrimSpace(arg) == "" {
			return nil, errors.New(errors.CodeInvalidInput, "Path cannot be empty or just whitespace")
		}
	}
	return args, nil
}

func (a *app) list(c *cli.Context) error {
	args, err := paths(c, 1)
	if err != nil {
		return err
	}
	return a.eng.List(c.Context, args[0], engine.ListOptions{
		Long:      c.Bool("long"),
		Recursive: c.Bool("recursive"),
	})
}

func (a *app) get(c *cli.Context) error {
	args, err := paths(c, 2)
	if err != nil {
		return err
	}
	return a.eng.Download(c.Context, args[0], args[1])
}

func (a *app) put(c *cli.Context) error {
	args, err := paths(c, 2)
	if err != nil {
		return err
	}
	return a.eng.Upload(c.Context, args[0], args[1], c.Bool("recursive"))
}

func (a *app) du(c *cli.Context) error {
	args, err := paths(c, 1)
	if err != nil {
		return err
	}
	_, err = a.eng.DiskUsage(c.Context, args[0], c.Bool("summary"))
	return err
}

func (a *app) rm(c *cli.Context) error {
	args, err := paths(c, -1)
	if err != nil {
		return err
	}
	if !c.Bool("force") && !a.deletePrompt.ConfirmDelete(args) {
		fmt.Fprintln(a.stdout, "Operation cancelled.")
		return nil
	}
	return a.eng.Delete(c.Context, args, c.Bool("recursive"))
}

func (a *app) cp(c *cli.Context) error {
	args, err := paths(c, 2)
	if err != nil {
		return err
	}
	return a.eng.Copy(c.Context, args[0], args[1])
}

func (a *app) mv(c *cli.Context) error {
	args, err := paths(c, 2)
	if err != nil {
		return err
	}
	return a.eng.Move(c.Context, args[0], args[1])
}

func (a *app) cat(c *cli.Context) error {
	args, err := paths(c, 1)
	if err != nil {
		return err
	}
	return a.eng.Cat(c.Context, args[0], engine.CatOptions{
		Force:       c.Bool("force"),
		SizeLimitMB: c.Int64("size-limit"),
		Confirm:     a.catPrompt.ConfirmLargeFile,
		Offset:      c.Int64("offset"),
		Length:      c.Int64("length"),
	})
}

func (a *app) stat(c *cli.Context) error {
	args, err := paths(c, 1)
	if err != nil {
		return err
	}

	format := engine.FormatHuman
	switch {
	case c.Bool("raw") && c.Bool("json"):
		return errors.New(errors.CodeInvalidInput, "--raw and --json are mutually exclusive")
	case c.Bool("raw"):
		format = engine.FormatRaw
	case c.Bool("json"):
		format = engine.FormatJSON
	}

	meta, err := a.eng.Stat(c.Context, args[0])
	if err != nil {
		return err
	}
	return meta.Write(a.stdout, format)
}

func (a *app) mkdir(c *cli.Context) error {
	args, err := paths(c, 1)
	if err != nil {
		return err
	}
	return a.eng.Mkdir(c.Context, args[0], c.Bool("parents"))
}
