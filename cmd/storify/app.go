package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/jmgilman/storify/config"
	"github.com/jmgilman/storify/engine"
	"github.com/jmgilman/storify/errors"
	"github.com/jmgilman/storify/fs/core"
	"github.com/jmgilman/storify/internal/logging"
	"github.com/jmgilman/storify/internal/prompt"
)

// app holds the process streams and the state built by the Before hook.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// loadConfig and newOperator are swapped out in tests.
	loadConfig  func() (*config.Config, error)
	newOperator func(*config.Config) (core.Operator, error)

	// deletePrompt asks on stdout; catPrompt asks on stderr so the
	// question never mixes with file content.
	deletePrompt *prompt.Prompter
	catPrompt    *prompt.Prompter

	op         core.Operator
	eng        *engine.Engine
	jsonErrors bool
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		stdin:        stdin,
		stdout:       stdout,
		stderr:       stderr,
		loadConfig:   func() (*config.Config, error) { return config.Load() },
		newOperator:  config.NewOperator,
		deletePrompt: prompt.New(stdin, stdout),
		catPrompt:    prompt.New(stdin, stderr),
	}
}

func (a *app) cli() *cli.App {
	return &cli.App{
		Name:      "storify",
		Usage:     "A unified tool for managing object storage with an HDFS-like interface",
		Version:   "0.1.0",
		Reader:    a.stdin,
		Writer:    a.stdout,
		ErrWriter: a.stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error)",
				EnvVars: []string{"STORAGE_LOG_LEVEL"},
			},
			&cli.IntFlag{
				Name:    "concurrency",
				Usage:   "maximum parallel transfers for directory operations",
				EnvVars: []string{"STORAGE_CONCURRENCY"},
			},
			&cli.BoolFlag{
				Name:    "verify",
				Usage:   "verify every transfer with a BLAKE3 checksum",
				EnvVars: []string{"STORAGE_VERIFY"},
			},
			&cli.BoolFlag{
				Name:  "json-errors",
				Usage: "print errors as JSON",
			},
		},
		Before:          a.setup,
		After:           a.teardown,
		Commands:        a.commands(),
		HideHelpCommand: true,
		ExitErrHandler:  func(*cli.Context, error) {},
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	return a.cli().RunContext(ctx, args)
}

// setup loads configuration and builds the operator and engine. Without a
// command there is nothing to connect to.
func (a *app) setup(c *cli.Context) error {
	a.jsonErrors = c.Bool("json-errors")
	if c.NArg() == 0 {
		return nil
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if c.IsSet("concurrency") {
		cfg.Concurrency = c.Int("concurrency")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrap(err, errors.CodeInvalidConfig, "invalid log level")
	}
	logger := logging.New(a.stderr, level)

	op, err := a.newOperator(cfg)
	if err != nil {
		return err
	}
	a.op = op
	logger.Debug("storage operator ready", "provider", cfg.Provider, "type", op.Type())

	opts := []engine.Option{
		engine.WithOutput(a.stdout),
		engine.WithLogger(logger),
		engine.WithConcurrency(cfg.Concurrency),
		engine.WithVerify(c.Bool("verify")),
	}
	if logging.IsTerminal(a.stderr) {
		opts = append(opts, engine.WithProgress(a.stderr))
	}
	a.eng = engine.New(op, opts...)
	return nil
}

func (a *app) teardown(*cli.Context) error {
	if closer, ok := a.op.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// printError reports err on stderr, in red or as a JSON document.
func (a *app) printError(err error) {
	if a.jsonErrors {
		enc := json.NewEncoder(a.stderr)
		if encErr := enc.Encode(errors.ToJSON(err)); encErr == nil {
			return
		}
	}
	color.New(color.FgRed).Fprintf(a.stderr, "Error: %s\n", describe(err))
}

// describe renders err for humans: messages along the cause chain joined
// by ": ", without error codes.
func describe(err error) string {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var parts []string
		for _, e := range joined.Unwrap() {
			parts = append(parts, describe(e))
		}
		return strings.Join(parts, "; ")
	}

	pe, ok := err.(errors.PlatformError)
	if !ok {
		return err.Error()
	}
	if cause := pe.Unwrap(); cause != nil {
		return fmt.Sprintf("%s: %s", pe.Message(), describe(cause))
	}
	return pe.Message()
}
