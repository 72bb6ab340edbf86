// Package run hosts the top-level task of a program: it sets up logging from
// the command line and stops the task on termination signals.
package run

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ridge/overlay/tlog"
	"github.com/ridge/parallel"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var (
	program = filepath.Base(os.Args[0])
	fs      = newLogFlags(program)
)

func init() {
	// Usage is covered by the main command line
	fs.Usage = func() {}
	pflag.CommandLine.AddFlagSet(fs)
}

func newLogFlags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.String("log-format", string(tlog.FormatText), "Log format (json|text)")
	fs.String("log-color", "auto", "Colored logs (yes|no|auto)")
	fs.BoolP("verbose", "v", false, "Enable verbose (debug level) messages")
	return fs
}

// logConfig parses the logging flags out of args, ignoring all others
func logConfig(fs *pflag.FlagSet, args []string) (tlog.Config, error) {
	if err := fs.Parse(args); err != nil && !errors.Is(err, pflag.ErrHelp) {
		return tlog.Config{}, err
	}

	format, err := fs.GetString("log-format")
	if err != nil {
		return tlog.Config{}, err
	}
	switch tlog.Format(format) {
	case tlog.FormatJSON, tlog.FormatText:
	default:
		return tlog.Config{}, fmt.Errorf("invalid --log-format value %q", format)
	}

	colorArg, err := fs.GetString("log-color")
	if err != nil {
		return tlog.Config{}, err
	}
	var color tlog.Color
	switch colorArg {
	case "", "auto":
		color = tlog.ColorAuto
	case "yes":
		color = tlog.ColorYes
	case "no":
		color = tlog.ColorNo
	default:
		return tlog.Config{}, fmt.Errorf("invalid --log-color value %q", colorArg)
	}

	verbose, err := fs.GetBool("verbose")
	if err != nil {
		return tlog.Config{}, err
	}

	return tlog.Config{
		Format:  tlog.Format(format),
		Color:   color,
		Verbose: verbose,
	}, nil
}

// Tool runs the top-level task of the program, watching for signals.
//
// The context passed to the task carries a logger. If an interruption or
// termination signal arrives, the context is closed.
//
// Tool does not return. It exits with code 0 if the task returns nil, and
// with code 1 (or the code of a WithExitCode error) otherwise. Deferred
// functions of the caller do not run.
func Tool(task func(ctx context.Context) error) {
	// os.Exit skips deferred functions, so it goes into the first defer
	var err error
	defer func() {
		var wec WithExitCode
		if errors.As(err, &wec) {
			os.Exit(wec.ExitCode())
		}
		if err != nil {
			os.Exit(1)
		}
	}()

	config, err := logConfig(fs, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	config.Name = program
	ctx := tlog.WithLogger(context.Background(), tlog.New(config))

	err = parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
		spawn("main", parallel.Exit, task)
		spawn("signals", parallel.Exit, handleSignals)
		return nil
	})
	if err != nil {
		tlog.Get(ctx).Error("Error", zap.Error(err))
	}
}

// Server is Tool for long-running tasks: a task returning the context error
// after a signal counts as success
func Server(task func(ctx context.Context) error) {
	Tool(func(ctx context.Context) error {
		err := task(ctx)
		if errors.Is(err, ctx.Err()) {
			return nil
		}
		return err
	})
}

// WithExitCode is an optional interface that can be implemented by an error.
// The value returned by ExitCode becomes the exit code of the process.
type WithExitCode interface {
	ExitCode() int
}
