// rcjs runs a JavaScript file with a resource table available as
// require("rcfs").
//
// Usage:
//
//	rcjs [flags] <script.js>
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/console"
	"github.com/dop251/goja_nodejs/require"
	"github.com/spf13/pflag"

	"github.com/meigma/rcfs"
	"github.com/meigma/rcfs/binding"
	"github.com/meigma/rcfs/cache/disk"
	"github.com/meigma/rcfs/internal/config"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	index    string
	data     string
	logLevel string
	cacheDir string
	warm     bool
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var opts options

	flagSet := pflag.NewFlagSet("rcjs", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&opts.index, "index", rcfs.DefaultIndexName, "index blob path")
	flagSet.StringVar(&opts.data, "data", rcfs.DefaultDataName, "data blob path")
	flagSet.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	flagSet.StringVar(&opts.cacheDir, "cache-dir", "", "directory for a persistent content cache")
	flagSet.BoolVar(&opts.warm, "warm", false, "fill the cache with every file before running")
	flagSet.Usage = func() {
		fmt.Fprintf(stderr, "Usage: rcjs [flags] <script.js>\n\nFlags:\n%s", flagSet.FlagUsages())
	}

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if flagSet.NArg() != 1 {
		flagSet.Usage()
		return errors.New("exactly one script is required")
	}
	scriptPath := flagSet.Arg(0)

	level, err := config.ParseLogLevel(opts.logLevel)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	tableOpts := []rcfs.Option{rcfs.WithLogger(logger)}
	if opts.cacheDir != "" {
		c, err := disk.New(opts.cacheDir)
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		tableOpts = append(tableOpts, rcfs.WithCache(c))
	} else if opts.warm {
		return errors.New("--warm requires --cache-dir")
	}

	tf, err := rcfs.OpenFile(opts.index, opts.data, tableOpts...)
	if err != nil {
		return err
	}
	defer tf.Close()

	if opts.warm {
		if err := tf.Warm(ctx, "", runtime.NumCPU()); err != nil {
			return fmt.Errorf("warm cache: %w", err)
		}
	}

	src, err := os.ReadFile(scriptPath) //nolint:gosec // user-provided script path is intentional
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	vm := goja.New()
	registry := require.NewRegistry()
	registry.RegisterNativeModule(console.ModuleName, console.RequireWithPrinter(&printer{stdout: stdout, stderr: stderr}))
	binding.New(tf.Table, binding.WithLogger(logger)).Register(registry)
	registry.Enable(vm)
	console.Enable(vm)

	logger.Debug("running script", "script", scriptPath, "entries", tf.Len())
	if _, err := vm.RunScript(scriptPath, string(src)); err != nil {
		var ex *goja.Exception
		if errors.As(err, &ex) {
			return fmt.Errorf("script failed: %s", ex.Value())
		}
		return err
	}
	return nil
}

// printer routes console output to the given writers.
type printer struct {
	stdout io.Writer
	stderr io.Writer
}

func (p *printer) Log(s string)   { fmt.Fprintln(p.stdout, s) }
func (p *printer) Warn(s string)  { fmt.Fprintln(p.stderr, s) }
func (p *printer) Error(s string) { fmt.Fprintln(p.stderr, s) }
