// rcpack packs a directory into a resource table: an index.blob holding
// the FlatBuffers index and a data.blob holding file contents.
//
// Usage:
//
//	rcpack [flags] <source-dir>
//
// Settings can also come from a YAML file given with --config; flags set
// on the command line take precedence over the file.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/meigma/rcfs"
	"github.com/meigma/rcfs/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1) //nolint:gocritic // stop already called
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	flags := config.Default()
	var configPath string

	flagSet := pflag.NewFlagSet("rcpack", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&configPath, "config", "", "YAML config file")
	flags.RegisterFlags(flagSet)
	flagSet.Usage = func() {
		fmt.Fprintf(stderr, "Usage: rcpack [flags] <source-dir>\n\nFlags:\n%s", flagSet.FlagUsages())
	}

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg := &flags
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		loaded.Override(flagSet, &flags)
		cfg = loaded
	}

	switch rest := flagSet.Args(); len(rest) {
	case 0:
	case 1:
		cfg.Source = rest[0]
	default:
		return fmt.Errorf("unexpected argument: %s", rest[1])
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := config.ParseLogLevel(cfg.LogLevel) //nolint:errcheck // checked by Validate
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	return pack(ctx, cfg, logger, stdout)
}

func pack(ctx context.Context, cfg *config.Pack, logger *slog.Logger, stdout io.Writer) error {
	compression, _ := cfg.CompressionValue() //nolint:errcheck // checked by Validate

	opts := []rcfs.PackOption{
		rcfs.PackWithCompression(compression),
		rcfs.PackWithMaxFiles(cfg.MaxFiles),
		rcfs.PackWithSkipCompression(rcfs.DefaultSkipCompression(cfg.SkipCompressionBelow)),
		rcfs.PackWithLogger(logger),
	}
	if cfg.Strict {
		opts = append(opts, rcfs.PackWithChangeDetection(rcfs.ChangeDetectionStrict))
	}

	tf, err := rcfs.PackToDir(ctx, cfg.Source, cfg.Out, opts...)
	if err != nil {
		return err
	}
	defer tf.Close()

	d, err := tf.Digest()
	if err != nil {
		return err
	}
	dataSize, _ := tf.DataSize()

	fmt.Fprintf(stdout, "packed %s files from %s into %s\n",
		humanize.Comma(int64(tf.Len())), cfg.Source, filepath.Clean(cfg.Out))
	fmt.Fprintf(stdout, "  index: %s\n", humanize.Bytes(uint64(len(tf.IndexData()))))
	fmt.Fprintf(stdout, "  data:  %s (%s)\n", humanize.Bytes(dataSize), d)

	logger.Debug("pack complete", "files", tf.Len(), "data_size", dataSize, "digest", d.String())
	return tf.Close()
}
