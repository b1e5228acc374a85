// Package config loads packer settings from YAML and command-line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/meigma/rcfs/internal/resource"
)

// Pack holds settings for cmd/rcpack. Flags override values read from a
// config file.
type Pack struct {
	// Source is the directory to pack.
	Source string `yaml:"source"`

	// Out is the directory receiving index.blob and data.blob.
	Out string `yaml:"out"`

	// Compression is one of "none", "zstd" or "lz4".
	Compression string `yaml:"compression"`

	// MaxFiles caps the number of packed files. Zero uses the packer default,
	// negative disables the cap.
	MaxFiles int `yaml:"max_files"`

	// Strict enables change detection while files are read.
	Strict bool `yaml:"strict"`

	// SkipCompressionBelow stores files smaller than this many bytes uncompressed.
	SkipCompressionBelow int64 `yaml:"skip_compression_below"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the settings used when neither file nor flags set a value.
func Default() Pack {
	return Pack{
		Out:                  ".",
		Compression:          "zstd",
		SkipCompressionBelow: 512,
		LogLevel:             "info",
	}
}

// Load reads a YAML config file on top of Default.
func Load(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

// RegisterFlags binds the settings to flags on fs, using the current values
// as defaults.
func (c *Pack) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Out, "out", c.Out, "output directory for index.blob and data.blob")
	fs.StringVar(&c.Compression, "compression", c.Compression, "compression: none, zstd or lz4")
	fs.IntVar(&c.MaxFiles, "max-files", c.MaxFiles, "maximum number of files (0 = default, <0 = unlimited)")
	fs.BoolVar(&c.Strict, "strict", c.Strict, "fail if a file changes while it is packed")
	fs.Int64Var(&c.SkipCompressionBelow, "skip-compression-below", c.SkipCompressionBelow, "store files smaller than this many bytes uncompressed")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn or error")
}

// Override copies every flag the user set explicitly from flags into c.
func (c *Pack) Override(fs *pflag.FlagSet, flags *Pack) {
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "out":
			c.Out = flags.Out
		case "compression":
			c.Compression = flags.Compression
		case "max-files":
			c.MaxFiles = flags.MaxFiles
		case "strict":
			c.Strict = flags.Strict
		case "skip-compression-below":
			c.SkipCompressionBelow = flags.SkipCompressionBelow
		case "log-level":
			c.LogLevel = flags.LogLevel
		}
	})
}

// Validate checks that the settings are usable.
func (c *Pack) Validate() error {
	if c.Source == "" {
		return errors.New("source directory is required")
	}
	if c.Out == "" {
		return errors.New("out is required")
	}
	if _, err := c.CompressionValue(); err != nil {
		return err
	}
	if c.SkipCompressionBelow < 0 {
		return fmt.Errorf("skip_compression_below must not be negative: %d", c.SkipCompressionBelow)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// CompressionValue returns the parsed compression setting.
func (c *Pack) CompressionValue() (resource.Compression, error) {
	return resource.ParseCompression(strings.ToLower(c.Compression))
}

// ParseLogLevel maps a level name to a slog.Level. The empty string is info.
func ParseLogLevel(name string) (slog.Level, error) {
	if name == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", name)
	}
	return level, nil
}
