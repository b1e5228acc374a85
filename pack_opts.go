package rcfs

import (
	"log/slog"

	"github.com/meigma/rcfs/internal/write"
)

// ChangeDetection controls how strictly file changes are detected while packing.
type ChangeDetection uint8

const (
	ChangeDetectionNone ChangeDetection = iota
	ChangeDetectionStrict
)

// SkipCompressionFunc returns true when a file should be stored uncompressed.
// It is called once per file and should be inexpensive.
type SkipCompressionFunc = write.SkipCompressionFunc

// DefaultSkipCompression returns a SkipCompressionFunc that skips small files
// and known already-compressed extensions.
var DefaultSkipCompression = write.DefaultSkipCompression

// packConfig holds configuration for packing.
type packConfig struct {
	compression     Compression
	changeDetection ChangeDetection
	skipCompression []SkipCompressionFunc
	maxFiles        int
	indexName       string
	dataName        string
	logger          *slog.Logger
}

func (c *packConfig) getIndexName() string {
	if c.indexName == "" {
		return DefaultIndexName
	}
	return c.indexName
}

func (c *packConfig) getDataName() string {
	if c.dataName == "" {
		return DefaultDataName
	}
	return c.dataName
}

// PackOption configures packing.
type PackOption func(*packConfig)

// PackWithCompression sets the compression algorithm to use.
func PackWithCompression(c Compression) PackOption {
	return func(cfg *packConfig) {
		cfg.compression = c
	}
}

// PackWithChangeDetection controls whether the packer verifies files did not
// change while they were read. The zero value disables change detection.
func PackWithChangeDetection(cd ChangeDetection) PackOption {
	return func(cfg *packConfig) {
		cfg.changeDetection = cd
	}
}

// PackWithSkipCompression adds predicates that decide to store a file uncompressed.
// If any predicate returns true, compression is skipped for that file.
func PackWithSkipCompression(fns ...SkipCompressionFunc) PackOption {
	return func(cfg *packConfig) {
		cfg.skipCompression = append(cfg.skipCompression, fns...)
	}
}

// PackWithMaxFiles limits the number of packed files.
// Zero uses DefaultMaxFiles. Negative means no limit.
func PackWithMaxFiles(n int) PackOption {
	return func(cfg *packConfig) {
		cfg.maxFiles = n
	}
}

// PackWithIndexName overrides DefaultIndexName for PackToDir.
func PackWithIndexName(name string) PackOption {
	return func(cfg *packConfig) {
		cfg.indexName = name
	}
}

// PackWithDataName overrides DefaultDataName for PackToDir.
func PackWithDataName(name string) PackOption {
	return func(cfg *packConfig) {
		cfg.dataName = name
	}
}

// PackWithLogger sets the logger for packing progress.
func PackWithLogger(logger *slog.Logger) PackOption {
	return func(cfg *packConfig) {
		cfg.logger = logger
	}
}
