package rcfs

import (
	"log/slog"

	"github.com/meigma/rcfs/cache"
)

// Option configures a Table.
type Option func(*Table)

// WithMaxFileSize limits the maximum per-file size (compressed and uncompressed).
// Set limit to 0 to disable the limit.
func WithMaxFileSize(limit uint64) Option {
	return func(t *Table) {
		t.maxFileSize = limit
	}
}

// WithMaxDecoderMemory limits the maximum memory used by the zstd decoder.
// Set limit to 0 to disable the limit.
func WithMaxDecoderMemory(limit uint64) Option {
	return func(t *Table) {
		t.maxDecoderMemory = limit
	}
}

// WithDecoderConcurrency sets the zstd decoder concurrency (default: 1).
// Values < 0 are treated as 0 (use GOMAXPROCS).
func WithDecoderConcurrency(n int) Option {
	return func(t *Table) {
		if n < 0 {
			n = 0
		}
		t.decoderConcurrency = n
		t.decoderConcurrencySet = true
	}
}

// WithDecoderLowmem sets whether the zstd decoder should use low-memory mode (default: false).
func WithDecoderLowmem(enabled bool) Option {
	return func(t *Table) {
		t.decoderLowmem = enabled
		t.decoderLowmemSet = true
	}
}

// WithVerifyOnClose controls whether Close drains an opened file to verify
// its hash.
//
// When false, Close returns without reading the remaining data. Integrity is
// only guaranteed when callers read to EOF.
func WithVerifyOnClose(enabled bool) Option {
	return func(t *Table) {
		t.verifyOnClose = enabled
	}
}

// WithCache enables content-addressed caching of decompressed content.
//
// Cached values are verified against the entry hash on every hit.
func WithCache(c cache.Cache) Option {
	return func(t *Table) {
		t.cache = c
	}
}

// WithLogger sets the logger for debug output. Tables never log by default.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Table) {
		t.logger = logger
	}
}
