// Package file reads and verifies stored table content.
package file

import (
	"fmt"
	"io"

	"github.com/meigma/rcfs/internal/sizing"
)

const (
	// DefaultMaxFileSize caps the stored and original size of one file (256MB).
	DefaultMaxFileSize = 256 << 20

	// DefaultMaxDecoderMemory caps zstd decoder memory (256MB).
	DefaultMaxDecoderMemory = 256 << 20
)

// ByteSource provides random access to the data blob.
// SourceID must return a stable identifier for the underlying content.
type ByteSource interface {
	io.ReaderAt
	Size() int64
	SourceID() string
}

type settings struct {
	maxFileSize        uint64
	maxDecoderMemory   uint64
	decoderConcurrency int
	decoderLowmem      bool
}

// Option configures a Reader.
type Option func(*settings)

// WithMaxFileSize sets the per-file size limit. Zero disables it.
func WithMaxFileSize(limit uint64) Option {
	return func(s *settings) { s.maxFileSize = limit }
}

// WithMaxDecoderMemory sets the zstd decoder memory limit. Zero disables it.
func WithMaxDecoderMemory(limit uint64) Option {
	return func(s *settings) { s.maxDecoderMemory = limit }
}

// WithDecoderConcurrency sets zstd decoder concurrency. The default is 1;
// zero or a negative value means GOMAXPROCS.
func WithDecoderConcurrency(n int) Option {
	return func(s *settings) { s.decoderConcurrency = max(n, 0) }
}

// WithDecoderLowmem switches zstd decoders to low-memory mode.
func WithDecoderLowmem(enabled bool) Option {
	return func(s *settings) { s.decoderLowmem = enabled }
}

// Reader reads and verifies entry content from a ByteSource.
type Reader struct {
	source      ByteSource
	maxFileSize uint64
	decoders    *decoders
}

// NewReader returns a Reader over source.
func NewReader(source ByteSource, opts ...Option) *Reader {
	s := settings{
		maxFileSize:        DefaultMaxFileSize,
		maxDecoderMemory:   DefaultMaxDecoderMemory,
		decoderConcurrency: 1,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return &Reader{
		source:      source,
		maxFileSize: s.maxFileSize,
		decoders:    newDecoders(s.maxDecoderMemory, s.decoderConcurrency, s.decoderLowmem),
	}
}

// Source returns the underlying ByteSource.
func (r *Reader) Source() ByteSource {
	return r.source
}

// MaxFileSize returns the per-file size limit.
func (r *Reader) MaxFileSize() uint64 {
	return r.maxFileSize
}

// ReadAll returns the verified, decompressed content of entry.
func (r *Reader) ReadAll(entry *Entry) ([]byte, error) {
	v, release, err := r.open(entry)
	if err != nil {
		return nil, err
	}
	defer release()

	size, err := sizing.ToInt(entry.OriginalSize, ErrSizeOverflow)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", entry.Path, err)
	}
	content := make([]byte, size)
	if _, err := io.ReadFull(v, content); err != nil {
		return nil, err
	}
	if err := v.finish(); err != nil {
		return nil, err
	}
	return content, nil
}

// open validates entry and returns a verifying stream over its content.
func (r *Reader) open(entry *Entry) (*verifier, func(), error) {
	if err := checkEntry(entry, r.source.Size(), r.maxFileSize); err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", entry.Path, err)
	}
	offset, err := sizing.ToInt64(entry.DataOffset, ErrSizeOverflow)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", entry.Path, err)
	}
	length, err := sizing.ToInt64(entry.DataSize, ErrSizeOverflow)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", entry.Path, err)
	}

	src, release, err := r.decoders.open(entry.Compression, io.NewSectionReader(r.source, offset, length))
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", entry.Path, err)
	}
	return newVerifier(entry, src), release, nil
}
