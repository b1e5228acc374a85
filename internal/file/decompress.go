package file

import (
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// decoders hands out pooled zstd and lz4 readers.
type decoders struct {
	zstdOpts []zstd.DOption
	zstd     sync.Pool
	lz4      sync.Pool
}

func newDecoders(maxMemory uint64, concurrency int, lowmem bool) *decoders {
	d := &decoders{zstdOpts: []zstd.DOption{
		zstd.WithDecoderConcurrency(concurrency),
		zstd.WithDecoderLowmem(lowmem),
	}}
	if maxMemory != 0 {
		d.zstdOpts = append(d.zstdOpts, zstd.WithDecoderMaxMemory(maxMemory))
	}
	return d
}

// open returns a reader producing the decoded form of src and a function
// returning any decoder to its pool.
func (d *decoders) open(c Compression, src io.Reader) (io.Reader, func(), error) {
	switch c {
	case CompressionNone:
		return src, func() {}, nil
	case CompressionZstd:
		return d.openZstd(src)
	case CompressionLZ4:
		zr, ok := d.lz4.Get().(*lz4.Reader)
		if ok {
			zr.Reset(src)
		} else {
			zr = lz4.NewReader(src)
		}
		return zr, func() {
			zr.Reset(nil)
			d.lz4.Put(zr)
		}, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown compression algorithm %d", ErrDecompression, c)
	}
}

func (d *decoders) openZstd(src io.Reader) (io.Reader, func(), error) {
	dec, ok := d.zstd.Get().(*zstd.Decoder)
	if ok {
		if err := dec.Reset(src); err != nil {
			dec.Close()
			ok = false
		}
	}
	if !ok {
		var err error
		if dec, err = zstd.NewReader(src, d.zstdOpts...); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrDecompression, err)
		}
	}
	return dec, func() {
		_ = dec.Reset(nil) //nolint:errcheck // drops the source before pooling
		d.zstd.Put(dec)
	}, nil
}
