package write

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"github.com/meigma/rcfs/internal/file"
	"github.com/meigma/rcfs/internal/resource"
)

// File streams src through the hash and optional compression pipeline into w.
// Returns (dataSize, originalSize, hash, error).
//
// The encoder and buf are reused across calls. Pass a nil encoder for
// uncompressed writes. The buf should be at least 32KB for efficient copying.
func File(ctx context.Context, src io.Reader, w io.Writer, enc Encoder, buf []byte, expectedSize int64) (dataSize, originalSize uint64, hash []byte, err error) {
	if expectedSize < 0 {
		return 0, 0, nil, errors.New("negative file size")
	}

	hasher := sha256.New()
	cw := &file.CountingWriter{W: w}
	cr := &file.CountingReader{R: io.LimitReader(src, expectedSize)}

	if enc == nil {
		if _, err := file.CopyWithContext(ctx, cw, io.TeeReader(cr, hasher), buf); err != nil {
			return 0, 0, nil, wrapOverflowErr(err)
		}
	} else {
		enc.Reset(cw)
		if _, err := file.CopyWithContext(ctx, enc, io.TeeReader(cr, hasher), buf); err != nil {
			_ = enc.Close()
			return 0, 0, nil, wrapOverflowErr(err)
		}
		if err := enc.Close(); err != nil {
			return 0, 0, nil, fmt.Errorf("close encoder: %w", err)
		}
	}

	if cr.N != uint64(expectedSize) {
		return 0, 0, nil, fmt.Errorf("file size changed during packing: expected %d, got %d", expectedSize, cr.N)
	}

	return cw.N, cr.N, hasher.Sum(nil), nil
}

func wrapOverflowErr(err error) error {
	if errors.Is(err, file.ErrOverflow) {
		return resource.ErrSizeOverflow
	}
	return err
}
