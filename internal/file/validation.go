package file

import (
	"crypto/sha256"
	"fmt"

	"github.com/meigma/rcfs/internal/sizing"
)

// checkEntry rejects entries that cannot be read safely from a data blob
// of sourceSize bytes. A maxFileSize of 0 disables the size limit.
func checkEntry(entry *Entry, sourceSize int64, maxFileSize uint64) error {
	if sourceSize < 0 {
		return ErrSizeOverflow
	}
	if maxFileSize > 0 && max(entry.DataSize, entry.OriginalSize) > maxFileSize {
		return ErrSizeOverflow
	}
	if end, ok := sizing.AddUint64(entry.DataOffset, entry.DataSize); !ok || end > uint64(sourceSize) {
		return ErrSizeOverflow
	}
	if len(entry.Hash) != sha256.Size {
		return fmt.Errorf("invalid hash length: %d", len(entry.Hash))
	}

	switch entry.Compression {
	case CompressionNone:
		if entry.DataSize != entry.OriginalSize {
			return fmt.Errorf("%w: stored size %d differs from original size %d",
				ErrDecompression, entry.DataSize, entry.OriginalSize)
		}
	case CompressionZstd, CompressionLZ4:
	default:
		return fmt.Errorf("%w: unknown compression algorithm %d", ErrDecompression, entry.Compression)
	}
	return nil
}
