package file

import "github.com/meigma/rcfs/internal/resource"

// Re-export types from resource to keep call sites short.
type (
	Entry       = resource.Entry
	Compression = resource.Compression
)

// Re-export compression constants.
const (
	CompressionNone = resource.CompressionNone
	CompressionZstd = resource.CompressionZstd
	CompressionLZ4  = resource.CompressionLZ4
)

// Re-export sentinel errors.
var (
	ErrHashMismatch  = resource.ErrHashMismatch
	ErrDecompression = resource.ErrDecompression
	ErrSizeOverflow  = resource.ErrSizeOverflow
)
