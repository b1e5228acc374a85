package rcfs

import (
	"errors"

	"github.com/meigma/rcfs/internal/platform"
	"github.com/meigma/rcfs/internal/resource"
)

// Sentinel errors re-exported from internal/resource.
var (
	// ErrHashMismatch is returned when file content does not match its hash.
	ErrHashMismatch = resource.ErrHashMismatch

	// ErrDecompression is returned when decompression fails.
	ErrDecompression = resource.ErrDecompression

	// ErrSizeOverflow is returned when byte counts exceed supported limits.
	ErrSizeOverflow = resource.ErrSizeOverflow
)

// Sentinel errors returned by the packer.
var (
	// ErrSymlink is returned when a symlink is encountered where not allowed.
	ErrSymlink = platform.ErrSymlink

	// ErrTooManyFiles is returned when the file count exceeds the configured limit.
	ErrTooManyFiles = errors.New("rcfs: too many files")
)
