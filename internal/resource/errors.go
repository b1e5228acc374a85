package resource

import "errors"

// Sentinel errors shared by the table, reader and packer.
var (
	// ErrHashMismatch is returned when content does not match its recorded hash.
	ErrHashMismatch = errors.New("rcfs: hash verification failed")

	// ErrDecompression is returned when stored content cannot be decompressed.
	ErrDecompression = errors.New("rcfs: decompression failed")

	// ErrSizeOverflow is returned when sizes or offsets exceed supported limits.
	ErrSizeOverflow = errors.New("rcfs: size overflow")
)
