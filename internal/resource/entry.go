package resource

import (
	"io/fs"
	"time"
)

// Entry describes a file stored in a resource table.
type Entry struct {
	// Path is the slash-separated path relative to the table root (e.g., "web/index.html").
	Path string

	// DataOffset is the byte offset in the data blob where the stored content begins.
	DataOffset uint64

	// DataSize is the stored size in bytes. For compressed files this is the compressed size.
	DataSize uint64

	// OriginalSize is the uncompressed size in bytes.
	OriginalSize uint64

	// Hash is the SHA256 hash of the uncompressed content.
	Hash []byte

	// Mode holds the permission bits and, for anomalous entries, type bits.
	Mode fs.FileMode

	UID uint32
	GID uint32

	ModTime time.Time

	Compression Compression
}

// IsRegular reports whether the entry describes a regular file.
func (e *Entry) IsRegular() bool {
	return e.Mode.Type() == 0
}
