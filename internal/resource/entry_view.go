package resource

import (
	"io/fs"
	"time"

	"github.com/meigma/rcfs/internal/fb"
)

// EntryView is a read-only view of an index entry.
//
// Byte slices returned by PathBytes and HashBytes alias the index buffer and
// must not be modified. A view is valid for as long as its index is.
type EntryView struct {
	entry fb.Entry
}

// ViewFromFlatBuffers wraps a FlatBuffers entry.
func ViewFromFlatBuffers(entry fb.Entry) EntryView {
	return EntryView{entry: entry}
}

// PathBytes returns the path bytes from the index buffer.
func (ev EntryView) PathBytes() []byte {
	return ev.entry.Path()
}

// Path returns the path as a string.
func (ev EntryView) Path() string {
	return string(ev.entry.Path())
}

// HashBytes returns the SHA256 hash bytes from the index buffer.
func (ev EntryView) HashBytes() []byte {
	return ev.entry.HashBytes()
}

func (ev EntryView) DataOffset() uint64   { return ev.entry.DataOffset() }
func (ev EntryView) DataSize() uint64     { return ev.entry.DataSize() }
func (ev EntryView) OriginalSize() uint64 { return ev.entry.OriginalSize() }
func (ev EntryView) Mode() fs.FileMode    { return fs.FileMode(ev.entry.Mode()) }
func (ev EntryView) UID() uint32          { return ev.entry.Uid() }
func (ev EntryView) GID() uint32          { return ev.entry.Gid() }

// ModTime returns the modification time recorded by the packer.
func (ev EntryView) ModTime() time.Time {
	return time.Unix(0, ev.entry.MtimeNs())
}

// Compression returns the compression algorithm of the stored content.
func (ev EntryView) Compression() Compression {
	return CompressionFromFB(ev.entry.Compression())
}

// IsRegular reports whether the view describes a regular file.
func (ev EntryView) IsRegular() bool {
	return ev.Mode().Type() == 0
}

// Entry returns a fully copied Entry that does not alias the index.
func (ev EntryView) Entry() Entry {
	e := ev.EntryWithPath(ev.Path())
	e.Hash = append([]byte(nil), e.Hash...)
	return e
}

// EntryWithPath builds an Entry for path without copying the hash bytes.
func (ev EntryView) EntryWithPath(path string) Entry {
	return Entry{
		Path:         path,
		DataOffset:   ev.DataOffset(),
		DataSize:     ev.DataSize(),
		OriginalSize: ev.OriginalSize(),
		Hash:         ev.HashBytes(),
		Mode:         ev.Mode(),
		UID:          ev.UID(),
		GID:          ev.GID(),
		ModTime:      ev.ModTime(),
		Compression:  ev.Compression(),
	}
}

// CompressionFromFB converts the wire enum, mapping unknown values to an
// out-of-range Compression so readers reject them.
func CompressionFromFB(c fb.Compression) Compression {
	switch c {
	case fb.CompressionNone:
		return CompressionNone
	case fb.CompressionZstd:
		return CompressionZstd
	case fb.CompressionLZ4:
		return CompressionLZ4
	default:
		return Compression(0xff)
	}
}

// CompressionToFB converts a Compression to its wire enum.
func CompressionToFB(c Compression) fb.Compression {
	switch c {
	case CompressionZstd:
		return fb.CompressionZstd
	case CompressionLZ4:
		return fb.CompressionLZ4
	default:
		return fb.CompressionNone
	}
}
