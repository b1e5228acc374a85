package testutil

import (
	"io/fs"
	"slices"
	"strings"
	"testing"
	"time"

	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/meigma/rcfs/internal/fb"
	"github.com/meigma/rcfs/internal/resource"
)

// TestEntry holds data for building test index entries.
type TestEntry struct {
	Path         string
	DataOffset   uint64
	DataSize     uint64
	OriginalSize uint64
	Hash         []byte
	Mode         fs.FileMode
	UID          uint32
	GID          uint32
	ModTime      time.Time
	Compression  resource.Compression
}

// IndexMetadata holds optional data blob metadata for test indexes.
type IndexMetadata struct {
	DataSize uint64
	DataHash []byte
}

// BuildTestIndex creates a FlatBuffers-encoded index from test entries.
// Entries are sorted by path, as the packer would emit them.
func BuildTestIndex(tb testing.TB, entries []TestEntry) []byte {
	tb.Helper()
	return BuildTestIndexWithMetadata(tb, entries, nil)
}

// BuildTestIndexWithMetadata is BuildTestIndex with data blob metadata.
func BuildTestIndexWithMetadata(tb testing.TB, entries []TestEntry, meta *IndexMetadata) []byte {
	tb.Helper()

	slices.SortFunc(entries, func(a, b TestEntry) int {
		return strings.Compare(a.Path, b.Path)
	})

	builder := flatbuffers.NewBuilder(1024)

	entryOffsets := make([]flatbuffers.UOffsetT, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]

		pathOffset := builder.CreateString(e.Path)
		hashOffset := builder.CreateByteVector(e.Hash)

		fb.EntryStart(builder)
		fb.EntryAddPath(builder, pathOffset)
		fb.EntryAddDataOffset(builder, e.DataOffset)
		fb.EntryAddDataSize(builder, e.DataSize)
		fb.EntryAddOriginalSize(builder, e.OriginalSize)
		fb.EntryAddHash(builder, hashOffset)
		fb.EntryAddMode(builder, uint32(e.Mode))
		fb.EntryAddUid(builder, e.UID)
		fb.EntryAddGid(builder, e.GID)
		fb.EntryAddMtimeNs(builder, e.ModTime.UnixNano())
		fb.EntryAddCompression(builder, resource.CompressionToFB(e.Compression))
		entryOffsets[i] = fb.EntryEnd(builder)
	}

	fb.IndexStartEntriesVector(builder, len(entries))
	for i := len(entryOffsets) - 1; i >= 0; i-- {
		builder.PrependUOffsetT(entryOffsets[i])
	}
	entriesOffset := builder.EndVector(len(entries))

	var dataHashOffset flatbuffers.UOffsetT
	if meta != nil && len(meta.DataHash) > 0 {
		dataHashOffset = builder.CreateByteVector(meta.DataHash)
	}

	fb.IndexStart(builder)
	fb.IndexAddVersion(builder, 1)
	fb.IndexAddHashAlgorithm(builder, fb.HashAlgorithmSHA256)
	fb.IndexAddEntries(builder, entriesOffset)
	if dataHashOffset != 0 {
		fb.IndexAddDataHash(builder, dataHashOffset)
		fb.IndexAddDataSize(builder, meta.DataSize)
	}
	indexOffset := fb.IndexEnd(builder)

	builder.Finish(indexOffset)
	return builder.FinishedBytes()
}
