package file

import (
	"bytes"
	"crypto/sha256"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/require"
)

func compressZstd(tb testing.TB, data []byte) []byte {
	tb.Helper()
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	require.NoError(tb, err)
	_, err = enc.Write(data)
	require.NoError(tb, err)
	require.NoError(tb, enc.Close())
	return buf.Bytes()
}

func compressLZ4(tb testing.TB, data []byte) []byte {
	tb.Helper()
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	_, err := zw.Write(data)
	require.NoError(tb, err)
	require.NoError(tb, zw.Close())
	return buf.Bytes()
}

func hashOf(data []byte) []byte {
	h := sha256.Sum256(data)
	return h[:]
}

// entryFor builds an entry covering all of stored.
func entryFor(content, stored []byte, c Compression) *Entry {
	return &Entry{
		Path:         "dir/test.txt",
		DataOffset:   0,
		DataSize:     uint64(len(stored)),
		OriginalSize: uint64(len(content)),
		Hash:         hashOf(content),
		Mode:         0o644,
		Compression:  c,
	}
}
