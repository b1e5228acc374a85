package rcfs

import (
	"bytes"
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

// packBytes packs files into in-memory index and data blobs.
func packBytes(tb testing.TB, files map[string][]byte, opts ...PackOption) (indexData, data []byte) {
	tb.Helper()

	fsys := make(fstest.MapFS, len(files))
	for path, content := range files {
		fsys[path] = &fstest.MapFile{Data: content, Mode: 0o644}
	}

	var indexBuf, dataBuf bytes.Buffer
	require.NoError(tb, Pack(context.Background(), fsys, &indexBuf, &dataBuf, opts...))
	return indexBuf.Bytes(), dataBuf.Bytes()
}

// createTestTable packs files with compression c and loads the result.
func createTestTable(tb testing.TB, files map[string][]byte, c Compression, opts ...Option) *Table {
	tb.Helper()

	indexData, data := packBytes(tb, files, PackWithCompression(c))
	table, err := FromBytes(indexData, data, opts...)
	require.NoError(tb, err)
	return table
}
