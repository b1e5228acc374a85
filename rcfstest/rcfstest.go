// Package rcfstest builds in-memory resource tables for tests.
package rcfstest

import (
	"bytes"
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/meigma/rcfs"
)

// NewTable packs files (slash-separated path to content) with zstd
// compression and returns the loaded table.
func NewTable(tb testing.TB, files map[string]string, opts ...rcfs.Option) *rcfs.Table {
	tb.Helper()
	return NewTableWith(tb, files, []rcfs.PackOption{rcfs.PackWithCompression(rcfs.CompressionZstd)}, opts...)
}

// NewTableWith is NewTable with explicit pack options.
func NewTableWith(tb testing.TB, files map[string]string, packOpts []rcfs.PackOption, opts ...rcfs.Option) *rcfs.Table {
	tb.Helper()

	fsys := make(fstest.MapFS, len(files))
	for path, content := range files {
		fsys[path] = &fstest.MapFile{Data: []byte(content), Mode: 0o644}
	}

	var indexBuf, dataBuf bytes.Buffer
	require.NoError(tb, rcfs.Pack(context.Background(), fsys, &indexBuf, &dataBuf, packOpts...))

	table, err := rcfs.FromBytes(indexBuf.Bytes(), dataBuf.Bytes(), opts...)
	require.NoError(tb, err)
	return table
}
