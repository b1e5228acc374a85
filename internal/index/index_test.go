package index

import (
	"crypto/sha256"
	"io/fs"
	"testing"
	"time"

	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/rcfs/internal/fb"
	"github.com/meigma/rcfs/internal/resource"
	"github.com/meigma/rcfs/internal/testutil"
)

func mustLoadIndex(tb testing.TB, data []byte) *Index {
	tb.Helper()
	idx, err := Load(data)
	require.NoError(tb, err, "Load failed")
	return idx
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("empty data", func(t *testing.T) {
		t.Parallel()
		_, err := Load(nil)
		assert.Error(t, err)
	})

	t.Run("garbage data", func(t *testing.T) {
		t.Parallel()
		_, err := Load([]byte{0xff, 0xff, 0xff})
		assert.Error(t, err)
	})

	t.Run("unsupported version", func(t *testing.T) {
		t.Parallel()
		builder := flatbuffers.NewBuilder(64)
		fb.IndexStart(builder)
		fb.IndexAddVersion(builder, 7)
		builder.Finish(fb.IndexEnd(builder))

		_, err := Load(builder.FinishedBytes())
		assert.ErrorIs(t, err, ErrUnsupportedVersion)
	})

	t.Run("valid index", func(t *testing.T) {
		t.Parallel()
		data := testutil.BuildTestIndex(t, []testutil.TestEntry{
			{Path: "greeting.txt", DataSize: 2},
		})
		idx := mustLoadIndex(t, data)
		assert.Equal(t, 1, idx.Len())
		assert.Equal(t, uint32(FormatVersion), idx.Version())
	})
}

func TestIndexLookup(t *testing.T) {
	t.Parallel()

	entries := []testutil.TestEntry{
		{Path: "a/file1.txt", DataOffset: 0, DataSize: 100, OriginalSize: 100},
		{Path: "a/file2.txt", DataOffset: 100, DataSize: 200, OriginalSize: 200},
		{Path: "b/file3.txt", DataOffset: 300, DataSize: 150, OriginalSize: 150},
	}
	idx := mustLoadIndex(t, testutil.BuildTestIndex(t, entries))

	t.Run("existing path", func(t *testing.T) {
		t.Parallel()
		view, ok := idx.LookupView("a/file1.txt")
		require.True(t, ok)
		assert.Equal(t, "a/file1.txt", view.Path())
		assert.Equal(t, uint64(0), view.DataOffset())
	})

	t.Run("missing path", func(t *testing.T) {
		t.Parallel()
		_, ok := idx.LookupView("nonexistent.txt")
		assert.False(t, ok)
	})

	t.Run("directory is not a stored entry", func(t *testing.T) {
		t.Parallel()
		_, ok := idx.LookupView("a")
		assert.False(t, ok)
	})

	t.Run("all entries accessible", func(t *testing.T) {
		t.Parallel()
		for _, e := range entries {
			view, ok := idx.LookupView(e.Path)
			require.True(t, ok, "expected to find entry %q", e.Path)
			assert.Equal(t, e.DataOffset, view.DataOffset(), "entry %q offset mismatch", e.Path)
		}
	})
}

func TestIndexEntriesSorted(t *testing.T) {
	t.Parallel()

	entries := []testutil.TestEntry{
		{Path: "c.txt", DataOffset: 200},
		{Path: "a/b.txt", DataOffset: 0},
		{Path: "a.txt", DataOffset: 100},
	}
	idx := mustLoadIndex(t, testutil.BuildTestIndex(t, entries))

	var paths []string
	for view := range idx.EntriesView() {
		paths = append(paths, view.Path())
	}

	// '.' sorts before '/', so a.txt precedes the a/ directory run.
	assert.Equal(t, []string{"a.txt", "a/b.txt", "c.txt"}, paths)
}

func TestIndexEntriesWithPrefix(t *testing.T) {
	t.Parallel()

	entries := []testutil.TestEntry{
		{Path: "assets/css/main.css"},
		{Path: "assets/css/reset.css"},
		{Path: "assets/images/logo.png"},
		{Path: "assets/images/banner.png"},
		{Path: "src/main.go"},
		{Path: "src/util/helper.go"},
	}
	idx := mustLoadIndex(t, testutil.BuildTestIndex(t, entries))

	tests := []struct {
		name     string
		prefix   string
		expected []string
	}{
		{"assets directory", "assets/", []string{"assets/css/main.css", "assets/css/reset.css", "assets/images/banner.png", "assets/images/logo.png"}},
		{"nested directory", "assets/css/", []string{"assets/css/main.css", "assets/css/reset.css"}},
		{"src directory", "src/", []string{"src/main.go", "src/util/helper.go"}},
		{"nonexistent directory", "nonexistent/", []string{}},
		{"empty prefix matches all", "", []string{"assets/css/main.css", "assets/css/reset.css", "assets/images/banner.png", "assets/images/logo.png", "src/main.go", "src/util/helper.go"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			paths := make([]string, 0, len(tc.expected))
			for view := range idx.EntriesWithPrefixView(tc.prefix) {
				paths = append(paths, view.Path())
			}
			assert.Equal(t, tc.expected, paths)
		})
	}
}

func TestIndexHasPrefix(t *testing.T) {
	t.Parallel()

	idx := mustLoadIndex(t, testutil.BuildTestIndex(t, []testutil.TestEntry{
		{Path: "etc/hosts"},
		{Path: "etc/nginx/nginx.conf"},
	}))

	assert.True(t, idx.HasPrefix("etc/"))
	assert.True(t, idx.HasPrefix("etc/nginx/"))
	assert.True(t, idx.HasPrefix(""))
	assert.False(t, idx.HasPrefix("etc/hosts/"))
	assert.False(t, idx.HasPrefix("var/"))
	assert.False(t, idx.HasPrefix("zzz/"))
}

func TestIndexEntryMetadata(t *testing.T) {
	t.Parallel()

	modTime := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	hash := sha256.Sum256([]byte("content"))

	idx := mustLoadIndex(t, testutil.BuildTestIndex(t, []testutil.TestEntry{
		{
			Path:         "test.txt",
			DataOffset:   1000,
			DataSize:     500,
			OriginalSize: 1000,
			Hash:         hash[:],
			Mode:         0o644,
			UID:          1000,
			GID:          1001,
			ModTime:      modTime,
			Compression:  resource.CompressionLZ4,
		},
	}))

	view, ok := idx.LookupView("test.txt")
	require.True(t, ok)

	assert.Equal(t, uint64(1000), view.DataOffset())
	assert.Equal(t, uint64(500), view.DataSize())
	assert.Equal(t, uint64(1000), view.OriginalSize())
	assert.Equal(t, hash[:], view.HashBytes())
	assert.Equal(t, fs.FileMode(0o644), view.Mode())
	assert.Equal(t, uint32(1000), view.UID())
	assert.Equal(t, uint32(1001), view.GID())
	assert.True(t, view.ModTime().Equal(modTime))
	assert.Equal(t, resource.CompressionLZ4, view.Compression())
	assert.True(t, view.IsRegular())

	entry := view.Entry()
	assert.Equal(t, "test.txt", entry.Path)
	assert.Equal(t, hash[:], entry.Hash)
}

func TestIndexDataMetadata(t *testing.T) {
	t.Parallel()

	t.Run("present", func(t *testing.T) {
		t.Parallel()

		data := []byte("data blob bytes")
		hash := sha256.Sum256(data)
		meta := &testutil.IndexMetadata{DataSize: uint64(len(data)), DataHash: hash[:]}

		idx := mustLoadIndex(t, testutil.BuildTestIndexWithMetadata(t, []testutil.TestEntry{{Path: "test.txt"}}, meta))

		gotHash, ok := idx.DataHash()
		require.True(t, ok)
		assert.Equal(t, hash[:], gotHash)

		gotSize, ok := idx.DataSize()
		require.True(t, ok)
		assert.Equal(t, meta.DataSize, gotSize)
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()

		idx := mustLoadIndex(t, testutil.BuildTestIndex(t, []testutil.TestEntry{{Path: "test.txt"}}))

		gotHash, ok := idx.DataHash()
		assert.False(t, ok)
		assert.Nil(t, gotHash)

		_, ok = idx.DataSize()
		assert.False(t, ok)
	})
}
