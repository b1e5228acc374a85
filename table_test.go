package rcfs

import (
	"context"
	"crypto/sha256"
	"io"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/rcfs/cache/memory"
	"github.com/meigma/rcfs/internal/testutil"
)

var allCompressions = []Compression{CompressionNone, CompressionZstd, CompressionLZ4}

func sampleFiles() map[string][]byte {
	return map[string][]byte{
		"greeting.txt":         []byte("hi"),
		"etc/nginx/nginx.conf": []byte("worker_processes 1;\n"),
		"etc/hosts":            []byte("127.0.0.1 localhost\n"),
		"config/app.json":      []byte(`{"name":"app"}`),
		"empty.txt":            {},
	}
}

func TestTable_PathQueries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path   string
		exists bool
		isFile bool
		isDir  bool
	}{
		{"greeting.txt", true, true, false},
		{"/greeting.txt", true, true, false},
		{"etc", true, false, true},
		{"etc/nginx", true, false, true},
		{"/etc/nginx/", true, false, true},
		{"etc//nginx", true, false, true},
		{"etc/nginx/nginx.conf", true, true, false},
		{"", true, false, true},
		{"/", true, false, true},
		{".", true, false, true},
		{"missing.txt", false, false, false},
		{"etc/ngin", false, false, false},
		{"greeting.txt/child", false, false, false},
		{"../escape", false, false, false},
		{"etc/./hosts", false, false, false},
	}

	for _, c := range allCompressions {
		table := createTestTable(t, sampleFiles(), c)
		for _, tc := range tests {
			t.Run(c.String()+"/"+tc.path, func(t *testing.T) {
				t.Parallel()
				assert.Equal(t, tc.exists, table.Exists(tc.path), "Exists")
				assert.Equal(t, tc.isFile, table.IsFile(tc.path), "IsFile")
				assert.Equal(t, tc.isDir, table.IsDir(tc.path), "IsDir")
			})
		}
	}
}

func TestTable_ReadResource(t *testing.T) {
	t.Parallel()

	for _, c := range allCompressions {
		t.Run(c.String(), func(t *testing.T) {
			t.Parallel()
			files := sampleFiles()
			table := createTestTable(t, files, c)

			for path, want := range files {
				got, err := table.ReadResource(path)
				require.NoError(t, err, path)
				assert.Equal(t, want, got, path)
			}

			got, err := table.ReadResource("/config/app.json")
			require.NoError(t, err)
			assert.Equal(t, files["config/app.json"], got)

			again, err := table.ReadResource("config/app.json")
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestTable_ReadResourceErrors(t *testing.T) {
	t.Parallel()

	table := createTestTable(t, sampleFiles(), CompressionZstd)

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"missing", "missing.txt", fs.ErrNotExist},
		{"directory", "etc/nginx", fs.ErrNotExist},
		{"root", "/", fs.ErrNotExist},
		{"parent escape", "../escape", fs.ErrNotExist},
		{"dot segment", "etc/./hosts", fs.ErrNotExist},
		{"dotdot segment", "etc/../greeting.txt", fs.ErrNotExist},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := table.ReadResource(tc.path)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)

			var pathErr *fs.PathError
			assert.ErrorAs(t, err, &pathErr)
		})
	}
}

func TestTable_ReadFileIsStrict(t *testing.T) {
	t.Parallel()

	table := createTestTable(t, sampleFiles(), CompressionNone)

	got, err := table.ReadFile("etc/hosts")
	require.NoError(t, err)
	assert.Equal(t, []byte("127.0.0.1 localhost\n"), got)

	_, err = table.ReadFile("/etc/hosts")
	assert.ErrorIs(t, err, fs.ErrInvalid)
}

func TestTable_EmptyTable(t *testing.T) {
	t.Parallel()

	table := createTestTable(t, map[string][]byte{}, CompressionZstd)

	assert.Equal(t, 0, table.Len())
	assert.True(t, table.Exists("/"))
	assert.True(t, table.IsDir(""))
	assert.False(t, table.IsFile("."))

	entries, err := table.ReadDir(".")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTable_NonRegularEntry(t *testing.T) {
	t.Parallel()

	content := []byte("target")
	hash := sha256.Sum256(content)
	indexData := testutil.BuildTestIndex(t, []testutil.TestEntry{
		{Path: "dir/link", DataSize: uint64(len(content)), OriginalSize: uint64(len(content)), Hash: hash[:], Mode: fs.ModeSymlink | 0o777},
		{Path: "dir/real.txt", DataSize: uint64(len(content)), OriginalSize: uint64(len(content)), Hash: hash[:], Mode: 0o644},
	})
	table, err := New(indexData, testutil.NewMockByteSource(content))
	require.NoError(t, err)

	assert.True(t, table.Exists("dir/link"))
	assert.False(t, table.IsFile("dir/link"))
	assert.False(t, table.IsDir("dir/link"))
	assert.True(t, table.IsFile("dir/real.txt"))

	_, err = table.ReadResource("dir/link")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestTable_HashMismatch(t *testing.T) {
	t.Parallel()

	indexData, data := packBytes(t, map[string][]byte{"a.txt": []byte("original content")})
	data[0] ^= 0xff

	table, err := FromBytes(indexData, data)
	require.NoError(t, err)

	_, err = table.ReadResource("a.txt")
	assert.ErrorIs(t, err, ErrHashMismatch)

	f, err := table.Open("a.txt")
	require.NoError(t, err)
	_, err = io.ReadAll(f)
	assert.ErrorIs(t, err, ErrHashMismatch)
	f.Close()
}

func TestTable_Corrupted(t *testing.T) {
	t.Parallel()

	_, err := FromBytes([]byte("not an index"), nil)
	assert.Error(t, err)
}

func TestTable_Open(t *testing.T) {
	t.Parallel()

	table := createTestTable(t, sampleFiles(), CompressionLZ4)

	t.Run("file", func(t *testing.T) {
		t.Parallel()
		f, err := table.Open("etc/nginx/nginx.conf")
		require.NoError(t, err)
		defer f.Close()

		got, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, "worker_processes 1;\n", string(got))

		info, err := f.Stat()
		require.NoError(t, err)
		assert.Equal(t, "nginx.conf", info.Name())
		assert.Equal(t, int64(len(got)), info.Size())
		assert.True(t, info.Mode().IsRegular())
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()
		f, err := table.Open("etc")
		require.NoError(t, err)
		defer f.Close()

		info, err := f.Stat()
		require.NoError(t, err)
		assert.True(t, info.IsDir())

		_, err = f.Read(make([]byte, 1))
		assert.Error(t, err)
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		_, err := table.Open("nope")
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()
		_, err := table.Open("/etc")
		assert.ErrorIs(t, err, fs.ErrInvalid)
	})
}

func TestTable_ReadDir(t *testing.T) {
	t.Parallel()

	table := createTestTable(t, map[string][]byte{
		"a.txt":     []byte("a"),
		"a/x.txt":   []byte("x"),
		"b/c/d.txt": []byte("d"),
		"z.txt":     []byte("z"),
	}, CompressionNone)

	entries, err := table.ReadDir(".")
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"a", "a.txt", "b", "z.txt"}, names)
	assert.True(t, entries[0].IsDir())
	assert.False(t, entries[1].IsDir())

	entries, err = table.ReadDir("b")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "c", entries[0].Name())
	assert.True(t, entries[0].IsDir())

	_, err = table.ReadDir("missing")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestTable_Stat(t *testing.T) {
	t.Parallel()

	table := createTestTable(t, sampleFiles(), CompressionZstd)

	info, err := table.Stat("greeting.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(2), info.Size())
	assert.False(t, info.IsDir())

	info, err = table.Stat("etc/nginx")
	require.NoError(t, err)
	assert.Equal(t, "nginx", info.Name())
	assert.True(t, info.IsDir())

	_, err = table.Stat("nope")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestTable_FSCompliance(t *testing.T) {
	t.Parallel()

	for _, c := range allCompressions {
		t.Run(c.String(), func(t *testing.T) {
			t.Parallel()
			table := createTestTable(t, sampleFiles(), c)
			require.NoError(t, fstest.TestFS(table,
				"greeting.txt", "etc/nginx/nginx.conf", "etc/hosts", "config/app.json", "empty.txt"))
		})
	}
}

func TestTable_Cache(t *testing.T) {
	t.Parallel()

	t.Run("stores on miss and serves hits", func(t *testing.T) {
		t.Parallel()
		mc := testutil.NewMockCache()
		table := createTestTable(t, sampleFiles(), CompressionZstd, WithCache(mc))

		for range 3 {
			got, err := table.ReadResource("etc/hosts")
			require.NoError(t, err)
			assert.Equal(t, "127.0.0.1 localhost\n", string(got))
		}
		assert.Equal(t, 1, mc.Puts())
		assert.Equal(t, 1, mc.Len())
	})

	t.Run("open serves cached content", func(t *testing.T) {
		t.Parallel()
		table := createTestTable(t, sampleFiles(), CompressionLZ4, WithCache(memory.New()))

		for range 2 {
			f, err := table.Open("config/app.json")
			require.NoError(t, err)
			got, err := io.ReadAll(f)
			require.NoError(t, err)
			require.NoError(t, f.Close())
			assert.Equal(t, `{"name":"app"}`, string(got))
		}
	})

	t.Run("corrupted cache value is evicted", func(t *testing.T) {
		t.Parallel()
		mc := memory.New()
		table := createTestTable(t, sampleFiles(), CompressionZstd, WithCache(mc))

		hash := sha256.Sum256([]byte("hi"))
		require.NoError(t, mc.Put(hash[:], []byte("poisoned")))

		got, err := table.ReadResource("greeting.txt")
		require.NoError(t, err)
		assert.Equal(t, "hi", string(got))

		cached, ok := mc.Get(hash[:])
		require.True(t, ok)
		assert.Equal(t, "hi", string(cached))
	})

	t.Run("callers own their content", func(t *testing.T) {
		t.Parallel()
		mc := memory.New()
		table := createTestTable(t, sampleFiles(), CompressionNone, WithCache(mc))

		miss, err := table.ReadResource("greeting.txt")
		require.NoError(t, err)
		miss[0] = 'X'

		hit, err := table.ReadFile("greeting.txt")
		require.NoError(t, err)
		assert.Equal(t, "hi", string(hit))
		hit[1] = 'Y'

		again, err := table.ReadResource("greeting.txt")
		require.NoError(t, err)
		assert.Equal(t, "hi", string(again))

		hash := sha256.Sum256([]byte("hi"))
		cached, ok := mc.Get(hash[:])
		require.True(t, ok)
		assert.Equal(t, "hi", string(cached))
	})
}

func TestTable_Warm(t *testing.T) {
	t.Parallel()

	t.Run("prefix", func(t *testing.T) {
		t.Parallel()
		mc := testutil.NewMockCache()
		table := createTestTable(t, sampleFiles(), CompressionZstd, WithCache(mc))

		require.NoError(t, table.Warm(context.Background(), "/etc/", 4))
		assert.Equal(t, 2, mc.Len())
	})

	t.Run("everything", func(t *testing.T) {
		t.Parallel()
		mc := testutil.NewMockCache()
		table := createTestTable(t, sampleFiles(), CompressionNone, WithCache(mc))

		require.NoError(t, table.Warm(context.Background(), "", 0))
		assert.Equal(t, len(sampleFiles()), mc.Len())
	})

	t.Run("without cache", func(t *testing.T) {
		t.Parallel()
		table := createTestTable(t, sampleFiles(), CompressionNone)
		assert.NoError(t, table.Warm(context.Background(), "", 2))
	})

	t.Run("canceled", func(t *testing.T) {
		t.Parallel()
		table := createTestTable(t, sampleFiles(), CompressionNone, WithCache(testutil.NewMockCache()))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, table.Warm(ctx, "", 2), context.Canceled)
	})
}

func TestTable_Digest(t *testing.T) {
	t.Parallel()

	indexData, data := packBytes(t, sampleFiles())
	table, err := FromBytes(indexData, data)
	require.NoError(t, err)

	d, err := table.Digest()
	require.NoError(t, err)
	assert.Equal(t, digest.FromBytes(data), d)

	size, ok := table.DataSize()
	require.True(t, ok)
	assert.Equal(t, uint64(len(data)), size)
}

func TestLoadFS(t *testing.T) {
	t.Parallel()

	indexData, data := packBytes(t, sampleFiles())

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		table, err := LoadFS(fstest.MapFS{
			DefaultIndexName: &fstest.MapFile{Data: indexData},
			DefaultDataName:  &fstest.MapFile{Data: data},
		})
		require.NoError(t, err)
		assert.True(t, table.IsFile("greeting.txt"))
	})

	t.Run("missing data", func(t *testing.T) {
		t.Parallel()
		_, err := LoadFS(fstest.MapFS{
			DefaultIndexName: &fstest.MapFile{Data: indexData},
		})
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})
}
