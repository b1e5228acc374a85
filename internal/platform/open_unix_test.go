//go:build unix

package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenFileNoFollow(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "real.txt"), []byte("real"), 0o644))
	require.NoError(t, os.Symlink("real.txt", filepath.Join(dir, "link.txt")))

	root, err := os.OpenRoot(dir)
	require.NoError(t, err)
	t.Cleanup(func() { root.Close() })

	f, err := OpenFileNoFollow(root, "real.txt")
	require.NoError(t, err)
	info, err := f.Stat()
	require.NoError(t, err)
	assert.Equal(t, int64(4), info.Size())
	assert.Equal(t, uint32(os.Getuid()), OwnerOf(info).UID)
	require.NoError(t, f.Close())

	_, err = OpenFileNoFollow(root, "link.txt")
	assert.ErrorIs(t, err, ErrSymlink)
}
