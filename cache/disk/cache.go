// Package disk provides a persistent cache backed by a go-billy filesystem.
//
// A disk cache lets short-lived processes such as cmd/rcjs skip
// decompression of content they already read in an earlier run.
package disk

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/meigma/rcfs/cache"
)

// Cache stores one file per content hash, named by the hex hash and
// grouped into shard directories named by its first characters.
type Cache struct {
	fs       billy.Filesystem
	shardLen int
	dirPerm  os.FileMode
}

var (
	_ cache.Cache   = (*Cache)(nil)
	_ cache.Deleter = (*Cache)(nil)
)

// Option configures a disk cache.
type Option func(*Cache)

// WithShardPrefixLen sets how many hex characters name a shard directory.
// Zero stores every entry at the top level. Defaults to 2.
func WithShardPrefixLen(n int) Option {
	return func(c *Cache) { c.shardLen = n }
}

// WithDirPerm sets the mode of created shard directories. Defaults to 0700.
func WithDirPerm(mode os.FileMode) Option {
	return func(c *Cache) { c.dirPerm = mode }
}

// New opens or creates a cache in the host directory dir.
func New(dir string, opts ...Option) (*Cache, error) {
	if dir == "" {
		return nil, errors.New("cache dir is empty")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return NewFS(osfs.New(dir, osfs.WithBoundOS()), opts...)
}

// NewFS returns a cache stored at the root of fsys.
func NewFS(fsys billy.Filesystem, opts ...Option) (*Cache, error) {
	c := &Cache{fs: fsys, shardLen: 2, dirPerm: 0o700}
	for _, opt := range opts {
		opt(c)
	}
	if c.shardLen < 0 {
		return nil, errors.New("shard prefix length must be >= 0")
	}
	return c, nil
}

// Get returns the content stored for hash.
func (c *Cache) Get(hash []byte) ([]byte, bool) {
	name, err := c.name(hash)
	if err != nil {
		return nil, false
	}
	data, err := util.ReadFile(c.fs, name)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Put stores content under hash. Content is written to a temporary file
// and renamed into place so Get never sees a partial write.
func (c *Cache) Put(hash, content []byte) error {
	name, err := c.name(hash)
	if err != nil {
		return err
	}
	if _, err := c.fs.Stat(name); err == nil {
		return nil
	}

	if dir := path.Dir(name); dir != "." {
		if err := c.fs.MkdirAll(dir, c.dirPerm); err != nil {
			return fmt.Errorf("create shard: %w", err)
		}
	}
	tmpName := name + ".tmp-" + rand.Text()
	tmp, err := c.fs.OpenFile(tmpName, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	_, werr := tmp.Write(content)
	if cerr := tmp.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		_ = c.fs.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, werr)
	}

	if err := c.fs.Rename(tmpName, name); err != nil {
		_ = c.fs.Remove(tmpName)
		// A concurrent Put of the same hash may have won the rename.
		if _, statErr := c.fs.Stat(name); statErr == nil {
			return nil
		}
		return fmt.Errorf("store %s: %w", name, err)
	}
	return nil
}

// Delete removes the content stored for hash. A missing entry is not an
// error.
func (c *Cache) Delete(hash []byte) error {
	name, err := c.name(hash)
	if err != nil {
		return err
	}
	if err := c.fs.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (c *Cache) name(hash []byte) (string, error) {
	if len(hash) == 0 {
		return "", errors.New("hash is empty")
	}
	key := hex.EncodeToString(hash)
	if c.shardLen == 0 {
		return key, nil
	}
	return path.Join(key[:min(c.shardLen, len(key))], key), nil
}
