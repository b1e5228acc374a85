package rcfs

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"

	"golang.org/x/sync/errgroup"

	"github.com/meigma/rcfs/cache"
	"github.com/meigma/rcfs/internal/file"
)

// readCached returns verified content for entry, consulting the cache first.
// Concurrent misses for the same hash share one read from the source.
// Callers get their own copy; the cached value is never handed out.
func (t *Table) readCached(entry *Entry) ([]byte, error) {
	if content, ok := t.cachedContent(entry); ok {
		t.log().Debug("cache hit", "path", entry.Path)
		return bytes.Clone(content), nil
	}

	t.log().Debug("cache miss", "path", entry.Path)
	result, err, _ := t.readGroup.Do(string(entry.Hash), func() (any, error) {
		if content, ok := t.cachedContent(entry); ok {
			return content, nil
		}

		content, err := t.reader.ReadAll(entry)
		if err != nil {
			return nil, err
		}

		if err := t.cache.Put(entry.Hash, content); err != nil {
			t.log().Warn("cache put failed", "path", entry.Path, "error", err)
		}
		return content, nil
	})
	if err != nil {
		return nil, err
	}
	return bytes.Clone(result.([]byte)), nil //nolint:errcheck // type assertion always succeeds when err is nil
}

// cachedContent returns the cached value for entry if it still matches the
// entry hash. A mismatching value is evicted when the cache supports it.
func (t *Table) cachedContent(entry *Entry) ([]byte, bool) {
	content, ok := t.cache.Get(entry.Hash)
	if !ok {
		return nil, false
	}
	sum := sha256.Sum256(content)
	if bytes.Equal(sum[:], entry.Hash) {
		return content, true
	}
	t.log().Warn("cached content failed verification", "path", entry.Path)
	if d, ok := t.cache.(cache.Deleter); ok {
		_ = d.Delete(entry.Hash) //nolint:errcheck // best-effort cleanup
	}
	return nil, false
}

// Warm reads every regular file under prefix into the cache using up to
// concurrency parallel readers. It is a no-op when no cache is configured.
func (t *Table) Warm(ctx context.Context, prefix string, concurrency int) error {
	if t.cache == nil {
		return nil
	}
	name := NormalizePath(prefix)
	if !fs.ValidPath(name) {
		return &fs.PathError{Op: "warm", Path: prefix, Err: fs.ErrInvalid}
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	count := 0
	for view := range t.idx.EntriesWithPrefixView(file.DirPrefix(name)) {
		if !view.IsRegular() {
			continue
		}
		if gctx.Err() != nil {
			break
		}
		entry := view.Entry()
		count++
		g.Go(func() error {
			if _, err := t.readCached(&entry); err != nil {
				return fmt.Errorf("warm %s: %w", entry.Path, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	t.log().Debug("cache warmed", "prefix", name, "files", count)
	return ctx.Err()
}

// bytesFile serves verified in-memory content as an fs.File.
type bytesFile struct {
	*bytes.Reader
	entry Entry
}

func newBytesFile(content []byte, entry *Entry) *bytesFile {
	return &bytesFile{Reader: bytes.NewReader(content), entry: *entry}
}

// Stat returns file info from the entry metadata.
func (f *bytesFile) Stat() (fs.FileInfo, error) {
	return file.NewInfo(&f.entry, file.Base(f.entry.Path))
}

// Close is a no-op; the content needs no cleanup.
func (f *bytesFile) Close() error { return nil }
