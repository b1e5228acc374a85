package rcfs

import (
	"fmt"
	"io"
	"io/fs"
	"iter"
	"log/slog"
	"slices"
	"strings"

	"github.com/opencontainers/go-digest"
	"golang.org/x/sync/singleflight"

	"github.com/meigma/rcfs/cache"
	"github.com/meigma/rcfs/internal/file"
	"github.com/meigma/rcfs/internal/index"
	"github.com/meigma/rcfs/internal/resource"
)

// Re-export types from internal/resource for the public API.
type (
	// Entry represents a file stored in the table.
	Entry = resource.Entry

	// Compression identifies the compression algorithm used for a file.
	Compression = resource.Compression

	// EntryView provides a read-only view of an index entry.
	EntryView = resource.EntryView
)

// Re-export compression constants.
const (
	CompressionNone = resource.CompressionNone
	CompressionZstd = resource.CompressionZstd
	CompressionLZ4  = resource.CompressionLZ4
)

// ParseCompression parses "none", "zstd" or "lz4".
var ParseCompression = resource.ParseCompression

// Interface compliance.
var (
	_ fs.FS         = (*Table)(nil)
	_ fs.StatFS     = (*Table)(nil)
	_ fs.ReadFileFS = (*Table)(nil)
	_ fs.ReadDirFS  = (*Table)(nil)
)

// ByteSource provides random access to the data blob.
//
// SourceID must return a stable identifier for the underlying content.
type ByteSource interface {
	io.ReaderAt
	Size() int64
	SourceID() string
}

// Table is an immutable, read-only filesystem backed by an index blob and a
// data blob.
//
// A Table is safe for concurrent use. The only mutable state is the optional
// content cache, which never changes observable content.
type Table struct {
	idx                   *index.Index
	indexData             []byte
	reader                *file.Reader
	maxFileSize           uint64
	maxDecoderMemory      uint64
	decoderConcurrencySet bool
	decoderConcurrency    int
	decoderLowmemSet      bool
	decoderLowmem         bool
	verifyOnClose         bool
	cache                 cache.Cache        // nil = no caching
	readGroup             singleflight.Group // zero value is valid
	logger                *slog.Logger
}

// log returns the logger, falling back to a discard logger if nil.
func (t *Table) log() *slog.Logger {
	if t.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return t.logger
}

// New creates a Table from an index blob and a data source.
//
// The indexData is retained; callers must not modify it afterwards.
func New(indexData []byte, source ByteSource, opts ...Option) (*Table, error) {
	idx, err := index.Load(indexData)
	if err != nil {
		return nil, err
	}

	t := &Table{
		idx:              idx,
		indexData:        indexData,
		maxFileSize:      file.DefaultMaxFileSize,
		maxDecoderMemory: file.DefaultMaxDecoderMemory,
		verifyOnClose:    true,
	}
	for _, opt := range opts {
		opt(t)
	}
	readerOpts := []file.Option{
		file.WithMaxFileSize(t.maxFileSize),
		file.WithMaxDecoderMemory(t.maxDecoderMemory),
	}
	if t.decoderConcurrencySet {
		readerOpts = append(readerOpts, file.WithDecoderConcurrency(t.decoderConcurrency))
	}
	if t.decoderLowmemSet {
		readerOpts = append(readerOpts, file.WithDecoderLowmem(t.decoderLowmem))
	}
	t.reader = file.NewReader(source, readerOpts...)

	t.log().Debug("table loaded", "entries", idx.Len(), "source", source.SourceID())
	return t, nil
}

// Exists reports whether path names a stored file or a directory.
// The path is normalized first; invalid paths do not exist.
func (t *Table) Exists(path string) bool {
	name := NormalizePath(path)
	if !fs.ValidPath(name) {
		return false
	}
	if _, ok := t.idx.LookupView(name); ok {
		return true
	}
	return t.isDir(name)
}

// IsFile reports whether path names a stored regular file.
func (t *Table) IsFile(path string) bool {
	name := NormalizePath(path)
	if !fs.ValidPath(name) {
		return false
	}
	view, ok := t.idx.LookupView(name)
	return ok && view.IsRegular()
}

// IsDir reports whether path names a directory. The root always exists.
func (t *Table) IsDir(path string) bool {
	name := NormalizePath(path)
	if !fs.ValidPath(name) {
		return false
	}
	return t.isDir(name)
}

// Open implements fs.FS.
//
// Open returns an fs.File for reading the named file. The returned file
// verifies the content hash on EOF and on Close (unless disabled by
// WithVerifyOnClose) and returns ErrHashMismatch if verification fails.
// Callers must read to EOF or Close to ensure integrity; partial reads may
// return unverified data.
func (t *Table) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	if view, ok := t.idx.LookupView(name); ok {
		entry := view.EntryWithPath(name)
		if t.cache == nil {
			return t.reader.OpenFile(&entry, t.verifyOnClose), nil
		}
		content, err := t.readCached(&entry)
		if err != nil {
			return nil, &fs.PathError{Op: "open", Path: name, Err: err}
		}
		return newBytesFile(content, &entry), nil
	}

	if t.isDir(name) {
		return &openDir{t: t, name: name}, nil
	}

	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

// Stat implements fs.StatFS.
//
// Stat returns file info for the named file without reading its content.
// For directories, Stat returns synthetic directory info.
func (t *Table) Stat(name string) (fs.FileInfo, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrInvalid}
	}

	if view, ok := t.idx.LookupView(name); ok {
		entry := view.EntryWithPath(name)
		info, err := file.NewInfo(&entry, file.Base(name))
		if err != nil {
			return nil, &fs.PathError{Op: "stat", Path: name, Err: err}
		}
		return info, nil
	}

	if t.isDir(name) {
		return file.NewDirInfo(file.Base(name)), nil
	}

	return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
}

// ReadFile implements fs.ReadFileFS.
//
// ReadFile returns the entire uncompressed content of the named file,
// verified against its hash. Directories and entries that are not regular
// files fail with fs.ErrNotExist.
//
// With a cache configured, concurrent calls for the same content are
// deduplicated.
func (t *Table) ReadFile(name string) ([]byte, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrInvalid}
	}
	return t.readFile(name)
}

// ReadResource is ReadFile for user-supplied paths: the path is normalized
// first, so "/config/app.json" and "config//app.json/" name the same file.
// A path that cannot name an entry, such as one with ".." segments, fails
// with fs.ErrNotExist like any other missing file.
func (t *Table) ReadResource(path string) ([]byte, error) {
	name := NormalizePath(path)
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "readfile", Path: path, Err: fs.ErrNotExist}
	}
	return t.readFile(name)
}

func (t *Table) readFile(name string) ([]byte, error) {
	view, ok := t.idx.LookupView(name)
	if !ok || !view.IsRegular() {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrNotExist}
	}

	entry := view.EntryWithPath(name)
	if t.cache == nil {
		return t.reader.ReadAll(&entry)
	}
	return t.readCached(&entry)
}

// ReadDir implements fs.ReadDirFS.
//
// ReadDir returns directory entries for the named directory, sorted by name.
// Directory entries are synthesized from file paths.
func (t *Table) ReadDir(name string) ([]fs.DirEntry, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrInvalid}
	}

	di := newDirIter(t.idx, file.DirPrefix(name))
	defer di.Close()

	entries := make([]fs.DirEntry, 0)
	for {
		entry, ok := di.Next()
		if !ok {
			break
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 && name != "." {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}

	slices.SortFunc(entries, func(a, b fs.DirEntry) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return entries, nil
}

// Entry returns a read-only view of the stored entry for path.
//
// The returned view is only valid while the Table remains alive.
func (t *Table) Entry(path string) (EntryView, bool) {
	return t.idx.LookupView(path)
}

// Entries returns an iterator over all stored entries in path order.
func (t *Table) Entries() iter.Seq[EntryView] {
	return t.idx.EntriesView()
}

// EntriesWithPrefix returns an iterator over stored entries whose path
// starts with prefix.
func (t *Table) EntriesWithPrefix(prefix string) iter.Seq[EntryView] {
	return t.idx.EntriesWithPrefixView(prefix)
}

// Len returns the number of stored entries.
func (t *Table) Len() int {
	return t.idx.Len()
}

// Version returns the index format version.
func (t *Table) Version() uint32 {
	return t.idx.Version()
}

// IndexData returns the raw FlatBuffers-encoded index data.
func (t *Table) IndexData() []byte {
	return t.indexData
}

// DataHash returns the SHA256 of the data blob recorded in the index.
// The returned slice aliases the index buffer and must be treated as immutable.
func (t *Table) DataHash() ([]byte, bool) {
	return t.idx.DataHash()
}

// DataSize returns the size of the data blob recorded in the index.
func (t *Table) DataSize() (uint64, bool) {
	return t.idx.DataSize()
}

// Digest returns the OCI digest of the data blob. The recorded hash is used
// when present; otherwise the data is hashed.
func (t *Table) Digest() (digest.Digest, error) {
	if hash, ok := t.idx.DataHash(); ok {
		return digest.NewDigestFromBytes(digest.SHA256, hash), nil
	}
	src := t.reader.Source()
	d, err := digest.SHA256.FromReader(io.NewSectionReader(src, 0, src.Size()))
	if err != nil {
		return "", fmt.Errorf("digest data: %w", err)
	}
	return d, nil
}

// isDir reports whether name is the root or a prefix of some stored path.
func (t *Table) isDir(name string) bool {
	if name == "." {
		return true
	}
	return t.idx.HasPrefix(name + "/")
}

// openDir implements fs.File and fs.ReadDirFile for synthetic directories.
type openDir struct {
	t    *Table
	name string
	iter *dirIter
}

func (d *openDir) Read(_ []byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.name, Err: fs.ErrInvalid}
}

func (d *openDir) Stat() (fs.FileInfo, error) {
	return file.NewDirInfo(file.Base(d.name)), nil
}

func (d *openDir) Close() error {
	if d.iter != nil {
		d.iter.Close()
		d.iter = nil
	}
	return nil
}

func (d *openDir) ReadDir(n int) ([]fs.DirEntry, error) {
	if d.iter == nil {
		d.iter = newDirIter(d.t.idx, file.DirPrefix(d.name))
	}

	if n <= 0 {
		entries := make([]fs.DirEntry, 0)
		for {
			entry, ok := d.iter.Next()
			if !ok {
				return entries, nil
			}
			entries = append(entries, entry)
		}
	}

	entries := make([]fs.DirEntry, 0, n)
	for len(entries) < n {
		entry, ok := d.iter.Next()
		if !ok {
			if len(entries) == 0 {
				return nil, io.EOF
			}
			return entries, nil
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// dirIter iterates over the immediate children of a directory prefix,
// folding consecutive entries that share a child name into one synthetic
// subdirectory.
type dirIter struct {
	next     func() (EntryView, bool)
	stop     func()
	prefix   string
	lastName string
	done     bool
}

func newDirIter(idx *index.Index, prefix string) *dirIter {
	next, stop := iter.Pull(idx.EntriesWithPrefixView(prefix))
	return &dirIter{
		next:   next,
		stop:   stop,
		prefix: prefix,
	}
}

// Next returns the next child entry.
func (it *dirIter) Next() (fs.DirEntry, bool) {
	if it.done {
		return nil, false
	}
	for {
		view, ok := it.next()
		if !ok {
			it.Close()
			return nil, false
		}

		path := string(view.PathBytes())
		childName, isSubDir := file.Child(path, it.prefix)
		if childName == it.lastName {
			continue
		}
		it.lastName = childName

		if isSubDir {
			return file.NewDirEntry(file.NewDirInfo(childName), nil), true
		}
		entry := view.EntryWithPath(path)
		info, err := file.NewInfo(&entry, childName)
		if err != nil {
			info = &file.Info{}
		}
		return file.NewDirEntry(info, err), true
	}
}

// Close releases resources held by the iterator.
func (it *dirIter) Close() {
	if it.done {
		return
	}
	it.done = true
	if it.stop != nil {
		it.stop()
		it.stop = nil
	}
}
