package rcfs

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/opencontainers/go-digest"

	"github.com/meigma/rcfs/internal/index"
	"github.com/meigma/rcfs/internal/sizing"
)

// Default file names for packed tables.
const (
	DefaultIndexName = "index.blob"
	DefaultDataName  = "data.blob"
)

// MaxIndexSize bounds how much of an index blob LoadFS and OpenFile read.
const MaxIndexSize = 64 << 20

// readIndex reads an index blob of at most MaxIndexSize bytes.
func readIndex(r io.Reader) ([]byte, error) {
	return sizing.ReadAllWithLimit(r, MaxIndexSize,
		fmt.Errorf("%w: index larger than %d bytes", ErrSizeOverflow, MaxIndexSize))
}

// bytesSource serves an in-memory data blob, such as one from embed.FS.
type bytesSource struct {
	*bytes.Reader
	sourceID string
}

func newBytesSource(data []byte, sourceID string) *bytesSource {
	if sourceID == "" {
		sourceID = digest.FromBytes(data).String()
	}
	return &bytesSource{Reader: bytes.NewReader(data), sourceID: sourceID}
}

// SourceID returns a stable identifier for the data.
func (s *bytesSource) SourceID() string {
	return s.sourceID
}

// FromBytes creates a Table from in-memory index and data blobs.
func FromBytes(indexData, data []byte, opts ...Option) (*Table, error) {
	return New(indexData, newBytesSource(data, recordedSourceID(indexData)), opts...)
}

// LoadFS creates a Table from DefaultIndexName and DefaultDataName at the
// root of fsys. It is intended for blobs embedded with //go:embed.
func LoadFS(fsys fs.FS, opts ...Option) (*Table, error) {
	f, err := fsys.Open(DefaultIndexName)
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	indexData, err := readIndex(f)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	data, err := fs.ReadFile(fsys, DefaultDataName)
	if err != nil {
		return nil, fmt.Errorf("read data: %w", err)
	}
	return FromBytes(indexData, data, opts...)
}

// recordedSourceID derives a source ID from the data hash recorded in the
// index, or returns "" when there is none.
func recordedSourceID(indexData []byte) string {
	idx, err := index.Load(indexData)
	if err != nil {
		return ""
	}
	hash, ok := idx.DataHash()
	if !ok {
		return ""
	}
	return digest.NewDigestFromBytes(digest.SHA256, hash).String()
}

// fileSource wraps *os.File to implement ByteSource.
// os.File has ReadAt but not Size, so the size is cached at construction.
type fileSource struct {
	file     *os.File
	size     int64
	sourceID string
}

func newFileSource(f *os.File, sourceID string) (*fileSource, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat data file: %w", err)
	}
	if sourceID == "" {
		sourceID = fallbackFileSourceID(f.Name(), info)
	}
	return &fileSource{file: f, size: info.Size(), sourceID: sourceID}, nil
}

func (s *fileSource) ReadAt(p []byte, off int64) (int, error) {
	return s.file.ReadAt(p, off)
}

func (s *fileSource) Size() int64 {
	return s.size
}

func (s *fileSource) SourceID() string {
	return s.sourceID
}

func fallbackFileSourceID(path string, info os.FileInfo) string {
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	return fmt.Sprintf("file:%s:%d:%d", absPath, info.Size(), info.ModTime().UnixNano())
}

// TableFile wraps a Table with its underlying data file handle.
// Close must be called to release file resources.
type TableFile struct {
	*Table
	dataFile *os.File
}

// Close closes the underlying data file.
func (tf *TableFile) Close() error {
	if tf.dataFile == nil {
		return nil
	}
	err := tf.dataFile.Close()
	tf.dataFile = nil
	return err
}

// OpenFile opens a table from index and data files.
//
// The index file is read into memory; the data file is opened for random access.
// The returned TableFile must be closed to release file resources.
func OpenFile(indexPath, dataPath string, opts ...Option) (*TableFile, error) {
	indexFile, err := os.Open(indexPath) //nolint:gosec // User-provided path is intentional
	if err != nil {
		return nil, fmt.Errorf("read index file: %w", err)
	}
	indexData, err := readIndex(indexFile)
	indexFile.Close()
	if err != nil {
		return nil, fmt.Errorf("read index file: %w", err)
	}

	dataFile, err := os.Open(dataPath) //nolint:gosec // User-provided path is intentional
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}

	source, err := newFileSource(dataFile, recordedSourceID(indexData))
	if err != nil {
		dataFile.Close()
		return nil, err
	}

	t, err := New(indexData, source, opts...)
	if err != nil {
		dataFile.Close()
		return nil, fmt.Errorf("load table: %w", err)
	}

	return &TableFile{Table: t, dataFile: dataFile}, nil
}

var (
	_ ByteSource = (*fileSource)(nil)
	_ ByteSource = (*bytesSource)(nil)
)
