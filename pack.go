package rcfs

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/meigma/rcfs/internal/fb"
	"github.com/meigma/rcfs/internal/index"
	"github.com/meigma/rcfs/internal/platform"
	"github.com/meigma/rcfs/internal/resource"
	"github.com/meigma/rcfs/internal/write"
)

// DefaultMaxFiles is the default limit used when no PackWithMaxFiles option is set.
const DefaultMaxFiles = 200_000

// Pack builds a table from every regular file in fsys.
//
// Files are written to dataW in path order and the FlatBuffers index is
// written to indexW. Empty directories are not preserved. Symbolic links
// and other non-regular files are skipped.
//
// The context can be used to cancel long-running packs.
func Pack(ctx context.Context, fsys fs.FS, indexW, dataW io.Writer, opts ...PackOption) error {
	cfg := packConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	p := &packer{cfg: cfg, fsys: fsys, open: fsys.Open}
	return p.pack(ctx, indexW, dataW)
}

// PackDir builds a table from the directory dir. Unlike Pack over
// os.DirFS, files are opened without following symbolic links, so a file
// swapped for a link mid-pack is skipped.
func PackDir(ctx context.Context, dir string, indexW, dataW io.Writer, opts ...PackOption) error {
	cfg := packConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return err
	}
	defer root.Close()

	p := &packer{
		cfg:  cfg,
		fsys: root.FS(),
		open: func(name string) (fs.File, error) {
			return platform.OpenFileNoFollow(root, filepath.FromSlash(name))
		},
	}
	p.log().Info("packing directory", "dir", dir, "compression", cfg.compression.String())
	return p.pack(ctx, indexW, dataW)
}

// PackToDir packs srcDir into destDir and opens the result.
//
// By default, files are named DefaultIndexName and DefaultDataName.
// Returns a TableFile that must be closed to release file handles.
func PackToDir(ctx context.Context, srcDir, destDir string, opts ...PackOption) (*TableFile, error) {
	cfg := packConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	indexPath := filepath.Join(destDir, cfg.getIndexName())
	dataPath := filepath.Join(destDir, cfg.getDataName())

	if err := os.MkdirAll(destDir, 0o750); err != nil {
		return nil, fmt.Errorf("create destination directory: %w", err)
	}

	indexFile, err := os.Create(indexPath) //nolint:gosec // User-provided path is intentional
	if err != nil {
		return nil, fmt.Errorf("create index file: %w", err)
	}
	dataFile, err := os.Create(dataPath) //nolint:gosec // User-provided path is intentional
	if err != nil {
		indexFile.Close()
		os.Remove(indexPath)
		return nil, fmt.Errorf("create data file: %w", err)
	}

	cleanup := func() {
		indexFile.Close()
		dataFile.Close()
		os.Remove(indexPath)
		os.Remove(dataPath)
	}

	if err := PackDir(ctx, srcDir, indexFile, dataFile, opts...); err != nil {
		cleanup()
		return nil, fmt.Errorf("pack: %w", err)
	}
	if err := indexFile.Close(); err != nil {
		cleanup()
		return nil, fmt.Errorf("close index file: %w", err)
	}
	if err := dataFile.Close(); err != nil {
		cleanup()
		return nil, fmt.Errorf("close data file: %w", err)
	}

	return OpenFile(indexPath, dataPath)
}

// packer holds state for a single pack run.
type packer struct {
	cfg  packConfig
	fsys fs.FS
	open func(name string) (fs.File, error)
}

// candidate is a regular file found during enumeration.
type candidate struct {
	path string
	info fs.FileInfo
}

// log returns the logger, falling back to a discard logger if nil.
func (p *packer) log() *slog.Logger {
	if p.cfg.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.cfg.logger
}

func (p *packer) pack(ctx context.Context, indexW, dataW io.Writer) error {
	files, err := p.enumerate(ctx)
	if err != nil {
		return err
	}
	p.log().Debug("files enumerated", "file_count", len(files))

	hasher := sha256.New()
	entries, dataSize, err := p.writeData(ctx, files, io.MultiWriter(dataW, hasher))
	if err != nil {
		return err
	}
	p.log().Debug("table data written", "file_count", len(entries), "data_size", dataSize)

	_, err = indexW.Write(buildIndex(entries, dataSize, hasher.Sum(nil)))
	return err
}

// enumerate walks fsys and returns regular files sorted by path bytes,
// the order the index lookup requires.
func (p *packer) enumerate(ctx context.Context) ([]candidate, error) {
	strict := p.cfg.changeDetection == ChangeDetectionStrict
	maxFiles := p.cfg.maxFiles
	if maxFiles == 0 {
		maxFiles = DefaultMaxFiles
	}

	var files []candidate
	err := fs.WalkDir(p.fsys, ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		info, ok, err := write.ResolveEntryInfo(p.fsys, path, d, strict)
		if err != nil {
			return err
		}
		if !ok {
			p.log().Debug("skipped non-regular file", "path", path)
			return nil
		}
		if maxFiles > 0 && len(files) >= maxFiles {
			return ErrTooManyFiles
		}
		files = append(files, candidate{path: path, info: info})
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(files, func(a, b candidate) int {
		return strings.Compare(a.path, b.path)
	})
	return files, nil
}

// writeData writes file contents to data in order and returns their entries.
func (p *packer) writeData(ctx context.Context, files []candidate, data io.Writer) (entries []Entry, totalBytes uint64, err error) {
	strict := p.cfg.changeDetection == ChangeDetectionStrict

	enc, err := write.NewEncoder(p.cfg.compression)
	if err != nil {
		return nil, 0, fmt.Errorf("create %s encoder: %w", p.cfg.compression, err)
	}
	buf := make([]byte, 32*1024)

	entries = make([]Entry, 0, len(files))
	for _, c := range files {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		entry, err := p.writeEntry(ctx, data, enc, buf, c, strict)
		if err != nil {
			if errors.Is(err, platform.ErrSymlink) {
				p.log().Debug("skipped symlink", "path", c.path)
				continue
			}
			return nil, 0, err
		}
		if entry.DataSize > ^uint64(0)-totalBytes {
			return nil, 0, ErrSizeOverflow
		}
		entry.DataOffset = totalBytes
		entries = append(entries, entry)
		totalBytes += entry.DataSize
	}
	return entries, totalBytes, nil
}

// writeEntry writes a single file's content to data and returns its metadata.
func (p *packer) writeEntry(ctx context.Context, data io.Writer, enc write.Encoder, buf []byte, c candidate, strict bool) (Entry, error) {
	f, err := p.open(c.path)
	if err != nil {
		return Entry{}, err
	}
	defer f.Close()

	finfo, err := f.Stat()
	if err != nil {
		return Entry{}, err
	}
	if !finfo.Mode().IsRegular() {
		return Entry{}, fmt.Errorf("not a regular file: %s", c.path)
	}
	if err := write.ValidateFileInfo(c.path, c.info, finfo, strict); err != nil {
		return Entry{}, err
	}

	compression := p.cfg.compression
	if compression != CompressionNone && write.ShouldSkip(c.path, finfo, p.cfg.skipCompression) {
		compression = CompressionNone
	}
	fileEnc := enc
	if compression == CompressionNone {
		fileEnc = nil
	}

	dataSize, originalSize, hash, err := write.File(ctx, f, data, fileEnc, buf, finfo.Size())
	if err != nil {
		return Entry{}, fmt.Errorf("write %s: %w", c.path, err)
	}

	if err := write.CheckFileUnchanged(f, c.path, finfo, strict); err != nil {
		return Entry{}, err
	}

	owner := platform.OwnerOf(finfo)
	return Entry{
		Path:         c.path,
		DataSize:     dataSize,
		OriginalSize: originalSize,
		Hash:         hash,
		Mode:         finfo.Mode().Perm(),
		UID:          owner.UID,
		GID:          owner.GID,
		ModTime:      finfo.ModTime(),
		Compression:  compression,
	}, nil
}

// buildIndex serializes entries to FlatBuffers format. Entries must already
// be sorted by path.
func buildIndex(entries []Entry, dataSize uint64, dataHash []byte) []byte {
	builder := flatbuffers.NewBuilder(1024)

	// FlatBuffers builds back to front.
	entryOffsets := make([]flatbuffers.UOffsetT, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]

		pathOffset := builder.CreateString(e.Path)

		fb.EntryStartHashVector(builder, len(e.Hash))
		for j := len(e.Hash) - 1; j >= 0; j-- {
			builder.PrependByte(e.Hash[j])
		}
		hashOffset := builder.EndVector(len(e.Hash))

		fb.EntryStart(builder)
		fb.EntryAddPath(builder, pathOffset)
		fb.EntryAddDataOffset(builder, e.DataOffset)
		fb.EntryAddDataSize(builder, e.DataSize)
		fb.EntryAddOriginalSize(builder, e.OriginalSize)
		fb.EntryAddHash(builder, hashOffset)
		fb.EntryAddMode(builder, uint32(e.Mode))
		fb.EntryAddUid(builder, e.UID)
		fb.EntryAddGid(builder, e.GID)
		fb.EntryAddMtimeNs(builder, mtimeNanos(e.ModTime))
		fb.EntryAddCompression(builder, resource.CompressionToFB(e.Compression))
		entryOffsets[i] = fb.EntryEnd(builder)
	}

	fb.IndexStartEntriesVector(builder, len(entries))
	for i := len(entryOffsets) - 1; i >= 0; i-- {
		builder.PrependUOffsetT(entryOffsets[i])
	}
	entriesOffset := builder.EndVector(len(entries))

	var dataHashOffset flatbuffers.UOffsetT
	if len(dataHash) > 0 {
		fb.IndexStartDataHashVector(builder, len(dataHash))
		for i := len(dataHash) - 1; i >= 0; i-- {
			builder.PrependByte(dataHash[i])
		}
		dataHashOffset = builder.EndVector(len(dataHash))
	}

	fb.IndexStart(builder)
	fb.IndexAddVersion(builder, index.FormatVersion)
	fb.IndexAddHashAlgorithm(builder, fb.HashAlgorithmSHA256)
	fb.IndexAddEntries(builder, entriesOffset)
	fb.IndexAddDataSize(builder, dataSize)
	if dataHashOffset != 0 {
		fb.IndexAddDataHash(builder, dataHashOffset)
	}
	indexOffset := fb.IndexEnd(builder)

	builder.Finish(indexOffset)
	return builder.FinishedBytes()
}

// mtimeNanos returns t in Unix nanoseconds, mapping the zero time to 0.
func mtimeNanos(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}
