package file

import (
	"io/fs"
	"time"

	"github.com/meigma/rcfs/internal/sizing"
)

// Info describes a stored file.
type Info struct {
	entry Entry
	name  string
	size  int64
}

// NewInfo returns the Info of entry under the given base name.
func NewInfo(entry *Entry, name string) (*Info, error) {
	size, err := sizing.ToInt64(entry.OriginalSize, ErrSizeOverflow)
	if err != nil {
		return nil, err
	}
	return &Info{entry: *entry, name: name, size: size}, nil
}

func (fi *Info) Name() string       { return fi.name }
func (fi *Info) Size() int64        { return fi.size }
func (fi *Info) Mode() fs.FileMode  { return fi.entry.Mode }
func (fi *Info) ModTime() time.Time { return fi.entry.ModTime }
func (fi *Info) IsDir() bool        { return false }
func (fi *Info) Sys() any           { return nil }

// DirInfo describes a directory implied by stored paths.
type DirInfo string

// NewDirInfo returns the DirInfo of a directory with base name name.
func NewDirInfo(name string) DirInfo { return DirInfo(name) }

func (di DirInfo) Name() string       { return string(di) }
func (di DirInfo) Size() int64        { return 0 }
func (di DirInfo) Mode() fs.FileMode  { return fs.ModeDir | 0o555 }
func (di DirInfo) ModTime() time.Time { return time.Time{} }
func (di DirInfo) IsDir() bool        { return true }
func (di DirInfo) Sys() any           { return nil }

// NewDirEntry adapts info to fs.DirEntry. A non-nil err is returned by
// the entry's Info method.
func NewDirEntry(info fs.FileInfo, err error) fs.DirEntry {
	if err != nil {
		return brokenDirEntry{info: info, err: err}
	}
	return fs.FileInfoToDirEntry(info)
}

type brokenDirEntry struct {
	info fs.FileInfo
	err  error
}

func (de brokenDirEntry) Name() string               { return de.info.Name() }
func (de brokenDirEntry) IsDir() bool                { return de.info.IsDir() }
func (de brokenDirEntry) Type() fs.FileMode          { return de.info.Mode().Type() }
func (de brokenDirEntry) Info() (fs.FileInfo, error) { return de.info, de.err }
