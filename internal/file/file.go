package file

import (
	"io"
	"io/fs"
)

// File is an fs.File streaming one entry. The stream is opened on the
// first Read and its digest is checked when the content is exhausted.
type File struct {
	reader        *Reader
	entry         Entry
	verifyOnClose bool

	stream  *verifier
	release func()
	openErr error
	opened  bool
}

var _ fs.File = (*File)(nil)

// OpenFile returns a File for entry. With verifyOnClose, Close reads any
// unread content so a partial read still surfaces a digest mismatch.
func (r *Reader) OpenFile(entry *Entry, verifyOnClose bool) *File {
	return &File{reader: r, entry: *entry, verifyOnClose: verifyOnClose}
}

func (f *File) open() error {
	if !f.opened {
		f.opened = true
		f.stream, f.release, f.openErr = f.reader.open(&f.entry)
	}
	return f.openErr
}

func (f *File) Read(p []byte) (int, error) {
	if err := f.open(); err != nil {
		return 0, err
	}
	return f.stream.Read(p)
}

func (f *File) Stat() (fs.FileInfo, error) {
	return NewInfo(&f.entry, Base(f.entry.Path))
}

// Close returns the decoder to its pool. It reports a verification
// failure already seen, or one found by draining when verifyOnClose is set.
func (f *File) Close() error {
	if err := f.open(); err != nil {
		return err
	}
	if f.release != nil {
		defer func() {
			f.release()
			f.release = nil
		}()
	}

	if f.stream.ended() || !f.verifyOnClose {
		return f.stream.err
	}
	_, err := io.Copy(io.Discard, f.stream)
	return err
}
