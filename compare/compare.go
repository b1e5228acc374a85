// Package compare checks files on the real filesystem against resources
// stored in a table.
package compare

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/meigma/rcfs"
)

// Precondition failures, checked in declaration order.
var (
	ErrInvalidReal        = errors.New("invalid filename")
	ErrVirtualNotFound    = errors.New("invalid filename: does not exist")
	ErrVirtualIsDirectory = errors.New("invalid filename: is a directory")
	ErrVirtualNotFile     = errors.New("invalid filename: is not a file")
)

// Error records a failed comparison and the paths involved.
type Error struct {
	Op      string
	Real    string
	Virtual string
	Err     error // one of the precondition sentinels
	Cause   error // underlying failure, if any
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s against %s: %v", e.Op, e.Real, e.Virtual, e.Err)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// Resources is the read side of a table the Comparator needs.
// *rcfs.Table implements it.
type Resources interface {
	fs.StatFS
	Exists(path string) bool
	IsDir(path string) bool
	IsFile(path string) bool
	ReadResource(path string) ([]byte, error)
}

var _ Resources = (*rcfs.Table)(nil)

// Comparator compares real files with table resources.
type Comparator struct {
	table  Resources
	fsys   billy.Basic
	logger *slog.Logger
}

// Option configures a Comparator.
type Option func(*Comparator)

// WithFilesystem sets the filesystem real paths are resolved against.
// The default is osfs.Default.
func WithFilesystem(bfs billy.Basic) Option {
	return func(c *Comparator) {
		c.fsys = bfs
	}
}

// WithLogger sets the logger for comparison debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Comparator) {
		c.logger = logger
	}
}

// New returns a Comparator over table.
func New(table Resources, opts ...Option) *Comparator {
	c := &Comparator{table: table, fsys: osfs.Default}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Comparator) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}

// Size reports whether the real file and the resource have the same length.
func (c *Comparator) Size(realPath, virtual string) (bool, error) {
	f, err := c.prepare("compare size", realPath, virtual)
	if err != nil {
		return false, err
	}
	defer f.Close()

	realSize, err := io.Copy(io.Discard, f)
	if err != nil {
		return false, &Error{Op: "compare size", Real: realPath, Virtual: virtual, Err: ErrInvalidReal, Cause: err}
	}
	info, err := c.table.Stat(rcfs.NormalizePath(virtual))
	if err != nil {
		return false, fmt.Errorf("compare size %s: %w", virtual, err)
	}

	match := realSize == info.Size()
	c.log().Debug("compared size", "real", realPath, "virtual", virtual, "real_size", realSize, "virtual_size", info.Size(), "match", match)
	return match, nil
}

// Content reports whether the two inputs agree byte for byte up to the end
// of the shorter one. Lengths are not compared, so a file that is a strict
// prefix of the other compares equal. Use Equal for exact equality.
func (c *Comparator) Content(realPath, virtual string) (bool, error) {
	f, err := c.prepare("compare content", realPath, virtual)
	if err != nil {
		return false, err
	}
	defer f.Close()

	content, err := c.table.ReadResource(virtual)
	if err != nil {
		return false, fmt.Errorf("compare content %s: %w", virtual, err)
	}
	match, _, err := matchPrefix(f, content)
	if err != nil {
		return false, &Error{Op: "compare content", Real: realPath, Virtual: virtual, Err: ErrInvalidReal, Cause: err}
	}
	c.log().Debug("compared content", "real", realPath, "virtual", virtual, "match", match)
	return match, nil
}

// Equal reports whether the real file and the resource have identical
// length and content.
func (c *Comparator) Equal(realPath, virtual string) (bool, error) {
	f, err := c.prepare("compare", realPath, virtual)
	if err != nil {
		return false, err
	}
	defer f.Close()

	content, err := c.table.ReadResource(virtual)
	if err != nil {
		return false, fmt.Errorf("compare %s: %w", virtual, err)
	}
	match, n, err := matchPrefix(f, content)
	if err == nil && match {
		var rest int64
		rest, err = io.Copy(io.Discard, f)
		n += rest
	}
	if err != nil {
		return false, &Error{Op: "compare", Real: realPath, Virtual: virtual, Err: ErrInvalidReal, Cause: err}
	}

	match = match && n == int64(len(content))
	c.log().Debug("compared", "real", realPath, "virtual", virtual, "match", match)
	return match, nil
}

// prepare opens the real file and checks the preconditions in order.
// The caller must close the returned file.
func (c *Comparator) prepare(op, realPath, virtual string) (billy.File, error) {
	info, err := c.fsys.Stat(realPath)
	if err != nil {
		return nil, &Error{Op: op, Real: realPath, Virtual: virtual, Err: ErrInvalidReal, Cause: err}
	}
	if info.IsDir() {
		return nil, &Error{Op: op, Real: realPath, Virtual: virtual, Err: ErrInvalidReal}
	}
	f, err := c.fsys.Open(realPath)
	if err != nil {
		return nil, &Error{Op: op, Real: realPath, Virtual: virtual, Err: ErrInvalidReal, Cause: err}
	}

	var sentinel error
	switch {
	case !c.table.Exists(virtual):
		sentinel = ErrVirtualNotFound
	case c.table.IsDir(virtual):
		sentinel = ErrVirtualIsDirectory
	case !c.table.IsFile(virtual):
		sentinel = ErrVirtualNotFile
	}
	if sentinel != nil {
		f.Close()
		return nil, &Error{Op: op, Real: realPath, Virtual: virtual, Err: sentinel}
	}
	return f, nil
}

// matchPrefix reads r while it agrees with want and stops at the first
// mismatch, at the end of want, or at EOF. It returns whether no mismatch
// was seen and how many bytes of r were consumed.
func matchPrefix(r io.Reader, want []byte) (bool, int64, error) {
	buf := make([]byte, 32*1024)
	var off int
	for off < len(want) {
		n, err := r.Read(buf[:min(len(buf), len(want)-off)])
		if !bytes.Equal(buf[:n], want[off:off+n]) {
			return false, int64(off + n), nil
		}
		off += n
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return false, int64(off), err
		}
	}
	return true, int64(off), nil
}
