package file

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"hash"
	"io"
)

// verifier yields exactly the recorded original size of an entry and
// checks its SHA-256 digest once that many bytes have been read. Extra
// decoded data is reported as ErrSizeOverflow.
type verifier struct {
	r          io.Reader
	path       string
	want       []byte
	compressed bool

	h    hash.Hash
	left uint64
	done bool
	err  error
}

func newVerifier(entry *Entry, r io.Reader) *verifier {
	return &verifier{
		r:          r,
		path:       entry.Path,
		want:       entry.Hash,
		compressed: entry.Compression != CompressionNone,
		h:          sha256.New(),
		left:       entry.OriginalSize,
	}
}

func (v *verifier) Read(p []byte) (int, error) {
	switch {
	case v.err != nil:
		return 0, v.err
	case v.done:
		return 0, io.EOF
	case len(p) == 0:
		return 0, nil
	case v.left == 0:
		if err := v.finish(); err != nil {
			return 0, err
		}
		return 0, io.EOF
	}

	if uint64(len(p)) > v.left {
		p = p[:v.left]
	}
	n, err := v.r.Read(p)
	_, _ = v.h.Write(p[:n]) //nolint:errcheck // hash writes never fail
	v.left -= uint64(n)     //nolint:gosec // n is bounded by len(p)

	switch {
	case errors.Is(err, io.EOF) && v.left > 0:
		return n, v.fail(io.ErrUnexpectedEOF)
	case errors.Is(err, io.EOF):
		if ferr := v.finish(); ferr != nil {
			return n, ferr
		}
		return n, io.EOF
	case err != nil:
		return n, v.fail(err)
	}
	return n, nil
}

// finish confirms the source is exhausted and the digest matches. It is
// idempotent and returns nil on success.
func (v *verifier) finish() error {
	if v.done || v.err != nil {
		return v.err
	}
	var scratch [1]byte
	for {
		n, err := v.r.Read(scratch[:])
		if n > 0 {
			v.err = fmt.Errorf("read %s: %w", v.path, ErrSizeOverflow)
			return v.err
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return v.fail(err)
		}
	}
	if !bytes.Equal(v.h.Sum(nil), v.want) {
		v.err = fmt.Errorf("read %s: %w", v.path, ErrHashMismatch)
		return v.err
	}
	v.done = true
	return nil
}

// ended reports whether the stream reached a verdict.
func (v *verifier) ended() bool {
	return v.done || v.err != nil
}

func (v *verifier) fail(err error) error {
	if v.compressed {
		v.err = fmt.Errorf("read %s: %w: %v", v.path, ErrDecompression, err)
	} else {
		v.err = fmt.Errorf("read %s: %w", v.path, err)
	}
	return v.err
}
