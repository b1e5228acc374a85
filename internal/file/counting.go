package file

import (
	"errors"
	"io"
	"math"
)

// ErrOverflow indicates a byte counter exceeded its maximum value.
var ErrOverflow = errors.New("counter overflow")

func addCount(total *uint64, n int) error {
	if n <= 0 {
		return nil
	}
	if *total > math.MaxUint64-uint64(n) {
		return ErrOverflow
	}
	*total += uint64(n)
	return nil
}

// CountingReader counts the bytes read through R.
type CountingReader struct {
	R io.Reader
	N uint64
}

func (cr *CountingReader) Read(p []byte) (int, error) {
	n, err := cr.R.Read(p)
	if cerr := addCount(&cr.N, n); cerr != nil {
		return n, cerr
	}
	return n, err
}

// CountingWriter counts the bytes written through W. With a nil W the
// bytes are only counted.
type CountingWriter struct {
	W io.Writer
	N uint64
}

func (cw *CountingWriter) Write(p []byte) (int, error) {
	n := len(p)
	var err error
	if cw.W != nil {
		n, err = cw.W.Write(p)
	}
	if cerr := addCount(&cw.N, n); cerr != nil {
		return n, cerr
	}
	return n, err
}
