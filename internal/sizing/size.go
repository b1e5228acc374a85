// Package sizing converts and bounds the uint64 sizes stored in an index.
package sizing

import (
	"io"
	"math"
)

// ToInt converts size to int, or returns overflowErr when it does not fit.
func ToInt(size uint64, overflowErr error) (int, error) {
	if size > math.MaxInt {
		return 0, overflowErr
	}
	return int(size), nil
}

// ToInt64 converts size to int64, or returns overflowErr when it does not fit.
func ToInt64(size uint64, overflowErr error) (int64, error) {
	if size > math.MaxInt64 {
		return 0, overflowErr
	}
	return int64(size), nil
}

// AddUint64 returns a+b, with ok false on wraparound.
func AddUint64(a, b uint64) (sum uint64, ok bool) {
	if a > math.MaxUint64-b {
		return 0, false
	}
	return a + b, true
}

// ReadAllWithLimit reads r to EOF and returns overflowErr once more than
// maxSize bytes arrive. Zero means no limit.
func ReadAllWithLimit(r io.Reader, maxSize uint64, overflowErr error) ([]byte, error) {
	if maxSize == 0 {
		return io.ReadAll(r)
	}
	if maxSize >= math.MaxInt64 {
		return nil, overflowErr
	}
	data, err := io.ReadAll(io.LimitReader(r, int64(maxSize)+1))
	switch {
	case err != nil:
		return nil, err
	case uint64(len(data)) > maxSize:
		return nil, overflowErr
	}
	return data, nil
}
