package index

import (
	"bytes"
	"errors"
	"fmt"
	"iter"
	"sort"

	"github.com/meigma/rcfs/internal/fb"
	"github.com/meigma/rcfs/internal/resource"
)

// FormatVersion is the index format version written by the packer.
const FormatVersion = 1

// ErrUnsupportedVersion is returned when an index declares a format version
// this package cannot read.
var ErrUnsupportedVersion = errors.New("rcfs: unsupported index version")

// Index provides access to table entries.
//
// Accessors return read-only EntryView values that alias index data.
type Index struct {
	data []byte
	root *fb.Index
}

// Load parses a FlatBuffers-encoded index blob.
//
// The provided data is retained by the index; callers must not modify it
// after calling Load.
func Load(data []byte) (idx *Index, err error) {
	defer func() {
		if r := recover(); r != nil {
			idx = nil
			err = fmt.Errorf("rcfs: failed to parse index: %v", r)
		}
	}()
	if len(data) == 0 {
		return nil, errors.New("rcfs: empty index data")
	}

	root := fb.GetRootAsIndex(data, 0)
	if root == nil {
		return nil, errors.New("rcfs: failed to parse index")
	}
	if v := root.Version(); v != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}
	if alg := root.HashAlgorithm(); alg != fb.HashAlgorithmSHA256 {
		return nil, fmt.Errorf("rcfs: unsupported hash algorithm %s", alg)
	}
	// Touch the entries vector so a truncated buffer fails here instead of
	// on first lookup.
	_ = root.EntriesLength()

	return &Index{data: data, root: root}, nil
}

// Version returns the format version of the index.
func (idx *Index) Version() uint32 {
	return idx.root.Version()
}

// DataHash returns the SHA256 of the data blob.
// The returned slice aliases the index buffer and must be treated as immutable.
func (idx *Index) DataHash() ([]byte, bool) {
	hash := idx.root.DataHashBytes()
	if len(hash) == 0 {
		return nil, false
	}
	return hash, true
}

// DataSize returns the size of the data blob in bytes.
// ok is false when the index did not record data metadata.
func (idx *Index) DataSize() (uint64, bool) {
	if _, ok := idx.DataHash(); !ok {
		return 0, false
	}
	return idx.root.DataSize(), true
}

// LookupView returns a read-only view of the entry stored at path.
func (idx *Index) LookupView(path string) (resource.EntryView, bool) {
	var fbEntry fb.Entry
	if !idx.root.EntriesByKey(&fbEntry, path) {
		return resource.EntryView{}, false
	}
	return resource.ViewFromFlatBuffers(fbEntry), true
}

// Len returns the number of stored entries.
func (idx *Index) Len() int {
	return idx.root.EntriesLength()
}

// EntriesView returns an iterator over all entries in path order.
func (idx *Index) EntriesView() iter.Seq[resource.EntryView] {
	return func(yield func(resource.EntryView) bool) {
		var fbEntry fb.Entry
		for i := range idx.root.EntriesLength() {
			if !idx.root.Entries(&fbEntry, i) {
				return
			}
			if !yield(resource.ViewFromFlatBuffers(fbEntry)) {
				return
			}
		}
	}
}

// EntriesWithPrefixView returns an iterator over entries whose path starts
// with prefix, in path order.
func (idx *Index) EntriesWithPrefixView(prefix string) iter.Seq[resource.EntryView] {
	return func(yield func(resource.EntryView) bool) {
		n := idx.root.EntriesLength()
		if n == 0 {
			return
		}
		prefixBytes := []byte(prefix)

		var fbEntry fb.Entry
		for i := idx.searchPrefix(prefixBytes); i < n; i++ {
			if !idx.root.Entries(&fbEntry, i) {
				return
			}
			if !bytes.HasPrefix(fbEntry.Path(), prefixBytes) {
				return
			}
			if !yield(resource.ViewFromFlatBuffers(fbEntry)) {
				return
			}
		}
	}
}

// HasPrefix reports whether any entry path starts with prefix.
func (idx *Index) HasPrefix(prefix string) bool {
	n := idx.root.EntriesLength()
	prefixBytes := []byte(prefix)
	i := idx.searchPrefix(prefixBytes)
	if i >= n {
		return false
	}
	var fbEntry fb.Entry
	if !idx.root.Entries(&fbEntry, i) {
		return false
	}
	return bytes.HasPrefix(fbEntry.Path(), prefixBytes)
}

// searchPrefix returns the position of the first entry not less than prefix.
func (idx *Index) searchPrefix(prefix []byte) int {
	return sort.Search(idx.root.EntriesLength(), func(i int) bool {
		var fbEntry fb.Entry
		if !idx.root.Entries(&fbEntry, i) {
			return false
		}
		return bytes.Compare(fbEntry.Path(), prefix) >= 0
	})
}
