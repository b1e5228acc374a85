// Package walk flattens a subtree of a resource table into a mapping from
// file base name to file content.
//
// The mapping mirrors a JavaScript object built by assignment: a later file
// with an already-seen base name replaces the value but keeps the position
// of the first insertion.
package walk

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"maps"
	"path"
	"slices"

	"github.com/meigma/rcfs"
)

var (
	// ErrStructural is returned when a walked entry is neither a regular
	// file nor a directory. It indicates a corrupted or foreign index.
	ErrStructural = errors.New("walk: entry is neither file nor directory")

	// ErrNotDir is returned when the walk root is not a directory.
	ErrNotDir = errors.New("walk: not a directory")
)

// Walker flattens directories of an fs.FS, normally an *rcfs.Table.
type Walker struct {
	fsys   fs.FS
	logger *slog.Logger
}

// Option configures a Walker.
type Option func(*Walker)

// WithLogger sets the logger for traversal debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Walker) {
		w.logger = logger
	}
}

// New returns a Walker over fsys.
func New(fsys fs.FS, opts ...Option) *Walker {
	w := &Walker{fsys: fsys}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Walker) log() *slog.Logger {
	if w.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return w.logger
}

// Walk collects every regular file below root. Children are visited in
// ReadDir order, depth first, exactly as a recursive pre-order walk would.
//
// root is normalized with rcfs.NormalizePath; "" and "." walk everything.
func (w *Walker) Walk(root string) (*Files, error) {
	name := rcfs.NormalizePath(root)
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "walk", Path: root, Err: fs.ErrInvalid}
	}

	info, err := fs.Stat(w.fsys, name)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &fs.PathError{Op: "walk", Path: name, Err: ErrNotDir}
	}

	files := NewFiles()
	stack := []pending{{name: name, dir: true}}
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if item.bad {
			return nil, &fs.PathError{Op: "walk", Path: item.name, Err: ErrStructural}
		}
		if !item.dir {
			if err := w.addFile(files, item.name); err != nil {
				return nil, err
			}
			continue
		}

		entries, err := fs.ReadDir(w.fsys, item.name)
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", item.name, err)
		}
		w.log().Debug("walking directory", "dir", item.name, "entries", len(entries))

		// Reverse push so the first child is popped first.
		for i := len(entries) - 1; i >= 0; i-- {
			entry := entries[i]
			p := path.Join(item.name, entry.Name())
			switch {
			case entry.IsDir():
				stack = append(stack, pending{name: p, dir: true})
			case entry.Type().IsRegular():
				stack = append(stack, pending{name: p})
			default:
				stack = append(stack, pending{name: p, bad: true})
			}
		}
	}
	return files, nil
}

// pending is a stacked walk item.
type pending struct {
	name string
	dir  bool
	bad  bool
}

func (w *Walker) addFile(files *Files, name string) error {
	content, err := fs.ReadFile(w.fsys, name)
	if err != nil {
		return fmt.Errorf("walk %s: %w", name, err)
	}
	files.Set(path.Base(name), string(content))
	return nil
}

// Files is an insertion-ordered mapping from base name to content.
type Files struct {
	keys   []string
	values map[string]string
}

// NewFiles returns an empty mapping.
func NewFiles() *Files {
	return &Files{values: make(map[string]string)}
}

// Set stores content under name. An existing name keeps its position.
func (f *Files) Set(name, content string) {
	if _, ok := f.values[name]; !ok {
		f.keys = append(f.keys, name)
	}
	f.values[name] = content
}

// Len returns the number of distinct names.
func (f *Files) Len() int {
	return len(f.keys)
}

// Keys returns the names in first-insertion order.
func (f *Files) Keys() []string {
	return slices.Clone(f.keys)
}

// Get returns the content stored under name.
func (f *Files) Get(name string) (string, bool) {
	content, ok := f.values[name]
	return content, ok
}

// All iterates over names and contents in first-insertion order.
func (f *Files) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, k := range f.keys {
			if !yield(k, f.values[k]) {
				return
			}
		}
	}
}

// Map returns a copy of the mapping without order.
func (f *Files) Map() map[string]string {
	return maps.Clone(f.values)
}
