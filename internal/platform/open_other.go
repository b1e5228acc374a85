//go:build !unix

package platform

import (
	"io/fs"
	"os"
)

// OpenFileNoFollow opens name below root, refusing a symbolic link with
// ErrSymlink. Without O_NOFOLLOW the check is an Lstat before the open
// and a SameFile comparison after it.
func OpenFileNoFollow(root *os.Root, name string) (*os.File, error) {
	linfo, err := root.Lstat(name)
	if err != nil {
		return nil, err
	}
	if linfo.Mode()&fs.ModeSymlink != 0 {
		return nil, ErrSymlink
	}
	f, err := root.Open(name)
	if err != nil {
		return nil, err
	}
	if info, err := f.Stat(); err != nil || !os.SameFile(linfo, info) {
		f.Close()
		return nil, ErrSymlink
	}
	return f, nil
}
