package write

import (
	"fmt"
	"io/fs"
	"os"
)

// CheckFileUnchanged verifies a file wasn't modified while it was packed.
// In strict mode, it compares size, mtime, and permissions before/after.
func CheckFileUnchanged(f fs.File, path string, before fs.FileInfo, strict bool) error {
	if !strict {
		return nil
	}
	after, err := f.Stat()
	if err != nil {
		return err
	}
	if after.Size() != before.Size() || !after.ModTime().Equal(before.ModTime()) || after.Mode().Perm() != before.Mode().Perm() {
		return fmt.Errorf("file changed during packing: %s", path)
	}
	return nil
}

// ValidateFileInfo checks that the walked info and the opened file agree in
// strict mode.
func ValidateFileInfo(path string, info, finfo fs.FileInfo, strict bool) error {
	if !strict {
		return nil
	}
	if info == nil {
		return fmt.Errorf("missing file info: %s", path)
	}
	if info.Sys() != nil && finfo.Sys() != nil && !os.SameFile(info, finfo) {
		return fmt.Errorf("file changed during packing: %s", path)
	}
	if info.Size() != finfo.Size() {
		return fmt.Errorf("file changed during packing: %s", path)
	}
	return nil
}

// ResolveEntryInfo gets FileInfo for a walked entry, filtering out symlinks
// and non-regular files. ok=false means the entry should be skipped.
func ResolveEntryInfo(fsys fs.FS, name string, d fs.DirEntry, strict bool) (info fs.FileInfo, ok bool, err error) {
	dtype := d.Type()
	if dtype&fs.ModeSymlink != 0 {
		return nil, false, nil
	}

	if dtype == 0 {
		linfo, err := fs.Lstat(fsys, name)
		if err != nil {
			return nil, false, err
		}
		if !linfo.Mode().IsRegular() {
			return nil, false, nil
		}
		return linfo, true, nil
	}

	if !dtype.IsRegular() {
		return nil, false, nil
	}
	if !strict {
		return nil, true, nil
	}

	info, err = d.Info()
	if err != nil {
		return nil, false, err
	}
	if !info.Mode().IsRegular() {
		return nil, false, nil
	}
	return info, true, nil
}
