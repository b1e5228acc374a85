// Package platform isolates OS-specific file handling used by the packer.
package platform

import "errors"

// ErrSymlink is returned when attempting to open a symbolic link.
var ErrSymlink = errors.New("rcfs: symbolic links not supported")

// Owner is the numeric owner recorded for a packed file.
type Owner struct {
	UID uint32
	GID uint32
}
