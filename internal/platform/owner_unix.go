//go:build unix

package platform

import (
	"io/fs"
	"syscall"
)

// OwnerOf returns the numeric owner from info.Sys(), or the zero Owner when
// info carries no stat data (for example, entries of an fstest.MapFS).
func OwnerOf(info fs.FileInfo) Owner {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return Owner{}
	}
	return Owner{UID: st.Uid, GID: st.Gid}
}
