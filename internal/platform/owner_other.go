//go:build !unix

package platform

import "io/fs"

// OwnerOf always returns the zero Owner; ownership is a Unix concept.
func OwnerOf(fs.FileInfo) Owner {
	return Owner{}
}
