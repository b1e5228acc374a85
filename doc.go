// Package rcfs provides a read-only virtual filesystem that is packed at
// build time and embedded in the binary.
//
// A table consists of two blobs:
//   - Index blob: FlatBuffers-encoded file metadata enabling O(log n) lookups
//   - Data blob: Concatenated file contents, sorted by path
//
// Directories are not stored; they are synthesized from path prefixes.
//
// # Quick Start
//
// Pack a directory at build time (see cmd/rcpack), then embed the result:
//
//	//go:generate go run github.com/meigma/rcfs/cmd/rcpack --out assets ./resources
//
//	//go:embed assets/index.blob assets/data.blob
//	var assets embed.FS
//
//	sub, _ := fs.Sub(assets, "assets")
//	table, err := rcfs.LoadFS(sub)
//	if err != nil {
//	    return err
//	}
//	content, err := table.ReadFile("config/app.json")
//
// Table implements fs.FS, fs.StatFS, fs.ReadFileFS, and fs.ReadDirFS. The
// walk, compare and binding packages build on it.
package rcfs
