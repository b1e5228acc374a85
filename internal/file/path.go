package file

import (
	"path"
	"strings"
)

// Base returns the last element of a slash-separated table path.
func Base(name string) string {
	return path.Base(name)
}

// DirPrefix returns the prefix shared by every entry below directory name.
// The root "." maps to "", which matches every entry.
func DirPrefix(name string) string {
	if name == "." || name == "" {
		return ""
	}
	return name + "/"
}

// Child splits p below prefix into its first component. sub reports
// whether p continues past that component, meaning name is a directory.
func Child(p, prefix string) (name string, sub bool) {
	name, _, sub = strings.Cut(strings.TrimPrefix(p, prefix), "/")
	return name, sub
}
