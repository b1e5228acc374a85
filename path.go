package rcfs

import "strings"

// NormalizePath maps a script-supplied path onto the table's path form:
// leading, trailing and repeated slashes are dropped, and "" or "/" become
// the root ".". Dot segments are kept so fs.ValidPath still rejects them.
func NormalizePath(p string) string {
	parts := strings.FieldsFunc(p, func(r rune) bool { return r == '/' })
	if len(parts) == 0 {
		return "."
	}
	return strings.Join(parts, "/")
}
