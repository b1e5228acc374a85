package rcfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":                      ".",
		"/":                     ".",
		"///":                   ".",
		".":                     ".",
		"greeting.txt":          "greeting.txt",
		"/etc/nginx/nginx.conf": "etc/nginx/nginx.conf",
		"etc/nginx/":            "etc/nginx",
		"//etc//nginx//":        "etc/nginx",
		// fs.ValidPath rejects these after normalization.
		"a/../b": "a/../b",
		"..":     "..",
		"./a":    "./a",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizePath(in), "NormalizePath(%q)", in)
	}
}
