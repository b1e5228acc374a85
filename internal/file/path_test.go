package file

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"", "."},
		{".", "."},
		{"a.txt", "a.txt"},
		{"dir/a.txt", "a.txt"},
		{"dir/sub/", "sub"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Base(tt.path), "Base(%q)", tt.path)
	}
}

func TestChild(t *testing.T) {
	t.Parallel()

	name, sub := Child("dir/sub/a.txt", "dir/")
	assert.Equal(t, "sub", name)
	assert.True(t, sub)

	name, sub = Child("dir/a.txt", "dir/")
	assert.Equal(t, "a.txt", name)
	assert.False(t, sub)

	assert.Equal(t, "", DirPrefix("."))
	assert.Equal(t, "dir/", DirPrefix("dir"))
}
