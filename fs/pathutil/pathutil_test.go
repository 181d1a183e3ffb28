package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var samplePaths = []string{
	"", "/", "//", "a", "/a", "a/", "/a/", "a/b", "a/b/", "//a//b//", "a//b", "./a", "a/../b",
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"/", ""},
		{"a", "a"},
		{"/a/", "a"},
		{"a/b/", "a/b"},
		{"//a//b//", "a//b"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, p := range samplePaths {
		once := Normalize(p)
		assert.Equal(t, once, Normalize(once), "path %q", p)
	}
}

func TestIsDirHint(t *testing.T) {
	assert.True(t, IsDirHint("a/"))
	assert.True(t, IsDirHint("/"))
	assert.False(t, IsDirHint("a"))
	assert.False(t, IsDirHint(""))
}

func TestDirKey(t *testing.T) {
	assert.Equal(t, "", DirKey(""))
	assert.Equal(t, "", DirKey("/"))
	assert.Equal(t, "a/", DirKey("a"))
	assert.Equal(t, "a/b/", DirKey("/a/b/"))
}

func TestJoin(t *testing.T) {
	tests := []struct {
		name string
		base string
		elem string
		want string
	}{
		{name: "plain", base: "a", elem: "b", want: "a/b"},
		{name: "base with delimiter", base: "a/", elem: "b", want: "a/b"},
		{name: "both with delimiter", base: "a/", elem: "/b", want: "a/b"},
		{name: "empty base", base: "", elem: "b", want: "b"},
		{name: "root base", base: "/", elem: "b", want: "b"},
		{name: "nested name", base: "x", elem: "sub/y.txt", want: "x/sub/y.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Join(tt.base, tt.elem))
		})
	}
}

func TestBase(t *testing.T) {
	assert.Equal(t, "x.txt", Base("a/b/x.txt"))
	assert.Equal(t, "b", Base("/a/b/"))
	assert.Equal(t, "a", Base("a"))
	assert.Equal(t, "", Base(""))
}

func TestParent(t *testing.T) {
	assert.Equal(t, "a/b", Parent("a/b/x.txt"))
	assert.Equal(t, "a", Parent("a/b/"))
	assert.Equal(t, "", Parent("a"))
}

func TestRelativeTo(t *testing.T) {
	tests := []struct {
		name string
		full string
		base string
		want string
	}{
		{name: "file under base", full: "a/x.txt", base: "a", want: "x.txt"},
		{name: "nested file", full: "a/sub/y.txt", base: "a/", want: "sub/y.txt"},
		{name: "directory entry", full: "a/sub/", base: "a", want: "sub"},
		{name: "single object", full: "a/x.txt", base: "a/x.txt", want: "x.txt"},
		{name: "root base", full: "a/x.txt", base: "", want: "a/x.txt"},
		{name: "outside base", full: "other/z.txt", base: "a", want: "z.txt"},
		{name: "sibling with shared prefix", full: "ab/z.txt", base: "a", want: "z.txt"},
		{name: "leading delimiters ignored", full: "/a/x.txt", base: "/a", want: "x.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeTo(tt.full, tt.base))
		})
	}
}

func TestRelativeTo_NeverEmptyUnderBase(t *testing.T) {
	pairs := [][2]string{
		{"a", "a"}, {"a/", "a"}, {"a/b", "a"}, {"a/b/", "a/"}, {"a//b", "a"}, {"a/b/c", "a/b"},
	}
	for _, p := range pairs {
		got := RelativeTo(p[0], p[1])
		assert.NotEmpty(t, got, "RelativeTo(%q, %q)", p[0], p[1])
		if Normalize(p[0]) == Normalize(p[1]) {
			assert.Equal(t, Base(p[0]), got)
		}
	}
}

func TestIsWithin(t *testing.T) {
	assert.True(t, IsWithin("a/b", "a"))
	assert.True(t, IsWithin("a", "a/"))
	assert.True(t, IsWithin("anything", ""))
	assert.False(t, IsWithin("ab", "a"))
	assert.False(t, IsWithin("a", "a/b"))
}

func TestDepth(t *testing.T) {
	assert.Equal(t, 0, Depth("a"))
	assert.Equal(t, 1, Depth("a/b/"))
	assert.Equal(t, 2, Depth("/a/b/c"))
}

func TestHasDoubledDelimiter(t *testing.T) {
	assert.True(t, HasDoubledDelimiter("a//b"))
	assert.False(t, HasDoubledDelimiter("a/b/"))
}

func TestAncestors(t *testing.T) {
	assert.Nil(t, Ancestors(""))
	assert.Nil(t, Ancestors("/"))
	assert.Equal(t, []string{"a/"}, Ancestors("a"))
	assert.Equal(t, []string{"a/", "a/b/", "a/b/c/"}, Ancestors("/a/b/c/"))
}
