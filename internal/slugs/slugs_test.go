package slugs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSluggify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hello world", "hello-world"},
		{"R&D", "R-and-D"},
		{"100%", "100-percent"},
		{"what?#", "what"},
		{"a b/c d/", "a-b/c-d"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Sluggify(tt.in), tt.in)
	}
}

func TestSlugTag_KeepsHierarchy(t *testing.T) {
	assert.Equal(t, "game-dev/render-engine", SlugTag("game dev/render engine"))
}

func TestSlugifyFilePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"notes/My Note.md", "notes/My-Note"},
		{"/categories/tech.md", "categories/tech"},
		{"docs/_index.md", "docs/index"},
		{"img/logo.png", "img/logo.png"},
		{`win\path\page.md`, "win/path/page"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SlugifyFilePath(tt.in), tt.in)
	}
}

func TestJoinSegments(t *testing.T) {
	assert.Equal(t, "public/categories/tech.html", JoinSegments("public", "", "categories", "tech.html"))
	assert.Equal(t, "a/b", JoinSegments("a/", "/b"))
}

func TestPathToRoot(t *testing.T) {
	assert.Equal(t, ".", PathToRoot("index"))
	assert.Equal(t, ".", PathToRoot("note"))
	assert.Equal(t, "..", PathToRoot("categories/tech"))
	assert.Equal(t, "../..", PathToRoot("categories/a/b"))
}

func TestSimplifySlug(t *testing.T) {
	assert.Equal(t, "/", SimplifySlug("index"))
	assert.Equal(t, "/", SimplifySlug(""))
	assert.Equal(t, "tech", SimplifySlug("tech"))
	assert.Equal(t, "a/", SimplifySlug("a/index"))
	assert.Equal(t, "a/b", SimplifySlug("/a/b"))
}

func TestAllSegmentPrefixes(t *testing.T) {
	assert.Equal(t, []string{"a"}, AllSegmentPrefixes("a"))
	assert.Equal(t, []string{"a", "a/b", "a/b/c"}, AllSegmentPrefixes("a/b/c"))
}

func TestBreadcrumbs(t *testing.T) {
	assert.Nil(t, Breadcrumbs("note"))
	assert.Equal(t, []string{"a", "a/b"}, Breadcrumbs("a/b/c"))
	assert.Equal(t, []string{"a"}, Breadcrumbs("a/b/index"))
}
