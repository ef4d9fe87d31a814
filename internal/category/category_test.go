package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/catpages/internal/content"
	cperrors "git.home.luguber.info/inful/catpages/internal/errors"
	"git.home.luguber.info/inful/catpages/internal/frontmatter"
	"git.home.luguber.info/inful/catpages/internal/util/sets"
)

func page(slug string, cats ...string) *content.Page {
	return &content.Page{
		Slug:        slug,
		FilePath:    "/src/" + slug + ".md",
		Frontmatter: &frontmatter.Frontmatter{Title: slug, Categories: cats},
	}
}

func TestExpand(t *testing.T) {
	assert.Equal(t, []string{"a", "a/b", "c"}, Expand([]string{"a/b", " c ", ""}))
	assert.Nil(t, Expand(nil))
}

func TestExpand_DropsDotSegments(t *testing.T) {
	assert.Equal(t, []string{"x", "x/escaped"}, Expand([]string{"x/../../../escaped"}))
	assert.Equal(t, []string{"a", "a/b"}, Expand([]string{"./a//b/."}))
	assert.Empty(t, Expand([]string{"..", "/./"}))
	assert.Equal(t, "a/b", Normalize(" /a/b/ "))
}

func TestUniverse_Example(t *testing.T) {
	pages := []*content.Page{
		page("p1", "tech"),
		page("p2", "tech", "life"),
		page("p3"),
	}

	u := Universe(pages)
	assert.Equal(t, sets.New("tech", "life", "index"), u)

	assert.Equal(t, []*content.Page{pages[0], pages[1]}, Members(pages, "tech"))
	assert.Equal(t, []*content.Page{pages[1]}, Members(pages, "life"))
	assert.Empty(t, Members(pages, "index"))
}

func TestMembers_HierarchicalPrefix(t *testing.T) {
	p := page("x", "a/b")
	pages := []*content.Page{p}

	assert.Equal(t, []*content.Page{p}, Members(pages, "a"))
	assert.Equal(t, []*content.Page{p}, Members(pages, "a/b"))
	assert.Empty(t, Members(pages, "b"))
}

func TestUniverse_NoCategories(t *testing.T) {
	u := Universe([]*content.Page{page("x"), {Slug: "nofm"}})
	assert.Equal(t, sets.New("index"), u)
}

func TestSorted_Collation(t *testing.T) {
	s := sets.New("cat10", "Beta", "cat2", "alpha", "index")
	assert.Equal(t, []string{"alpha", "Beta", "cat2", "cat10", "index"}, Sorted(s))
}

func TestCompare(t *testing.T) {
	assert.Negative(t, Compare("cat2", "cat10"))
	assert.Negative(t, Compare("apple", "Banana"))
	assert.Zero(t, Compare("same", "same"))
}

func TestDescriptions(t *testing.T) {
	authored := page("categories/tech")
	stray := page("categories/unused")
	pages := []*content.Page{page("p1", "tech", "life"), authored, stray}

	got := Descriptions(pages, Universe(pages), DefaultTitles)
	require.Len(t, got, 3)

	assert.Same(t, authored, got["tech"])
	assert.Equal(t, "Category: life", got["life"].Title())
	assert.Equal(t, "categories/life", got["life"].Slug)
	assert.Empty(t, got["life"].Categories())
	assert.Equal(t, "All Categories", got["index"].Title())
	assert.NotContains(t, got, "unused")
}

func TestDescriptionPage_MatchesSluggifiedSlug(t *testing.T) {
	authored := page("categories/my-notes")
	pages := []*content.Page{page("p", "my notes"), authored}

	got, ok := DescriptionPage(pages, "my notes")
	require.True(t, ok)
	assert.Same(t, authored, got)

	_, ok = DescriptionPage(pages, "other")
	assert.False(t, ok)
}

func TestTitles_Custom(t *testing.T) {
	titles := Titles{Index: "Kategorien", Prefix: "Kategorie"}
	assert.Equal(t, "Kategorie: x", titles.Title("x"))
	assert.Equal(t, "Kategorien", titles.Title("index"))
}

func TestParseSlug(t *testing.T) {
	tests := []struct {
		slug string
		want string
	}{
		{"categories/index", "/"},
		{"cats", "/"},
		{"categories/tech", "tech"},
		{"categories/a/b", "a/b"},
	}
	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			got, err := ParseSlug(tt.slug)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSlug_RejectsNonCategory(t *testing.T) {
	_, err := ParseSlug("notes/hello")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrNotCategoryPage)
	assert.Contains(t, err.Error(), "notes/hello")

	ce, ok := cperrors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, cperrors.CategoryConfig, ce.Category())
	assert.True(t, ce.IsFatal())
	assert.False(t, ce.CanRetry())
}

func TestOutputSlug(t *testing.T) {
	assert.Equal(t, "categories/my-notes", OutputSlug("my notes"))
	assert.Equal(t, "categories/a/b", OutputSlug("a/b"))
	assert.Equal(t, "categories/index", Slug(RootToken))
}
