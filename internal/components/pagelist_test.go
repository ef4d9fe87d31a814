package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/catpages/internal/content"
)

func titlesOf(pages []*content.Page) []string {
	out := make([]string, 0, len(pages))
	for _, p := range pages {
		out = append(out, p.Title())
	}
	return out
}

func TestSortPages(t *testing.T) {
	pages := []*content.Page{
		newPage("a", "zeta"),
		newPage("b", "Alpha"),
		newPage("c", "old", withDate("2020-01-01")),
		newPage("d", "new", withDate("2024-01-01")),
		newPage("e", "item10"),
		newPage("f", "item2"),
	}
	assert.Equal(t, []string{"new", "old", "Alpha", "item2", "item10", "zeta"}, titlesOf(SortPages(pages)))
	assert.Equal(t, "zeta", pages[0].Title(), "input must not be reordered")
}

func TestPageList_Render(t *testing.T) {
	current := newPage("categories/tech", "Tech")
	members := []*content.Page{
		newPage("notes/one", "One", withCategories("tech"), withDate("2024-03-05")),
		newPage("two", "Two"),
	}

	html, err := PageList().Render(Props{Page: current, AllPages: members})
	require.NoError(t, err)
	doc := parseHTML(t, string(html))

	assert.Equal(t, []string{"../notes/one", "../two"}, attrs(doc.Find("h3 a.internal"), "href"))
	assert.Equal(t, []string{"Mar 5, 2024"}, texts(doc.Find("p.meta time")))
	assert.Equal(t, []string{"2024-03-05"}, attrs(doc.Find("p.meta time"), "datetime"))
	assert.Equal(t, []string{"../categories/tech"}, attrs(doc.Find(".section > ul.cats a"), "href"))
}

func TestPageList_Empty(t *testing.T) {
	html, err := PageList().Render(Props{Page: newPage("categories/x", "X")})
	require.NoError(t, err)
	assert.Equal(t, 0, parseHTML(t, string(html)).Find("li").Length())
}
