// Package category implements the hierarchical category taxonomy: prefix
// expansion, the per-build category universe, membership and collation order.
package category

import (
	"errors"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/catpages/internal/content"
	"git.home.luguber.info/inful/catpages/internal/slugs"
	"git.home.luguber.info/inful/catpages/internal/util/sets"
)

const (
	// RootToken names the listing of all categories.
	RootToken = slugs.IndexSegment
	// SlugPrefix is the slug namespace of category pages.
	SlugPrefix = "categories/"
	// RootMarker is the alternative slug that also renders the root listing.
	RootMarker = "cats"
)

// ErrNotCategoryPage is returned when a category view is asked to render a
// page outside the category namespace.
var ErrNotCategoryPage = errors.New("not a category page")

// Expand returns the prefix chains of every category, in input order,
// duplicates included. Empty, "." and ".." segments are dropped, so a
// category always names a path below the category namespace.
func Expand(categories []string) []string {
	var out []string
	for _, c := range categories {
		c = Normalize(c)
		if c == "" {
			continue
		}
		out = append(out, slugs.AllSegmentPrefixes(c)...)
	}
	return out
}

// Normalize trims a frontmatter category and removes empty, "." and ".."
// segments.
func Normalize(c string) string {
	parts := strings.Split(strings.TrimSpace(c), "/")
	kept := parts[:0]
	for _, part := range parts {
		if part == "" || part == "." || part == ".." {
			continue
		}
		kept = append(kept, part)
	}
	return strings.Join(kept, "/")
}

// Of returns the expanded category set of a page.
func Of(p *content.Page) sets.Set[string] {
	return sets.New(Expand(p.Categories())...)
}

// Used returns every expanded category used by any page. The root token is
// not included.
func Used(pages []*content.Page) sets.Set[string] {
	used := sets.New[string]()
	for _, p := range pages {
		used.Add(Expand(p.Categories())...)
	}
	return used
}

// Universe returns the categories that get an output page: every used
// category plus the root.
func Universe(pages []*content.Page) sets.Set[string] {
	u := Used(pages)
	u.Add(RootToken)
	return u
}

// Members returns the pages that carry cat in their expanded categories,
// preserving input order.
func Members(pages []*content.Page, cat string) []*content.Page {
	var out []*content.Page
	for _, p := range pages {
		for _, c := range Expand(p.Categories()) {
			if c == cat {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// Slug returns the page slug of a category.
func Slug(cat string) string {
	return slugs.JoinSegments("categories", cat)
}

// OutputSlug is the sluggified slug used for the written file and for links.
func OutputSlug(cat string) string {
	return slugs.JoinSegments("categories", slugs.SlugTag(cat))
}

var (
	collatorMu sync.Mutex
	collator   = collate.New(language.Und, collate.IgnoreCase, collate.Numeric)
)

// Compare orders categories case-insensitively with numeric runs compared by
// value, so "cat2" sorts before "cat10".
func Compare(a, b string) int {
	collatorMu.Lock()
	defer collatorMu.Unlock()
	if c := collator.CompareString(a, b); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// Sorted returns the members of s in collation order.
func Sorted(s sets.Set[string]) []string {
	out := s.Values()
	slices.SortFunc(out, Compare)
	return out
}
