package category

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/catpages/internal/content"
	cperrors "git.home.luguber.info/inful/catpages/internal/errors"
	"git.home.luguber.info/inful/catpages/internal/slugs"
	"git.home.luguber.info/inful/catpages/internal/util/sets"
)

// Titles configures the generated titles of categories without an authored
// page.
type Titles struct {
	// Index is the title of the root listing.
	Index string
	// Prefix precedes the category name, as in "Category: tech".
	Prefix string
}

// DefaultTitles are used when no configuration overrides them.
var DefaultTitles = Titles{Index: "All Categories", Prefix: "Category"}

// Title returns the placeholder title for cat.
func (t Titles) Title(cat string) string {
	if cat == RootToken {
		return t.Index
	}
	return fmt.Sprintf("%s: %s", t.Prefix, cat)
}

// Descriptions maps every category of the universe to the page that
// describes it: an authored page at categories/<cat> when one exists,
// otherwise a placeholder.
func Descriptions(pages []*content.Page, universe sets.Set[string], titles Titles) map[string]*content.Page {
	out := make(map[string]*content.Page, len(universe))
	for cat := range universe {
		if page, ok := DescriptionPage(pages, cat); ok {
			out[cat] = page
			continue
		}
		out[cat] = content.NewPlaceholder(Slug(cat), titles.Title(cat))
	}
	return out
}

// DescriptionPage finds the authored page describing cat. Its slug is either
// the category slug itself or the sluggified form produced from a file name.
func DescriptionPage(pages []*content.Page, cat string) (*content.Page, bool) {
	raw, sluggified := Slug(cat), OutputSlug(cat)
	for _, p := range pages {
		if p.Slug == raw || p.Slug == sluggified {
			return p, true
		}
	}
	return nil, false
}

// IsCategorySlug reports whether slug is rendered by the category view.
func IsCategorySlug(slug string) bool {
	return strings.HasPrefix(slug, SlugPrefix) || slug == RootMarker
}

// ParseSlug extracts the category a category page lists. The root listing,
// reached through "categories/index" or the root marker, yields "/". Any
// slug outside the category namespace is a fatal configuration error.
func ParseSlug(slug string) (string, error) {
	if !IsCategorySlug(slug) {
		return "", cperrors.WrapError(
			fmt.Errorf("%w: %q", ErrNotCategoryPage, slug),
			cperrors.CategoryConfig,
			"category content tried to render a non-category page",
		).Fatal().WithSlug(slug).Build()
	}
	if slug == RootMarker {
		return "/", nil
	}
	return slugs.SimplifySlug(strings.TrimPrefix(slug, SlugPrefix)), nil
}

// IsRoot reports whether a parsed category denotes the root listing.
func IsRoot(cat string) bool { return cat == "/" }
