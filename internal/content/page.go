// Package content loads Markdown source files into immutable page records.
package content

import (
	"strings"
	"time"

	"git.home.luguber.info/inful/catpages/internal/frontmatter"
	"git.home.luguber.info/inful/catpages/internal/markdown"
)

// wordsPerMinute drives ReadingTime.
const wordsPerMinute = 200

// Page is one processed source document. Pages are built once per build and
// shared read-only between emitters and components.
type Page struct {
	Slug         string
	FilePath     string
	RelativePath string
	Frontmatter  *frontmatter.Frontmatter
	Body         []byte
	Document     markdown.Document
	Description  string
	Fingerprint  string
}

// NewPlaceholder returns a synthetic page with only a slug and a title. It has
// no source file and an empty body.
func NewPlaceholder(slug, title string) *Page {
	return &Page{
		Slug: slug,
		Frontmatter: &frontmatter.Frontmatter{
			Title:      title,
			Categories: []string{},
			Fields:     map[string]any{frontmatter.KeyTitle: title},
		},
	}
}

func (p *Page) fm() *frontmatter.Frontmatter {
	if p.Frontmatter == nil {
		return &frontmatter.Frontmatter{}
	}
	return p.Frontmatter
}

// Title returns the frontmatter title.
func (p *Page) Title() string { return p.fm().Title }

// Categories returns the page's categories as written, in frontmatter order.
func (p *Page) Categories() []string { return p.fm().Categories }

func (p *Page) Tags() []string { return p.fm().Tags }

func (p *Page) CSSClasses() []string { return p.fm().CSSClasses }

func (p *Page) Date() time.Time { return p.fm().Date }

// IsPlaceholder reports whether the page was synthesised rather than loaded.
func (p *Page) IsPlaceholder() bool { return p.FilePath == "" }

// HasContent reports whether the rendered body is non-empty.
func (p *Page) HasContent() bool { return !p.Document.Empty() }

// WordCount counts whitespace separated words in the Markdown body.
func (p *Page) WordCount() int { return len(strings.Fields(string(p.Body))) }

// ReadingTime estimates reading time in whole minutes, at least one for any
// page with words.
func (p *Page) ReadingTime() time.Duration {
	words := p.WordCount()
	if words == 0 {
		return 0
	}
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	return time.Duration(minutes) * time.Minute
}

// FindBySlug returns the first page with the given slug.
func FindBySlug(pages []*Page, slug string) (*Page, bool) {
	for _, p := range pages {
		if p.Slug == slug {
			return p, true
		}
	}
	return nil, false
}
