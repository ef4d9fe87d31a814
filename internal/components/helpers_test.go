package components

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/catpages/internal/content"
	"git.home.luguber.info/inful/catpages/internal/frontmatter"
	"git.home.luguber.info/inful/catpages/internal/markdown"
)

type pageOpt func(*content.Page)

func withCategories(cats ...string) pageOpt {
	return func(p *content.Page) { p.Frontmatter.Categories = cats }
}

func withDate(s string) pageOpt {
	return func(p *content.Page) {
		d, _ := time.Parse("2006-01-02", s)
		p.Frontmatter.Date = d
	}
}

func withBody(t *testing.T, body string) pageOpt {
	return func(p *content.Page) {
		doc, err := markdown.NewRenderer(markdown.Options{}).Render([]byte(body))
		require.NoError(t, err)
		p.Body = []byte(body)
		p.Document = doc
	}
}

func withDescription(d string) pageOpt {
	return func(p *content.Page) { p.Description = d }
}

func withCSSClasses(classes ...string) pageOpt {
	return func(p *content.Page) { p.Frontmatter.CSSClasses = classes }
}

func newPage(slug, title string, opts ...pageOpt) *content.Page {
	p := &content.Page{
		Slug:        slug,
		FilePath:    "/content/" + slug + ".md",
		Frontmatter: &frontmatter.Frontmatter{Title: title},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func texts(sel *goquery.Selection) []string {
	var out []string
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.TrimSpace(s.Text()))
	})
	return out
}

func attrs(sel *goquery.Selection, name string) []string {
	var out []string
	sel.Each(func(_ int, s *goquery.Selection) {
		v, _ := s.Attr(name)
		out = append(out, v)
	})
	return out
}
