// Package components renders the building blocks of a page. Each component
// turns Props into an HTML fragment and contributes CSS to the site
// stylesheet; layouts arrange components into page regions.
package components

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"git.home.luguber.info/inful/catpages/internal/content"
	"git.home.luguber.info/inful/catpages/internal/slugs"
)

// Site carries site-wide settings into components.
type Site struct {
	Title   string
	BaseURL string
	Locale  string
}

// Link is a labelled URL.
type Link struct {
	Text string
	URL  string
}

// Props is everything a component may read while rendering one page.
type Props struct {
	Site      Site
	Page      *content.Page
	AllPages  []*content.Page
	Resources Resources
}

// Slug returns the slug of the page being rendered.
func (p Props) Slug() string {
	if p.Page == nil {
		return ""
	}
	return p.Page.Slug
}

// Root returns the relative path from the rendered page to the site root.
func (p Props) Root() string {
	return slugs.PathToRoot(p.Slug())
}

// WithPages returns a copy of p listing a different set of pages.
func (p Props) WithPages(pages []*content.Page) Props {
	p.AllPages = pages
	return p
}

// Component renders a fragment of a page.
type Component interface {
	Name() string
	Render(Props) (template.HTML, error)
	CSS() string
}

type component struct {
	name   string
	css    string
	render func(Props) (template.HTML, error)
}

func (c *component) Name() string { return c.name }

func (c *component) CSS() string { return c.css }

func (c *component) Render(p Props) (template.HTML, error) {
	out, err := c.render(p)
	if err != nil {
		return "", fmt.Errorf("%s: %w", c.name, err)
	}
	return out, nil
}

func newComponent(name, css string, render func(Props) (template.HTML, error)) Component {
	return &component{name: name, css: css, render: render}
}

func mustTemplate(name, text string) *template.Template {
	return template.Must(template.New(name).Parse(text))
}

func execute(t *template.Template, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil //nolint:gosec // produced by html/template
}

func classNames(classes ...string) string {
	out := make([]string, 0, len(classes))
	for _, c := range classes {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return strings.Join(out, " ")
}

// resolveRelative links from the page at current to target, as seen from
// current's directory.
func resolveRelative(current, target string) string {
	target = slugs.SimplifySlug(target)
	if target == "/" {
		target = ""
	}
	return slugs.JoinSegments(slugs.PathToRoot(current), target)
}

const dateLayout = "Jan 2, 2006"
