// Package markdown renders Markdown bodies to HTML with goldmark and collects
// the structural facts (headings, links) that page components need.
package markdown

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// Options controls the goldmark engine. Unknown extension names are ignored.
type Options struct {
	Extensions []string
	HardWraps  bool
	Unsafe     bool
}

// Heading is a rendered section heading.
type Heading struct {
	Level int
	Text  string
	ID    string
}

type LinkKind string

const (
	LinkKindInline LinkKind = "inline"
	LinkKindImage  LinkKind = "image"
	LinkKindAuto   LinkKind = "auto"
)

type Link struct {
	Kind        LinkKind
	Destination string
}

// Document is the rendered form of a Markdown body.
type Document struct {
	HTML     template.HTML
	Headings []Heading
	Links    []Link
}

// Empty reports whether the body rendered to nothing visible.
func (d Document) Empty() bool {
	return strings.TrimSpace(string(d.HTML)) == ""
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
}

// Renderer wraps a configured goldmark engine. It holds no per-call state and
// is safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer builds a Renderer. With no extensions configured it enables GFM
// and footnotes.
func NewRenderer(opts Options) *Renderer {
	exts := collectExtensions(opts.Extensions)

	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if opts.Unsafe {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	md := goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendererOptions...),
	)
	return &Renderer{md: md}
}

func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{extension.GFM, extension.Footnote}
	}
	var out []goldmark.Extender
	seen := map[string]struct{}{}
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, ext)
	}
	return out
}

// Render parses body (frontmatter already removed) and renders it to HTML.
func (r *Renderer) Render(body []byte) (Document, error) {
	root := r.md.Parser().Parse(text.NewReader(body))

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, body, root); err != nil {
		return Document{}, fmt.Errorf("markdown render: %w", err)
	}

	doc := Document{HTML: template.HTML(buf.String())} //nolint:gosec // output of the markdown renderer
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Heading:
			h := Heading{Level: node.Level, Text: nodeText(node, body)}
			if id, ok := node.AttributeString("id"); ok {
				if b, ok := id.([]byte); ok {
					h.ID = string(b)
				}
			}
			doc.Headings = append(doc.Headings, h)
		case *gmast.AutoLink:
			doc.Links = append(doc.Links, Link{Kind: LinkKindAuto, Destination: string(node.URL(body))})
		case *gmast.Image:
			doc.Links = append(doc.Links, Link{Kind: LinkKindImage, Destination: string(node.Destination)})
		case *gmast.Link:
			doc.Links = append(doc.Links, Link{Kind: LinkKindInline, Destination: string(node.Destination)})
		}
		return gmast.WalkContinue, nil
	})
	return doc, nil
}

func nodeText(n gmast.Node, source []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *gmast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *gmast.String:
			b.Write(t.Value)
		default:
			b.WriteString(nodeText(c, source))
		}
	}
	return b.String()
}
