package components

import (
	"html/template"

	"git.home.luguber.info/inful/catpages/internal/markdown"
)

// tocMaxDepth limits the headings shown, relative to the shallowest one.
const tocMaxDepth = 3

type tocEntry struct {
	Depth int
	Text  string
	ID    string
}

var tocTmpl = mustTemplate("toc", `<div class="toc">
<h3>Table of Contents</h3>
<ul class="overflow">
{{- range .}}
<li class="depth-{{.Depth}}"><a href="#{{.ID}}" data-for="{{.ID}}">{{.Text}}</a></li>
{{- end}}
</ul>
</div>`)

// TableOfContents lists the page headings. Pages without headings render
// nothing.
func TableOfContents() Component {
	return newComponent("TableOfContents", `
.toc > ul {
  list-style: none;
  padding-left: 0;
}

.toc li.depth-1 { padding-left: 1rem; }
.toc li.depth-2 { padding-left: 2rem; }
`, func(p Props) (template.HTML, error) {
		if p.Page == nil {
			return "", nil
		}
		entries := tocEntries(p.Page.Document.Headings)
		if len(entries) == 0 {
			return "", nil
		}
		return execute(tocTmpl, entries)
	})
}

func tocEntries(headings []markdown.Heading) []tocEntry {
	if len(headings) == 0 {
		return nil
	}
	top := headings[0].Level
	for _, h := range headings {
		top = min(top, h.Level)
	}
	var out []tocEntry
	for _, h := range headings {
		depth := h.Level - top
		if depth >= tocMaxDepth {
			continue
		}
		out = append(out, tocEntry{Depth: depth, Text: h.Text, ID: h.ID})
	}
	return out
}
