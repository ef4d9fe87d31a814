package components

import (
	"html/template"
	"net/url"
	"path"
	"strings"

	"git.home.luguber.info/inful/catpages/internal/content"
	"git.home.luguber.info/inful/catpages/internal/slugs"
)

var backlinksTmpl = mustTemplate("backlinks", `<div class="backlinks">
<h3>Backlinks</h3>
<ul class="overflow">
{{- range .}}
<li><a href="{{.URL}}" class="internal">{{.Text}}</a></li>
{{- else}}
<li>No backlinks found</li>
{{- end}}
</ul>
</div>`)

// Backlinks lists the pages that link to the rendered page.
func Backlinks() Component {
	return newComponent("Backlinks", `
.backlinks > ul {
  list-style: none;
  padding-left: 0;
}
`, func(p Props) (template.HTML, error) {
		if p.Page == nil {
			return "", nil
		}
		var links []Link
		for _, other := range LinkingPages(p.AllPages, p.Page.Slug) {
			links = append(links, Link{Text: other.Title(), URL: resolveRelative(p.Page.Slug, other.Slug)})
		}
		return execute(backlinksTmpl, links)
	})
}

// LinkingPages returns the pages, other than target itself, with at least
// one internal link resolving to target.
func LinkingPages(pages []*content.Page, target string) []*content.Page {
	var out []*content.Page
	for _, page := range pages {
		if page.Slug == target {
			continue
		}
		for _, link := range page.Document.Links {
			if resolved, ok := ResolveLink(page.Slug, link.Destination); ok && sameSlug(resolved, target) {
				out = append(out, page)
				break
			}
		}
	}
	return out
}

// ResolveLink turns a Markdown link destination on the page at from into a
// page slug. External and fragment-only links do not resolve.
func ResolveLink(from, dest string) (string, bool) {
	if i := strings.IndexAny(dest, "#?"); i >= 0 {
		dest = dest[:i]
	}
	if dest == "" {
		return "", false
	}
	u, err := url.Parse(dest)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", false
	}
	p := u.Path
	var joined string
	if strings.HasPrefix(p, "/") {
		joined = path.Clean(p)
	} else {
		joined = path.Join(path.Dir(from), p)
	}
	joined = strings.TrimPrefix(joined, "/")
	if joined == "" || joined == "." || strings.HasPrefix(joined, "..") {
		return "", false
	}
	if strings.HasSuffix(p, "/") {
		joined += "/" + slugs.IndexSegment
	}
	return slugs.SlugifyFilePath(joined), true
}

func sameSlug(a, b string) bool {
	return strings.TrimSuffix(slugs.SimplifySlug(a), "/") == strings.TrimSuffix(slugs.SimplifySlug(b), "/")
}
