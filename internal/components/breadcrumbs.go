package components

import (
	"html/template"
	"path"

	"git.home.luguber.info/inful/catpages/internal/content"
	"git.home.luguber.info/inful/catpages/internal/slugs"
)

var breadcrumbsTmpl = mustTemplate("breadcrumbs", `<nav class="breadcrumb-container" aria-label="breadcrumbs">
{{- range .}}
<div class="breadcrumb-element">{{if .URL}}<a href="{{.URL}}">{{.Text}}</a><p> ❯ </p>{{else}}{{.Text}}{{end}}</div>
{{- end}}
</nav>`)

// Breadcrumbs shows the folder trail from the site root to the page. The
// root page itself renders nothing.
func Breadcrumbs() Component {
	return newComponent("Breadcrumbs", `
.breadcrumb-container {
  margin: 0;
  margin-top: 0.75rem;
  padding: 0;
  display: flex;
  flex-direction: row;
  flex-wrap: wrap;
  gap: 0.5rem;
}

.breadcrumb-element {
  display: flex;
  flex-direction: row;
  align-items: center;
}

.breadcrumb-element p {
  margin: 0;
  margin-left: 0.5rem;
  padding: 0;
  line-height: normal;
}
`, func(p Props) (template.HTML, error) {
		slug := p.Slug()
		if slug == "" || slug == slugs.IndexSegment {
			return "", nil
		}
		crumbs := []Link{{Text: "Home", URL: resolveRelative(slug, slugs.IndexSegment)}}
		for _, parent := range slugs.Breadcrumbs(slug) {
			text := path.Base(parent)
			if folder, ok := content.FindBySlug(p.AllPages, parent+"/"+slugs.IndexSegment); ok {
				text = folder.Title()
			}
			crumbs = append(crumbs, Link{Text: text, URL: resolveRelative(slug, parent+"/")})
		}
		if p.Page != nil {
			crumbs = append(crumbs, Link{Text: p.Page.Title()})
		}
		return execute(breadcrumbsTmpl, crumbs)
	})
}
