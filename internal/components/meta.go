package components

import (
	"fmt"
	"html/template"
)

var contentMetaTmpl = mustTemplate("contentmeta", `<p class="content-meta">
{{- range $i, $s := .}}{{if $i}}, {{end}}<span>{{$s}}</span>{{end -}}
</p>`)

// ContentMeta shows the page date and an estimated reading time.
func ContentMeta() Component {
	return newComponent("ContentMeta", `
.content-meta {
  margin-top: 0;
  color: var(--gray);
}
`, func(p Props) (template.HTML, error) {
		if p.Page == nil {
			return "", nil
		}
		var segments []string
		if d := p.Page.Date(); !d.IsZero() {
			segments = append(segments, d.Format(dateLayout))
		}
		if rt := p.Page.ReadingTime(); rt > 0 {
			segments = append(segments, fmt.Sprintf("%d min read", int(rt.Minutes())))
		}
		if len(segments) == 0 {
			return "", nil
		}
		return execute(contentMetaTmpl, segments)
	})
}
