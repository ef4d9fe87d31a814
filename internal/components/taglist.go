package components

import "html/template"

var tagListTmpl = mustTemplate("taglist", `<ul class="tags">
{{- range .}}<li><span class="tag-link">#{{.}}</span></li>{{end -}}
</ul>`)

// TagList shows the page's tags. No tag pages are emitted, so tags are not
// links. Pages without tags render nothing.
func TagList() Component {
	return newComponent("TagList", `
.tags {
  list-style: none;
  display: flex;
  padding-left: 0;
  gap: 0.4rem;
  margin: 1rem 0;
  flex-wrap: wrap;
}

.tag-link {
  border-radius: 8px;
  background-color: var(--highlight);
  padding: 0.2rem 0.4rem;
  margin: 0 0.1rem;
}
`, func(p Props) (template.HTML, error) {
		if p.Page == nil || len(p.Page.Tags()) == 0 {
			return "", nil
		}
		return execute(tagListTmpl, p.Page.Tags())
	})
}
