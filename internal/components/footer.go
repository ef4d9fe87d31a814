package components

import (
	"html/template"

	"git.home.luguber.info/inful/catpages/internal/version"
)

// FooterOptions configures Footer.
type FooterOptions struct {
	Links []Link
}

var footerTmpl = mustTemplate("footer", `<footer>
<hr/>
<p>Created with catpages {{.Version}}</p>
{{- if .Links}}
<ul>
{{- range .Links}}
<li><a href="{{.URL}}">{{.Text}}</a></li>
{{- end}}
</ul>
{{- end}}
</footer>`)

// Footer renders the site footer with the configured links in order.
func Footer(opts FooterOptions) Component {
	return newComponent("Footer", `
footer {
  text-align: left;
  margin-bottom: 4rem;
  opacity: 0.7;
}

footer ul {
  list-style: none;
  margin: 0;
  padding: 0;
  display: flex;
  flex-direction: row;
  gap: 1rem;
  margin-top: -1rem;
}
`, func(Props) (template.HTML, error) {
		return execute(footerTmpl, struct {
			Version string
			Links   []Link
		}{version.Version, opts.Links})
	})
}
