package components

import "html/template"

var headTmpl = mustTemplate("head", `<head>
<title>{{.Title}}</title>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1.0"/>
<meta property="og:title" content="{{.Title}}"/>
{{- if .Description}}
<meta name="description" content="{{.Description}}"/>
<meta property="og:description" content="{{.Description}}"/>
{{- end}}
{{- if .BaseURL}}
<meta property="og:url" content="{{.BaseURL}}"/>
{{- end}}
{{- range .CSS}}
<link href="{{.}}" rel="stylesheet" type="text/css"/>
{{- end}}
{{- range .JS}}
<script src="{{.}}"></script>
{{- end}}
</head>`)

// Head renders the document head with the page's resources.
func Head() Component {
	return newComponent("Head", "", func(p Props) (template.HTML, error) {
		title := p.Site.Title
		description := ""
		if p.Page != nil {
			if t := p.Page.Title(); t != "" {
				title = t
			}
			description = p.Page.Description
		}
		return execute(headTmpl, struct {
			Title       string
			Description string
			BaseURL     string
			CSS         []string
			JS          []string
		}{title, description, p.Site.BaseURL, p.Resources.CSS, p.Resources.JS})
	})
}
