package components

import "html/template"

var contentTmpl = mustTemplate("content", `<article class="{{.Classes}}">{{.Body}}</article>`)

// Content renders the page body, or its description when the body is empty.
func Content() Component {
	return newComponent("Content", "", func(p Props) (template.HTML, error) {
		if p.Page == nil {
			return "", nil
		}
		body, description := pageContent(p.Page)
		if body == "" && description != "" {
			body = template.HTML("<p>" + template.HTMLEscapeString(description) + "</p>") //nolint:gosec // escaped above
		}
		return execute(contentTmpl, struct {
			Classes string
			Body    template.HTML
		}{classNames(append([]string{"popover-hint"}, p.Page.CSSClasses()...)...), body})
	})
}
