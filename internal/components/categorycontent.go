package components

import (
	"html/template"

	"git.home.luguber.info/inful/catpages/internal/category"
	"git.home.luguber.info/inful/catpages/internal/content"
)

const listPageCSS = `
.page-listing {
  margin-top: 1rem;
}

.popover-hint > div > div > h2 {
  margin-bottom: 0.25rem;
}
`

type categoryBlock struct {
	Name        string
	Href        string
	Content     template.HTML
	Description string
	List        template.HTML
}

var categoryRootTmpl = mustTemplate("categorycontent-root", `<div class="{{.Classes}}">
<article>{{if .Content}}{{.Content}}{{else if .Description}}<p>{{.Description}}</p>{{end}}</article>
<div>
{{- range .Blocks}}
<div>
<h2><a class="internal cat-link" href="{{.Href}}">{{.Name}}</a></h2>
{{- if .Content}}
{{.Content}}
{{- else if .Description}}
<p>{{.Description}}</p>
{{- end}}
<div class="page-listing">{{.List}}</div>
</div>
{{- end}}
</div>
</div>`)

var categoryPageTmpl = mustTemplate("categorycontent", `<div class="{{.Classes}}">
<article>{{if .Content}}{{.Content}}{{else}}{{.Description}}{{end}}</article>
<div class="page-listing"><div>{{.List}}</div></div>
</div>`)

// CategoryContent is the body of a category page: the page's own content
// followed by a listing of its member pages. The root listing shows every
// category with its description and members instead.
//
// Rendering any page outside the category namespace fails.
func CategoryContent() Component {
	return newComponent("CategoryContent", listPageCSS+pageListCSS+categoryListCSS, renderCategoryContent)
}

func renderCategoryContent(p Props) (template.HTML, error) {
	if p.Page == nil {
		_, err := category.ParseSlug("")
		return "", err
	}
	cat, err := category.ParseSlug(p.Page.Slug)
	if err != nil {
		return "", err
	}

	classes := classNames(append([]string{"popover-hint"}, p.Page.CSSClasses()...)...)
	body, description := pageContent(p.Page)

	if category.IsRoot(cat) {
		var blocks []categoryBlock
		for _, name := range category.Sorted(category.Used(p.AllPages)) {
			list, err := renderPageList(p.WithPages(category.Members(p.AllPages, name)))
			if err != nil {
				return "", err
			}
			block := categoryBlock{
				Name: name,
				Href: resolveRelative(p.Page.Slug, category.OutputSlug(name)),
				List: list,
			}
			if described, ok := category.DescriptionPage(p.AllPages, name); ok {
				block.Content, block.Description = pageContent(described)
			}
			blocks = append(blocks, block)
		}
		return execute(categoryRootTmpl, struct {
			Classes     string
			Content     template.HTML
			Description string
			Blocks      []categoryBlock
		}{classes, body, description, blocks})
	}

	list, err := renderPageList(p.WithPages(category.Members(p.AllPages, cat)))
	if err != nil {
		return "", err
	}
	return execute(categoryPageTmpl, struct {
		Classes     string
		Content     template.HTML
		Description string
		List        template.HTML
	}{classes, body, description, list})
}

// pageContent returns the rendered body, or the description when the body
// is empty.
func pageContent(page *content.Page) (template.HTML, string) {
	if page.HasContent() {
		return page.Document.HTML, ""
	}
	return "", page.Description
}
