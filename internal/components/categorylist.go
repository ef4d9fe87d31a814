package components

import (
	"html/template"

	"git.home.luguber.info/inful/catpages/internal/category"
	"git.home.luguber.info/inful/catpages/internal/slugs"
)

const categoryListCSS = `
.cats {
  list-style: none;
  display: flex;
  padding-left: 0;
  gap: 0.4rem;
  margin: 1rem 0;
  flex-wrap: wrap;
  justify-self: end;
}

.section-li > .section > .cats {
  justify-content: flex-end;
}

.cats > li {
  display: inline-block;
  white-space: nowrap;
  margin: 0;
  overflow-wrap: normal;
}

a.internal.cat-link {
  border-radius: 8px;
  background-color: var(--highlight);
  padding: 0.2rem 0.4rem;
  margin: 0 0.1rem;
}
`

var categoryListTmpl = mustTemplate("categorylist", `<ul class="{{.Class}}">
{{- range .Items}}<li><a href="{{.URL}}" class="internal cat-link">{{.Text}}</a></li>{{end -}}
</ul>`)

// CategoryList links the page's categories to their category pages. Pages
// without categories render nothing.
func CategoryList() Component {
	return newComponent("CategoryList", categoryListCSS, func(p Props) (template.HTML, error) {
		if p.Page == nil {
			return "", nil
		}
		return renderCategoryLinks(p.Page.Categories(), p.Root(), "")
	})
}

func renderCategoryLinks(cats []string, baseDir, displayClass string) (template.HTML, error) {
	if len(cats) == 0 {
		return "", nil
	}
	items := make([]Link, 0, len(cats))
	for _, cat := range cats {
		target := category.Normalize(cat)
		if target == "" {
			continue
		}
		items = append(items, Link{Text: cat, URL: baseDir + "/categories/" + slugs.SlugTag(target)})
	}
	if len(items) == 0 {
		return "", nil
	}
	return execute(categoryListTmpl, struct {
		Class string
		Items []Link
	}{Class: classNames(displayClass, "cats"), Items: items})
}
