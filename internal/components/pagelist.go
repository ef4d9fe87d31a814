package components

import (
	"html/template"
	"slices"

	"git.home.luguber.info/inful/catpages/internal/category"
	"git.home.luguber.info/inful/catpages/internal/content"
)

const pageListCSS = `
ul.section-ul {
  list-style: none;
  margin-top: 2em;
  padding-left: 0;
}

li.section-li {
  margin-bottom: 1em;
}

li.section-li > .section {
  display: grid;
  grid-template-columns: fit-content(8em) 3fr 1fr;
}

li.section-li > .section > .desc > h3 > a {
  background-color: transparent;
}

li.section-li > .section .meta {
  margin: 0 1em 0 0;
  opacity: 0.6;
}
`

type pageListItem struct {
	Href       string
	Title      string
	Date       string
	DateTime   string
	Categories template.HTML
}

var pageListTmpl = mustTemplate("pagelist", `<ul class="section-ul">
{{- range .}}
<li class="section-li"><div class="section">
<p class="meta">{{if .Date}}<time datetime="{{.DateTime}}">{{.Date}}</time>{{end}}</p>
<div class="desc"><h3><a href="{{.Href}}" class="internal">{{.Title}}</a></h3></div>
{{.Categories}}
</div></li>
{{- end}}
</ul>`)

// SortPages orders pages newest first. Dated pages precede undated ones and
// ties fall back to title collation.
func SortPages(pages []*content.Page) []*content.Page {
	out := slices.Clone(pages)
	slices.SortStableFunc(out, func(a, b *content.Page) int {
		da, db := a.Date(), b.Date()
		switch {
		case !da.IsZero() && !db.IsZero():
			if c := db.Compare(da); c != 0 {
				return c
			}
		case !da.IsZero():
			return -1
		case !db.IsZero():
			return 1
		}
		return category.Compare(a.Title(), b.Title())
	})
	return out
}

// PageList lists Props.AllPages with links relative to the rendered page.
func PageList() Component {
	return newComponent("PageList", pageListCSS, renderPageList)
}

func renderPageList(p Props) (template.HTML, error) {
	current := p.Slug()
	sorted := SortPages(p.AllPages)
	items := make([]pageListItem, 0, len(sorted))
	for _, page := range sorted {
		cats, err := renderCategoryLinks(page.Categories(), p.Root(), "")
		if err != nil {
			return "", err
		}
		item := pageListItem{
			Href:       resolveRelative(current, page.Slug),
			Title:      page.Title(),
			Categories: cats,
		}
		if d := page.Date(); !d.IsZero() {
			item.Date = d.Format(dateLayout)
			item.DateTime = d.Format("2006-01-02")
		}
		items = append(items, item)
	}
	return execute(pageListTmpl, items)
}
