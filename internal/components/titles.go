package components

import "html/template"

var pageTitleTmpl = mustTemplate("pagetitle", `<h2 class="page-title"><a href="{{.Root}}">{{.Title}}</a></h2>`)

// PageTitle links to the site root.
func PageTitle() Component {
	return newComponent("PageTitle", `
.page-title {
  margin: 0;
}
`, func(p Props) (template.HTML, error) {
		return execute(pageTitleTmpl, struct{ Root, Title string }{p.Root(), p.Site.Title})
	})
}

var articleTitleTmpl = mustTemplate("articletitle", `<h1 class="article-title">{{.}}</h1>`)

// ArticleTitle renders the page title. Untitled pages render nothing.
func ArticleTitle() Component {
	return newComponent("ArticleTitle", `
.article-title {
  margin: 2rem 0 0 0;
}
`, func(p Props) (template.HTML, error) {
		if p.Page == nil || p.Page.Title() == "" {
			return "", nil
		}
		return execute(articleTitleTmpl, p.Page.Title())
	})
}
