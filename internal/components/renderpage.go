package components

import (
	"html/template"
	"strings"

	"git.home.luguber.info/inful/catpages/internal/slugs"
)

// StylesheetPath is the site-relative path of the merged component stylesheet.
const StylesheetPath = "index.css"

// StaticResources are site-relative asset paths shared by every page.
type StaticResources struct {
	CSS []string
	JS  []string
}

// Resources are asset URLs resolved for one page.
type Resources struct {
	CSS []string
	JS  []string
}

// PageResources resolves static resources against a page's path to the
// site root. The component stylesheet always comes first; absolute URLs are
// left untouched.
func PageResources(baseDir string, static StaticResources) Resources {
	res := Resources{CSS: []string{resolveAsset(baseDir, StylesheetPath)}}
	for _, css := range static.CSS {
		res.CSS = append(res.CSS, resolveAsset(baseDir, css))
	}
	for _, js := range static.JS {
		res.JS = append(res.JS, resolveAsset(baseDir, js))
	}
	return res
}

func resolveAsset(baseDir, asset string) string {
	if strings.Contains(asset, "://") || strings.HasPrefix(asset, "//") {
		return asset
	}
	return slugs.JoinSegments(baseDir, strings.TrimPrefix(asset, "/"))
}

// SharedLayout holds the components every page type uses.
type SharedLayout struct {
	Head   Component
	Header []Component
	Footer Component
}

// PageLayout holds the components specific to one page type.
type PageLayout struct {
	BeforeBody []Component
	Left       []Component
	Right      []Component
}

// FullPageLayout is a complete page arrangement.
type FullPageLayout struct {
	Head       Component
	Header     []Component
	BeforeBody []Component
	PageBody   Component
	Left       []Component
	Right      []Component
	Footer     Component
}

// Compose merges a shared and a page-type layout around a body component.
func Compose(shared SharedLayout, page PageLayout, body Component) FullPageLayout {
	return FullPageLayout{
		Head:       shared.Head,
		Header:     shared.Header,
		BeforeBody: page.BeforeBody,
		PageBody:   body,
		Left:       page.Left,
		Right:      page.Right,
		Footer:     shared.Footer,
	}
}

// Components lists every component of the layout, nil entries dropped.
func (l FullPageLayout) Components() []Component {
	all := []Component{l.Head}
	all = append(all, l.Header...)
	all = append(all, l.BeforeBody...)
	all = append(all, l.PageBody)
	all = append(all, l.Left...)
	all = append(all, l.Right...)
	all = append(all, l.Footer)

	out := all[:0]
	for _, c := range all {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Stylesheet concatenates the CSS of components, each distinct block once,
// in order.
func Stylesheet(comps []Component) string {
	seen := make(map[string]struct{})
	var b strings.Builder
	b.WriteString(baseCSS)
	for _, c := range comps {
		css := strings.TrimSpace(c.CSS())
		if css == "" {
			continue
		}
		if _, ok := seen[css]; ok {
			continue
		}
		seen[css] = struct{}{}
		b.WriteString("\n")
		b.WriteString(css)
		b.WriteString("\n")
	}
	return b.String()
}

var pageTmpl = mustTemplate("page", `<!DOCTYPE html>
<html lang="{{.Lang}}">
{{.Head}}
<body data-slug="{{.Slug}}">
<div id="site-root" class="page">
<div id="site-body">
<div class="left sidebar">{{.Left}}</div>
<div class="center">
<div class="page-header">
<header>{{.Header}}</header>
<div class="popover-hint">{{.BeforeBody}}</div>
</div>
{{.Body}}
</div>
<div class="right sidebar">{{.Right}}</div>
</div>
{{.Footer}}
</div>
</body>
</html>
`)

// RenderPage renders a full HTML document for the page in props.
func RenderPage(props Props, layout FullPageLayout) ([]byte, error) {
	renderAll := func(comps []Component) (template.HTML, error) {
		var b strings.Builder
		for _, c := range comps {
			if c == nil {
				continue
			}
			html, err := c.Render(props)
			if err != nil {
				return "", err
			}
			b.WriteString(string(html))
		}
		return template.HTML(b.String()), nil //nolint:gosec // component output
	}
	one := func(c Component) (template.HTML, error) {
		if c == nil {
			return "", nil
		}
		return c.Render(props)
	}

	var data struct {
		Lang, Slug                     string
		Head, Header, BeforeBody, Body template.HTML
		Left, Right, Footer            template.HTML
	}
	data.Lang = props.Site.Locale
	if data.Lang == "" {
		data.Lang = "en"
	}
	data.Slug = props.Slug()

	var err error
	if data.Head, err = one(layout.Head); err != nil {
		return nil, err
	}
	if data.Header, err = renderAll(layout.Header); err != nil {
		return nil, err
	}
	if data.BeforeBody, err = renderAll(layout.BeforeBody); err != nil {
		return nil, err
	}
	if data.Body, err = one(layout.PageBody); err != nil {
		return nil, err
	}
	if data.Left, err = renderAll(layout.Left); err != nil {
		return nil, err
	}
	if data.Right, err = renderAll(layout.Right); err != nil {
		return nil, err
	}
	if data.Footer, err = one(layout.Footer); err != nil {
		return nil, err
	}

	html, err := execute(pageTmpl, data)
	if err != nil {
		return nil, err
	}
	return []byte(html), nil
}

const baseCSS = `:root {
  --light: #faf8f8;
  --dark: #2b2b2b;
  --gray: #b8b8b8;
  --highlight: rgba(143, 159, 169, 0.15);
}

body {
  margin: 0;
  font-family: system-ui, sans-serif;
  background-color: var(--light);
  color: var(--dark);
}

#site-body {
  display: grid;
  grid-template-columns: 20rem auto 20rem;
  gap: 2rem;
  max-width: 1500px;
  margin: 0 auto;
}

.sidebar {
  display: flex;
  flex-direction: column;
  gap: 1.5rem;
  padding: 2rem;
}

@media (max-width: 800px) {
  #site-body { grid-template-columns: auto; }
  .desktop-only { display: none; }
}

@media (min-width: 801px) {
  .mobile-only { display: none; }
}
`
