package components

import (
	"html/template"
)

// Spacer is an empty flexible block used to push siblings apart.
func Spacer() Component {
	return newComponent("Spacer", `
.spacer {
  flex: 1 1 auto;
}
`, func(Props) (template.HTML, error) {
		return `<div class="spacer"></div>`, nil
	})
}

var displayWrapperTmpl = mustTemplate("display", `<div class="{{.Class}}">{{.Inner}}</div>`)

func displayWrapper(name, class string, inner Component) Component {
	return newComponent(name+"("+inner.Name()+")", inner.CSS(), func(p Props) (template.HTML, error) {
		html, err := inner.Render(p)
		if err != nil || html == "" {
			return html, err
		}
		return execute(displayWrapperTmpl, struct {
			Class string
			Inner template.HTML
		}{class, html})
	})
}

// MobileOnly shows inner only on narrow viewports.
func MobileOnly(inner Component) Component {
	return displayWrapper("MobileOnly", "mobile-only", inner)
}

// DesktopOnly shows inner only on wide viewports.
func DesktopOnly(inner Component) Component {
	return displayWrapper("DesktopOnly", "desktop-only", inner)
}
