// Package layout arranges components into the page layouts of the site.
package layout

import "git.home.luguber.info/inful/catpages/internal/components"

// SharedPageComponents are used by every page type.
func SharedPageComponents(footerLinks []components.Link) components.SharedLayout {
	return components.SharedLayout{
		Head:   components.Head(),
		Header: []components.Component{},
		Footer: components.Footer(components.FooterOptions{Links: footerLinks}),
	}
}

// DefaultContentPageLayout is used for pages that display a single note.
func DefaultContentPageLayout() components.PageLayout {
	return components.PageLayout{
		BeforeBody: []components.Component{
			components.Breadcrumbs(),
			components.ArticleTitle(),
			components.ContentMeta(),
			components.TagList(),
			components.CategoryList(),
		},
		Left: []components.Component{
			components.PageTitle(),
			components.MobileOnly(components.Spacer()),
		},
		Right: []components.Component{
			components.DesktopOnly(components.TableOfContents()),
			components.Backlinks(),
		},
	}
}

// DefaultListPageLayout is used for pages that list other pages, such as
// category pages.
func DefaultListPageLayout() components.PageLayout {
	return components.PageLayout{
		BeforeBody: []components.Component{
			components.Breadcrumbs(),
			components.ArticleTitle(),
			components.ContentMeta(),
		},
		Left: []components.Component{
			components.PageTitle(),
			components.MobileOnly(components.Spacer()),
		},
		Right: []components.Component{},
	}
}
