package emitter

import (
	"context"
	"time"

	"git.home.luguber.info/inful/catpages/internal/category"
	"git.home.luguber.info/inful/catpages/internal/components"
	"git.home.luguber.info/inful/catpages/internal/content"
	"git.home.luguber.info/inful/catpages/internal/depgraph"
	"git.home.luguber.info/inful/catpages/internal/layout"
	"git.home.luguber.info/inful/catpages/internal/logfields"
	"git.home.luguber.info/inful/catpages/internal/util/sets"
)

// CategoryPageName identifies the category emitter.
const CategoryPageName = "CategoryPage"

// LayoutOverrides replaces parts of an emitter's default layout. Nil fields
// keep the default.
type LayoutOverrides struct {
	Head       components.Component
	Header     []components.Component
	BeforeBody []components.Component
	PageBody   components.Component
	Left       []components.Component
	Right      []components.Component
	Footer     components.Component
}

func (o LayoutOverrides) apply(l components.FullPageLayout) components.FullPageLayout {
	if o.Head != nil {
		l.Head = o.Head
	}
	if o.Header != nil {
		l.Header = o.Header
	}
	if o.BeforeBody != nil {
		l.BeforeBody = o.BeforeBody
	}
	if o.PageBody != nil {
		l.PageBody = o.PageBody
	}
	if o.Left != nil {
		l.Left = o.Left
	}
	if o.Right != nil {
		l.Right = o.Right
	}
	if o.Footer != nil {
		l.Footer = o.Footer
	}
	return l
}

// CategoryPage writes one page per category plus the root listing of all
// categories.
type CategoryPage struct {
	layout components.FullPageLayout
	titles category.Titles
}

var _ PartialEmitter = (*CategoryPage)(nil)

// NewCategoryPage builds the emitter on the shared and list layouts with
// CategoryContent as the page body. Empty titles fall back to
// category.DefaultTitles.
func NewCategoryPage(shared components.SharedLayout, titles category.Titles, overrides LayoutOverrides) *CategoryPage {
	if titles.Index == "" {
		titles.Index = category.DefaultTitles.Index
	}
	if titles.Prefix == "" {
		titles.Prefix = category.DefaultTitles.Prefix
	}
	full := components.Compose(shared, layout.DefaultListPageLayout(), components.CategoryContent())
	return &CategoryPage{layout: overrides.apply(full), titles: titles}
}

func (e *CategoryPage) Name() string { return CategoryPageName }

func (e *CategoryPage) Components() []components.Component { return e.layout.Components() }

// DependencyGraph links every page with categories to the page of each
// expanded category and to the root listing. Pages without categories
// contribute no edges.
func (e *CategoryPage) DependencyGraph(_ context.Context, bctx *BuildCtx, pages []*content.Page) (*depgraph.Graph, error) {
	g := depgraph.New()
	for _, p := range pages {
		cats := category.Expand(p.Categories())
		if len(cats) == 0 || p.FilePath == "" {
			continue
		}
		cats = append(cats, category.RootToken)
		for _, cat := range cats {
			g.AddEdge(p.FilePath, bctx.OutputPath(category.OutputSlug(cat), ".html"))
		}
	}
	return g, nil
}

// ExtraTargets marks the pages an authored category description appears on.
func (e *CategoryPage) ExtraTargets(bctx *BuildCtx, page *content.Page) []string {
	if !category.IsCategorySlug(page.Slug) || page.Slug == category.RootMarker {
		return nil
	}
	return []string{
		bctx.OutputPath(page.Slug, ".html"),
		bctx.OutputPath(category.OutputSlug(category.RootToken), ".html"),
	}
}

// RequiredOutputs returns the root listing, which the universe always holds.
func (e *CategoryPage) RequiredOutputs(bctx *BuildCtx, _ []*content.Page) []string {
	return []string{bctx.OutputPath(category.OutputSlug(category.RootToken), ".html")}
}

func (e *CategoryPage) Emit(ctx context.Context, bctx *BuildCtx, pages []*content.Page) ([]string, error) {
	return e.emit(ctx, bctx, pages, nil)
}

func (e *CategoryPage) EmitOnly(ctx context.Context, bctx *BuildCtx, pages []*content.Page, targets sets.Set[string]) ([]string, error) {
	return e.emit(ctx, bctx, pages, targets)
}

// emit renders categories in collation order. A nil targets set emits all.
func (e *CategoryPage) emit(ctx context.Context, bctx *BuildCtx, pages []*content.Page, targets sets.Set[string]) ([]string, error) {
	start := time.Now()
	universe := category.Universe(pages)
	descriptions := category.Descriptions(pages, universe, e.titles)
	bctx.Recorder.SetCategories(universe.Len())

	var written []string
	for _, cat := range category.Sorted(universe) {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		slug := category.OutputSlug(cat)
		if targets != nil && !targets.Has(bctx.OutputPath(slug, ".html")) {
			continue
		}

		page := *descriptions[cat]
		page.Slug = category.Slug(cat)
		html, err := components.RenderPage(bctx.PageProps(&page, pages), e.layout)
		if err != nil {
			return written, NewEmitterError(e.Name(), "render "+slug, err)
		}
		fp, err := bctx.Write(slug, ".html", html)
		if err != nil {
			return written, NewEmitterError(e.Name(), "write "+slug, err)
		}
		written = append(written, fp)
	}

	bctx.Recorder.ObserveEmitterDuration(e.Name(), time.Since(start))
	bctx.Recorder.AddFilesEmitted(e.Name(), len(written))
	bctx.Logger.Debug("Emitted category pages",
		logfields.Emitter(e.Name()),
		logfields.Count(len(written)),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return written, nil
}
