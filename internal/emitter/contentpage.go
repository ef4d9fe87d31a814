package emitter

import (
	"context"
	"sort"
	"strings"
	"time"

	"git.home.luguber.info/inful/catpages/internal/category"
	"git.home.luguber.info/inful/catpages/internal/components"
	"git.home.luguber.info/inful/catpages/internal/content"
	"git.home.luguber.info/inful/catpages/internal/depgraph"
	"git.home.luguber.info/inful/catpages/internal/layout"
	"git.home.luguber.info/inful/catpages/internal/logfields"
	"git.home.luguber.info/inful/catpages/internal/util/sets"
)

// ContentPageName identifies the content emitter.
const ContentPageName = "ContentPage"

// ContentPage renders every page outside the category namespace. The root
// marker page is rendered as a category listing.
type ContentPage struct {
	layout     components.FullPageLayout
	listLayout components.FullPageLayout
}

var _ PartialEmitter = (*ContentPage)(nil)

func NewContentPage(shared components.SharedLayout, overrides LayoutOverrides) *ContentPage {
	return &ContentPage{
		layout:     overrides.apply(components.Compose(shared, layout.DefaultContentPageLayout(), components.Content())),
		listLayout: components.Compose(shared, layout.DefaultListPageLayout(), components.CategoryContent()),
	}
}

func (e *ContentPage) Name() string { return ContentPageName }

func (e *ContentPage) Components() []components.Component {
	return append(e.layout.Components(), e.listLayout.Components()...)
}

func handledByContentPage(p *content.Page) bool {
	return !strings.HasPrefix(p.Slug, category.SlugPrefix)
}

// DependencyGraph links each source to its own output, and every page that
// links to another page to that page's output, where its backlink appears.
// The root marker page lists every category, so pages with categories and
// category descriptions point at it too.
func (e *ContentPage) DependencyGraph(_ context.Context, bctx *BuildCtx, pages []*content.Page) (*depgraph.Graph, error) {
	g := depgraph.New()
	for _, p := range pages {
		if p.FilePath == "" || !handledByContentPage(p) {
			continue
		}
		g.AddEdge(p.FilePath, bctx.OutputPath(p.Slug, ".html"))
	}
	if marker, ok := content.FindBySlug(pages, category.RootMarker); ok {
		out := bctx.OutputPath(marker.Slug, ".html")
		for _, p := range pages {
			if p.FilePath != "" && (len(p.Categories()) > 0 || category.IsCategorySlug(p.Slug)) {
				g.AddEdge(p.FilePath, out)
			}
		}
	}
	for _, target := range pages {
		if !handledByContentPage(target) {
			continue
		}
		for _, linker := range components.LinkingPages(pages, target.Slug) {
			if linker.FilePath != "" {
				g.AddEdge(linker.FilePath, bctx.OutputPath(target.Slug, ".html"))
			}
		}
	}
	return g, nil
}

func (e *ContentPage) Emit(ctx context.Context, bctx *BuildCtx, pages []*content.Page) ([]string, error) {
	return e.emit(ctx, bctx, pages, nil)
}

func (e *ContentPage) EmitOnly(ctx context.Context, bctx *BuildCtx, pages []*content.Page, targets sets.Set[string]) ([]string, error) {
	return e.emit(ctx, bctx, pages, targets)
}

func (e *ContentPage) emit(ctx context.Context, bctx *BuildCtx, pages []*content.Page, targets sets.Set[string]) ([]string, error) {
	start := time.Now()
	ordered := make([]*content.Page, 0, len(pages))
	for _, p := range pages {
		if handledByContentPage(p) {
			ordered = append(ordered, p)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Slug < ordered[j].Slug })

	var written []string
	for _, p := range ordered {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		if targets != nil && !targets.Has(bctx.OutputPath(p.Slug, ".html")) {
			continue
		}
		l := e.layout
		if p.Slug == category.RootMarker {
			l = e.listLayout
		}
		html, err := components.RenderPage(bctx.PageProps(p, pages), l)
		if err != nil {
			return written, NewEmitterError(e.Name(), "render "+p.Slug, err)
		}
		fp, err := bctx.Write(p.Slug, ".html", html)
		if err != nil {
			return written, NewEmitterError(e.Name(), "write "+p.Slug, err)
		}
		written = append(written, fp)
	}

	bctx.Recorder.ObserveEmitterDuration(e.Name(), time.Since(start))
	bctx.Recorder.AddFilesEmitted(e.Name(), len(written))
	bctx.Logger.Debug("Emitted content pages", logfields.Emitter(e.Name()), logfields.Count(len(written)))
	return written, nil
}
