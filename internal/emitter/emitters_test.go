package emitter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/catpages/internal/components"
	cperrors "git.home.luguber.info/inful/catpages/internal/errors"
	"git.home.luguber.info/inful/catpages/internal/layout"
	"git.home.luguber.info/inful/catpages/internal/util/sets"
)

func TestContentPage_SkipsCategoryNamespace(t *testing.T) {
	_, pages := loadSite(t, map[string]string{
		"notes/a.md":         "---\ntitle: A\ncategories: [tech]\n---\nSee [b](b).",
		"notes/b.md":         "---\ntitle: B\n---\nbody",
		"categories/tech.md": "---\ntitle: Tech\n---\nAbout tech.",
	})
	bctx := newBuildCtx(t)
	e := NewContentPage(layout.SharedPageComponents(nil), LayoutOverrides{})

	written, err := e.Emit(context.Background(), bctx, pages)
	require.NoError(t, err)
	assert.Equal(t, []string{
		bctx.OutputPath("notes/a", ".html"),
		bctx.OutputPath("notes/b", ".html"),
	}, written)

	a := readHTML(t, written[0])
	assert.Equal(t, "tech", a.Find("ul.cats a.cat-link").Text())
	href, _ := a.Find("ul.cats a.cat-link").Attr("href")
	assert.Equal(t, "../categories/tech", href)

	b := readHTML(t, written[1])
	assert.Equal(t, "A", b.Find(".backlinks li a").Text())
}

func TestContentPage_DependencyGraph(t *testing.T) {
	_, pages := loadSite(t, map[string]string{
		"a.md":               "[b](b)",
		"b.md":               "plain",
		"categories/tech.md": "desc",
	})
	bctx := newBuildCtx(t)
	e := NewContentPage(layout.SharedPageComponents(nil), LayoutOverrides{})

	g, err := e.DependencyGraph(context.Background(), bctx, pages)
	require.NoError(t, err)

	a := pageBySlug(t, pages, "a").FilePath
	b := pageBySlug(t, pages, "b").FilePath
	assert.Equal(t, []string{bctx.OutputPath("a", ".html"), bctx.OutputPath("b", ".html")}, g.Targets(a))
	assert.Equal(t, []string{bctx.OutputPath("b", ".html")}, g.Targets(b))
	assert.Empty(t, g.Targets(pageBySlug(t, pages, "categories/tech").FilePath))
}

func TestContentPage_RootMarkerUsesListLayout(t *testing.T) {
	_, pages := loadSite(t, map[string]string{
		"cats.md": "---\ntitle: Browse\n---\n",
		"x.md":    "---\ntitle: X\ncategories: [alpha]\n---\n",
	})
	bctx := newBuildCtx(t)
	e := NewContentPage(layout.SharedPageComponents(nil), LayoutOverrides{})

	_, err := e.EmitOnly(context.Background(), bctx, pages, sets.New(bctx.OutputPath("cats", ".html")))
	require.NoError(t, err)

	doc := readHTML(t, bctx.OutputPath("cats", ".html"))
	assert.Equal(t, "alpha", doc.Find("h2 a.cat-link").Text())
	assert.False(t, fileExists(bctx.OutputPath("x", ".html")))
}

func TestComponentResources_WritesMergedStylesheet(t *testing.T) {
	bctx := newBuildCtx(t)
	reg := NewRegistry()
	reg.MustRegister(
		newCategoryPage(),
		NewComponentResources(reg.List),
	)
	css, err := reg.List()[1].Emit(context.Background(), bctx, nil)
	require.NoError(t, err)
	require.Equal(t, []string{bctx.OutputPath("index", ".css")}, css)

	raw, err := os.ReadFile(filepath.FromSlash(css[0]))
	require.NoError(t, err)
	assert.Contains(t, string(raw), ".page-listing")
	assert.Contains(t, string(raw), ":root")

	g, err := reg.List()[1].DependencyGraph(context.Background(), bctx, nil)
	require.NoError(t, err)
	assert.Zero(t, g.Len())
}

func TestAssets_CopiesNonMarkdown(t *testing.T) {
	dir, _ := loadSite(t, map[string]string{
		"note.md":         "x",
		"img/logo.png":    "png",
		".git/HEAD":       "ref",
		"static/site.css": "body{}",
	})
	bctx := newBuildCtx(t)
	e := NewAssets(dir, []string{".git"})

	g, err := e.DependencyGraph(context.Background(), bctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{bctx.OutputPath("img/logo.png", ""), bctx.OutputPath("static/site.css", "")}, g.TargetNodes())

	written, err := e.EmitOnly(context.Background(), bctx, nil, sets.New(bctx.OutputPath("img/logo.png", "")))
	require.NoError(t, err)
	assert.Equal(t, []string{bctx.OutputPath("img/logo.png", "")}, written)

	raw, err := os.ReadFile(filepath.FromSlash(written[0]))
	require.NoError(t, err)
	assert.Equal(t, "png", string(raw))
	assert.False(t, fileExists(bctx.OutputPath("static/site.css", "")))
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(newCategoryPage()))
	require.NoError(t, reg.Register(NewAssets(t.TempDir(), nil)))

	err := reg.Register(newCategoryPage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
	require.Error(t, reg.Register(nil))

	assert.Equal(t, []string{CategoryPageName, AssetsName}, reg.Names())
	got, err := reg.Get(AssetsName)
	require.NoError(t, err)
	assert.Equal(t, AssetsName, got.Name())
	_, err = reg.Get("missing")
	require.Error(t, err)

	assert.Panics(t, func() { reg.MustRegister(NewAssets("", nil)) })
}

func TestBuildCtx_OutputPath(t *testing.T) {
	bctx := NewBuildCtx("id", "/out", components.Site{}, nil, nil)
	assert.Equal(t, "/out/categories/tech.html", bctx.OutputPath("categories/tech", ".html"))
	assert.Equal(t, "/out/img/a.png", bctx.OutputPath("img/a.png", ""))
}

func TestBuildCtx_WriteStaysInOutputDir(t *testing.T) {
	root := t.TempDir()
	bctx := NewBuildCtx("id", filepath.ToSlash(filepath.Join(root, "public")), components.Site{}, nil, nil)

	_, err := bctx.Write("categories/x/../../../escaped", ".html", []byte("x"))
	require.Error(t, err)
	assert.True(t, cperrors.HasCategory(err, cperrors.CategoryFileSystem))
	assert.NoFileExists(t, filepath.Join(root, "escaped.html"))

	out, err := bctx.Write("categories/tech", ".html", []byte("x"))
	require.NoError(t, err)
	assert.True(t, fileExists(out))
}

func fileExists(path string) bool {
	_, err := os.Stat(filepath.FromSlash(path))
	return err == nil
}

func TestContentPage_RootMarkerDependsOnCategorisedPages(t *testing.T) {
	_, pages := loadSite(t, map[string]string{
		"cats.md":             "listing",
		"x.md":                "---\ncategories: [alpha]\n---\n",
		"y.md":                "plain",
		"categories/alpha.md": "about alpha",
	})
	bctx := newBuildCtx(t)
	e := NewContentPage(layout.SharedPageComponents(nil), LayoutOverrides{})

	g, err := e.DependencyGraph(context.Background(), bctx, pages)
	require.NoError(t, err)
	marker := bctx.OutputPath("cats", ".html")
	assert.Equal(t, []string{
		pageBySlug(t, pages, "categories/alpha").FilePath,
		pageBySlug(t, pages, "cats").FilePath,
		pageBySlug(t, pages, "x").FilePath,
	}, g.Sources(marker))
	assert.NotContains(t, g.Targets(pageBySlug(t, pages, "y").FilePath), marker)
}
