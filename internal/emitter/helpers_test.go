package emitter

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/catpages/internal/category"
	"git.home.luguber.info/inful/catpages/internal/components"
	"git.home.luguber.info/inful/catpages/internal/content"
	"git.home.luguber.info/inful/catpages/internal/layout"
)

// loadSite writes files under a fresh content directory and loads them.
func loadSite(t *testing.T, files map[string]string) (string, []*content.Page) {
	t.Helper()
	root := t.TempDir()
	for rel, body := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
		require.NoError(t, os.WriteFile(full, []byte(body), 0o600))
	}
	pages, err := content.NewLoader(content.LoaderOptions{Dir: root}, nil).Load(context.Background())
	require.NoError(t, err)
	return root, pages
}

func exampleSite(t *testing.T) (string, []*content.Page) {
	return loadSite(t, map[string]string{
		"p1.md": "---\ntitle: P1\ncategories: [tech]\n---\nfirst",
		"p2.md": "---\ntitle: P2\ncategories: [tech, life]\n---\nsecond",
		"p3.md": "---\ntitle: P3\n---\nthird",
	})
}

func newBuildCtx(t *testing.T) *BuildCtx {
	t.Helper()
	return NewBuildCtx("test-build", filepath.ToSlash(t.TempDir()), components.Site{Title: "Test"}, nil, nil)
}

func newCategoryPage() *CategoryPage {
	return NewCategoryPage(layout.SharedPageComponents(nil), category.Titles{}, LayoutOverrides{})
}

func readHTML(t *testing.T, path string) *goquery.Document {
	t.Helper()
	raw, err := os.ReadFile(filepath.FromSlash(path))
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(raw)))
	require.NoError(t, err)
	return doc
}

func pageBySlug(t *testing.T, pages []*content.Page, slug string) *content.Page {
	t.Helper()
	p, ok := content.FindBySlug(pages, slug)
	require.True(t, ok, slug)
	return p
}
