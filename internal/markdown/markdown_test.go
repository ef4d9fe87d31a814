package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender_HeadingsAndLinks(t *testing.T) {
	r := NewRenderer(Options{})
	doc, err := r.Render([]byte("# Intro *here*\n\nSee [API](../api.md) and ![d](d.png).\n\n## Next\n"))
	require.NoError(t, err)

	require.Len(t, doc.Headings, 2)
	require.Equal(t, Heading{Level: 1, Text: "Intro here", ID: "intro-here"}, doc.Headings[0])
	require.Equal(t, 2, doc.Headings[1].Level)

	require.Equal(t, []Link{
		{Kind: LinkKindInline, Destination: "../api.md"},
		{Kind: LinkKindImage, Destination: "d.png"},
	}, doc.Links)
	require.True(t, strings.Contains(string(doc.HTML), `<h1 id="intro-here">`))
}

func TestRender_EmptyBody(t *testing.T) {
	doc, err := NewRenderer(Options{}).Render([]byte("\n\n"))
	require.NoError(t, err)
	require.True(t, doc.Empty())
}

func TestRender_GFMTable(t *testing.T) {
	doc, err := NewRenderer(Options{Extensions: []string{"gfm"}}).Render([]byte("| a |\n|---|\n| 1 |\n"))
	require.NoError(t, err)
	require.Contains(t, string(doc.HTML), "<table>")
}

func TestRender_RawHTMLRequiresUnsafe(t *testing.T) {
	src := []byte("<div class=\"x\">raw</div>\n")

	safe, err := NewRenderer(Options{}).Render(src)
	require.NoError(t, err)
	require.NotContains(t, string(safe.HTML), `<div class="x">`)

	unsafe, err := NewRenderer(Options{Unsafe: true}).Render(src)
	require.NoError(t, err)
	require.Contains(t, string(unsafe.HTML), `<div class="x">`)
}
