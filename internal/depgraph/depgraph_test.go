package depgraph

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_AddEdgeIsIdempotent(t *testing.T) {
	g := New()
	g.AddEdge("a.md", "out/x.html")
	g.AddEdge("a.md", "out/x.html")
	g.AddEdge("b.md", "out/x.html")

	assert.Equal(t, 2, g.Len())
	assert.Equal(t, []string{"a.md", "b.md"}, g.Sources("out/x.html"))
	assert.Equal(t, []string{"out/x.html"}, g.Targets("a.md"))
}

func TestGraph_EdgesSorted(t *testing.T) {
	g := FromEdges([]Edge{{"b", "2"}, {"a", "3"}, {"a", "1"}})
	assert.Equal(t, []Edge{{"a", "1"}, {"a", "3"}, {"b", "2"}}, g.Edges())
	assert.Equal(t, []string{"a", "b"}, g.SourceNodes())
	assert.Equal(t, []string{"1", "2", "3"}, g.TargetNodes())
}

func TestGraph_Dependents(t *testing.T) {
	g := FromEdges([]Edge{{"a", "b"}, {"b", "c"}, {"c", "a"}, {"x", "y"}})
	assert.Equal(t, []string{"b", "c"}, g.Dependents("a"))
	assert.Empty(t, g.Dependents("y"))
}

func TestGraph_MergeAndEqual(t *testing.T) {
	a := FromEdges([]Edge{{"s1", "t1"}})
	b := FromEdges([]Edge{{"s2", "t1"}})
	a.Merge(b)
	a.Merge(nil)

	assert.True(t, a.Equal(FromEdges([]Edge{{"s2", "t1"}, {"s1", "t1"}})))
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(nil))
}

func TestGraph_RemoveNode(t *testing.T) {
	g := FromEdges([]Edge{{"a", "t"}, {"b", "t"}})
	g.RemoveNode("a")
	assert.Equal(t, []Edge{{"b", "t"}}, g.Edges())

	g.RemoveNode("t")
	assert.Zero(t, g.Len())
	assert.Empty(t, g.SourceNodes())
}

func TestWrite_Formats(t *testing.T) {
	g := FromEdges([]Edge{{"a.md", "out/categories/tech.html"}})

	var text bytes.Buffer
	require.NoError(t, Write(&text, "CategoryPage", g, FormatText))
	assert.Equal(t, "# CategoryPage (1 edges)\na.md -> out/categories/tech.html\n", text.String())

	var dot bytes.Buffer
	require.NoError(t, Write(&dot, "CategoryPage", g, FormatDOT))
	assert.Contains(t, dot.String(), `"a.md" -> "out/categories/tech.html";`)

	var js bytes.Buffer
	require.NoError(t, Write(&js, "CategoryPage", g, FormatJSON))
	var decoded jsonGraph
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, g.Edges(), decoded.Edges)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("DOT")
	require.NoError(t, err)
	assert.Equal(t, FormatDOT, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	_, err = ParseFormat("yaml")
	require.Error(t, err)
}
