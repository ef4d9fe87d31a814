package incremental

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/catpages/internal/depgraph"
	"git.home.luguber.info/inful/catpages/internal/util/sets"
)

func TestComputeBuildSignature(t *testing.T) {
	type settings struct{ Title string }

	a, err := ComputeBuildSignature("1.0", []string{"B", "A"}, settings{"x"})
	require.NoError(t, err)
	b, err := ComputeBuildSignature("1.0", []string{"A", "B"}, settings{"x"})
	require.NoError(t, err)
	assert.True(t, a.Equals(b), "emitter order must not matter")
	assert.Equal(t, []string{"A", "B"}, a.Emitters)
	assert.Len(t, a.BuildHash, 64)

	c, err := ComputeBuildSignature("1.0", []string{"A", "B"}, settings{"y"})
	require.NoError(t, err)
	assert.False(t, a.Equals(c))

	d, err := ComputeBuildSignature("1.1", []string{"A", "B"}, settings{"x"})
	require.NoError(t, err)
	assert.False(t, a.Equals(d))

	_, err = ComputeBuildSignature("1.0", nil, make(chan int))
	require.Error(t, err)

	var nilSig *BuildSignature
	assert.False(t, nilSig.Equals(a))
	assert.True(t, nilSig.Equals(nil))
}

func TestDiff(t *testing.T) {
	cs := Diff(
		map[string]string{"a": "1", "b": "2", "c": "3"},
		map[string]string{"a": "1", "b": "9", "d": "4"},
	)
	assert.Equal(t, []string{"d"}, cs.Added)
	assert.Equal(t, []string{"b"}, cs.Modified)
	assert.Equal(t, []string{"c"}, cs.Deleted)
	assert.Equal(t, 3, cs.Len())
	assert.Equal(t, sets.New("b", "c", "d"), cs.Sources())

	assert.True(t, Diff(map[string]string{"a": "1"}, map[string]string{"a": "1"}).Empty())
	assert.Equal(t, []string{"a"}, Diff(nil, map[string]string{"a": "1"}).Added)
}

// categoryGraph mirrors the shape of the category emitter's graph.
func categoryGraph(pages map[string][]string) *depgraph.Graph {
	g := depgraph.New()
	for src, cats := range pages {
		if len(cats) == 0 {
			continue
		}
		for _, c := range append(cats, "index") {
			g.AddEdge(src, "out/categories/"+c+".html")
		}
	}
	return g
}

func TestPlanEmitter_ModifiedSourceTouchesOldAndNewTargets(t *testing.T) {
	previous := categoryGraph(map[string][]string{"p1": {"tech"}, "p2": {"tech", "life"}})
	current := categoryGraph(map[string][]string{"p1": {"life"}, "p2": {"tech", "life"}})

	plan := PlanEmitter("CategoryPage", previous, current, ChangeSet{Modified: []string{"p1"}}, nil, nil)
	assert.Equal(t, []string{
		"out/categories/index.html",
		"out/categories/life.html",
		"out/categories/tech.html",
	}, sets.Sorted(plan.Targets))
	assert.Empty(t, plan.Stale)
}

func TestPlanEmitter_VanishedCategoryIsStale(t *testing.T) {
	previous := categoryGraph(map[string][]string{"p1": {"tech"}, "p2": {"life"}})
	current := categoryGraph(map[string][]string{"p1": {"tech"}})

	plan := PlanEmitter("CategoryPage", previous, current, ChangeSet{Deleted: []string{"p2"}}, nil, nil)
	assert.Equal(t, []string{"out/categories/life.html"}, plan.Stale)
	assert.Equal(t, []string{"out/categories/index.html"}, sets.Sorted(plan.Targets))
}

func TestPlanEmitter_UnrelatedChangeIsEmpty(t *testing.T) {
	g := categoryGraph(map[string][]string{"p1": {"tech"}})
	plan := PlanEmitter("CategoryPage", g, g, ChangeSet{Modified: []string{"p3"}}, nil, nil)
	assert.True(t, plan.Empty())
}

func TestPlanEmitter_ExtraTargetsAndNilGraphs(t *testing.T) {
	plan := PlanEmitter("CategoryPage", nil, nil, ChangeSet{Added: []string{"x"}}, []string{"out/categories/tech.html"}, nil)
	assert.Equal(t, sets.New("out/categories/tech.html"), plan.Targets)
	assert.Equal(t, "CategoryPage", plan.Emitter)
}

func TestPlanEmitter_RequiredOutputIsNeverStale(t *testing.T) {
	previous := categoryGraph(map[string][]string{"p1": {"tech"}})
	current := categoryGraph(map[string][]string{"p1": nil})

	plan := PlanEmitter("CategoryPage", previous, current, ChangeSet{Modified: []string{"p1"}},
		nil, []string{"out/categories/index.html"})
	assert.Equal(t, []string{"out/categories/tech.html"}, plan.Stale)
	assert.Equal(t, []string{"out/categories/index.html"}, sets.Sorted(plan.Targets))
}

func TestRemoveOutputs(t *testing.T) {
	root := filepath.ToSlash(t.TempDir())
	nested := root + "/categories/a/b.html"
	kept := root + "/categories/tech.html"
	for _, p := range []string{nested, kept} {
		require.NoError(t, os.MkdirAll(filepath.Dir(filepath.FromSlash(p)), 0o750))
		require.NoError(t, os.WriteFile(filepath.FromSlash(p), []byte("x"), 0o600))
	}

	n, err := RemoveOutputs(root, []string{nested, root + "/missing.html"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = os.Stat(filepath.FromSlash(root + "/categories/a"))
	assert.True(t, os.IsNotExist(err), "empty directories are pruned")
	_, err = os.Stat(filepath.FromSlash(kept))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.FromSlash(root))
	assert.NoError(t, err)
}
