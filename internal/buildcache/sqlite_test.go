package buildcache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/catpages/internal/depgraph"
)

func newStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_GraphRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	g := depgraph.FromEdges([]depgraph.Edge{
		{Source: "/src/p1.md", Target: "public/categories/tech.html"},
		{Source: "/src/p1.md", Target: "public/categories/index.html"},
		{Source: "/src/p2.md", Target: "public/categories/life.html"},
	})
	require.NoError(t, store.SaveGraph(ctx, "CategoryPage", g))

	loaded, err := store.LoadGraph(ctx, "CategoryPage")
	require.NoError(t, err)
	assert.True(t, g.Equal(loaded))
	assert.Equal(t, g.Edges(), loaded.Edges())
}

func TestSQLiteStore_SaveGraphReplaces(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	require.NoError(t, store.SaveGraph(ctx, "A", depgraph.FromEdges([]depgraph.Edge{{Source: "x", Target: "y"}})))
	require.NoError(t, store.SaveGraph(ctx, "A", depgraph.FromEdges([]depgraph.Edge{{Source: "x", Target: "z"}})))
	require.NoError(t, store.SaveGraph(ctx, "B", depgraph.New()))

	loaded, err := store.LoadGraph(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, []depgraph.Edge{{Source: "x", Target: "z"}}, loaded.Edges())

	names, err := store.Emitters(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, names)
}

func TestSQLiteStore_LoadMissingGraphIsEmpty(t *testing.T) {
	loaded, err := newStore(t).LoadGraph(context.Background(), "nope")
	require.NoError(t, err)
	assert.Zero(t, loaded.Len())
}

func TestSQLiteStore_Fingerprints(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	require.NoError(t, store.SaveFingerprints(ctx, map[string]string{"a.md": "1", "b.md": "2"}))
	require.NoError(t, store.SaveFingerprints(ctx, map[string]string{"a.md": "3"}))

	got, err := store.LoadFingerprints(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a.md": "3"}, got)
}

func TestSQLiteStore_Builds(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	last, err := store.LastBuild(ctx)
	require.NoError(t, err)
	assert.Nil(t, last)

	start := time.Now().Add(-time.Minute).Truncate(time.Millisecond)
	require.NoError(t, store.RecordBuild(ctx, BuildRecord{
		ID: "one", StartedAt: start, FinishedAt: start.Add(time.Second),
		Status: BuildSucceeded, Pages: 3, Outputs: 6, Signature: "sig-1",
	}))
	require.NoError(t, store.RecordBuild(ctx, BuildRecord{
		ID: "two", StartedAt: start.Add(10 * time.Second), FinishedAt: start.Add(11 * time.Second),
		Status: BuildFailed, Incremental: true, Error: "boom",
	}))

	last, err = store.LastBuild(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "two", last.ID)
	assert.True(t, last.Incremental)
	assert.Equal(t, "boom", last.Error)
	assert.Equal(t, BuildFailed, last.Status)

	recent, err := store.RecentBuilds(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "one", recent[1].ID)
	assert.True(t, start.Equal(recent[1].StartedAt))
	assert.Equal(t, 6, recent[1].Outputs)
	assert.Equal(t, "sig-1", recent[1].Signature)
}

func TestSQLiteStore_InMemory(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.SaveGraph(ctx, "A", depgraph.FromEdges([]depgraph.Edge{{Source: "s", Target: "t"}})))
	g, err := store.LoadGraph(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, 1, g.Len())
}

func TestSQLiteStore_CloseTwice(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.Error(t, store.Close())
}
