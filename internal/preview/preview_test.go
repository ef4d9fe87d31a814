package preview

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/catpages/internal/build"
	"git.home.luguber.info/inful/catpages/internal/buildcache"
	"git.home.luguber.info/inful/catpages/internal/metrics"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestServer_ServesSite(t *testing.T) {
	out := t.TempDir()
	writeFile(t, filepath.Join(out, "index.html"), "home")
	writeFile(t, filepath.Join(out, "categories", "tech.html"), "tech page")
	writeFile(t, filepath.Join(out, "categories", "index.html"), "all categories")
	writeFile(t, filepath.Join(out, "index.css"), "body{}")

	h := NewServer(ServerOptions{OutputDir: out}).Handler()

	tests := []struct {
		target string
		code   int
		body   string
	}{
		{"/", http.StatusOK, "home"},
		{"/categories/tech", http.StatusOK, "tech page"},
		{"/categories/tech.html", http.StatusOK, "tech page"},
		{"/categories/", http.StatusOK, "all categories"},
		{"/index.css", http.StatusOK, "body{}"},
		{"/missing", http.StatusNotFound, "404 page not found\n"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			w := get(t, h, tt.target)
			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, tt.body, w.Body.String())
		})
	}
}

func TestServer_CustomNotFound(t *testing.T) {
	out := t.TempDir()
	writeFile(t, filepath.Join(out, "404.html"), "gone")

	w := get(t, NewServer(ServerOptions{OutputDir: out}).Handler(), "/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "gone", w.Body.String())
}

func TestServer_Health(t *testing.T) {
	srv := NewServer(ServerOptions{OutputDir: t.TempDir()})

	var resp struct {
		Data healthResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(get(t, srv.Handler(), "/health").Body).Decode(&resp))
	assert.Equal(t, "healthy", resp.Data.Status)
	assert.False(t, resp.Data.Built)

	srv.status.setSuccess()
	srv.status.setError(assert.AnError)
	require.NoError(t, json.NewDecoder(get(t, srv.Handler(), "/health").Body).Decode(&resp))
	assert.Equal(t, "degraded", resp.Data.Status)
	assert.True(t, resp.Data.Built)
	assert.Equal(t, assert.AnError.Error(), resp.Data.LastError)
}

func TestServer_Builds(t *testing.T) {
	store, err := buildcache.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()
	start := time.Now().Truncate(time.Millisecond)
	require.NoError(t, store.RecordBuild(context.Background(), buildcache.BuildRecord{
		ID: "b1", StartedAt: start, FinishedAt: start.Add(2 * time.Second),
		Status: buildcache.BuildSucceeded, Pages: 4, Outputs: 9,
	}))

	h := NewServer(ServerOptions{OutputDir: t.TempDir(), Store: store}).Handler()

	var list struct {
		Success bool            `json:"success"`
		Data    []buildResponse `json:"data"`
	}
	w := get(t, h, "/builds")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, "b1", list.Data[0].ID)
	assert.Equal(t, int64(2000), list.Data[0].Duration)
	assert.Equal(t, 9, list.Data[0].Outputs)

	assert.Equal(t, http.StatusOK, get(t, h, "/builds/b1").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/builds/zzz").Code)
}

func TestServer_BuildsWithoutStore(t *testing.T) {
	h := NewServer(ServerOptions{OutputDir: t.TempDir()}).Handler()
	assert.Equal(t, http.StatusServiceUnavailable, get(t, h, "/builds").Code)
}

func TestServer_Metrics(t *testing.T) {
	reg := prom.NewRegistry()
	metrics.NewPrometheusRecorder(reg).IncRebuildTrigger("change")

	h := NewServer(ServerOptions{OutputDir: t.TempDir(), Metrics: metrics.HTTPHandler(reg)}).Handler()
	w := get(t, h, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "catpages_")

	plain := NewServer(ServerOptions{OutputDir: t.TempDir()}).Handler()
	assert.Equal(t, http.StatusNotFound, get(t, plain, "/metrics").Code)
}

func TestShouldIgnoreEvent(t *testing.T) {
	for _, p := range []string{"/c/.hidden.md", "/c/note.md~", "/c/.note.md.swp", "/c/#note.md#", "/c/Thumbs.db"} {
		assert.True(t, shouldIgnoreEvent(p), p)
	}
	assert.False(t, shouldIgnoreEvent("/c/note.md"))
}

func TestDebouncer_CoalescesBursts(t *testing.T) {
	var calls atomic.Int32
	trigger, stop := debouncer(20*time.Millisecond, func() { calls.Add(1) })
	defer stop()

	for range 5 {
		trigger()
	}
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSkipFunc(t *testing.T) {
	dir := t.TempDir()
	skip := skipFunc(Options{
		ContentDir: dir,
		OutputDir:  filepath.ToSlash(filepath.Join(dir, "public")),
		Ignore:     []string{"private"},
	})
	assert.True(t, skip(filepath.Join(dir, "public", "a.html")))
	assert.True(t, skip(filepath.Join(dir, "private")))
	assert.False(t, skip(filepath.Join(dir, "notes", "a.md")))
	assert.False(t, skip(dir))
}

type fakeBuilder struct {
	calls chan build.Options
}

func (f *fakeBuilder) Run(_ context.Context, opts build.Options) (*build.Result, error) {
	f.calls <- opts
	return &build.Result{Status: build.StatusSuccess}, nil
}

func TestRun_RebuildsOnChange(t *testing.T) {
	contentDir := t.TempDir()
	b := &fakeBuilder{calls: make(chan build.Options, 10)}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, b, Options{
			Addr:       "127.0.0.1:0",
			ContentDir: contentDir,
			OutputDir:  filepath.ToSlash(t.TempDir()),
			Debounce:   10 * time.Millisecond,
		})
	}()

	select {
	case opts := <-b.calls:
		assert.True(t, opts.Incremental)
	case <-time.After(5 * time.Second):
		t.Fatal("initial build did not run")
	}

	// The watcher is registered right after the initial build.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, filepath.Join(contentDir, "note.md"), "hello")

	select {
	case <-b.calls:
	case <-time.After(5 * time.Second):
		t.Fatal("change did not trigger a rebuild")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("preview did not shut down")
	}
}
