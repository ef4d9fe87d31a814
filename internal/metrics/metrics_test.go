package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, reg *prom.Registry) string {
	t.Helper()
	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	return string(body)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration("load", time.Second)
	r.IncBuildOutcome(BuildOutcomeSuccess)
	r.AddFilesEmitted("CategoryPage", 3)
}

func TestPrometheusRecorder_Counters(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.AddFilesEmitted("CategoryPage", 3)
	r.AddFilesEmitted("CategoryPage", 2)
	r.IncBuildOutcome(BuildOutcomeFailed)
	r.IncStageResult("emit", ResultSuccess)
	r.SetCategories(4)
	r.SetContentPages(7)
	r.IncRebuildTrigger("fsnotify")
	r.ObserveBuildDuration(time.Second)

	body := scrape(t, reg)
	assert.Contains(t, body, `catpages_files_emitted_total{emitter="CategoryPage"} 5`)
	assert.Contains(t, body, `catpages_build_outcomes_total{outcome="failed"} 1`)
	assert.Contains(t, body, `catpages_stage_results_total{result="success",stage="emit"} 1`)
	assert.Contains(t, body, "catpages_categories 4")
	assert.Contains(t, body, "catpages_content_pages 7")
	assert.Contains(t, body, `catpages_rebuild_triggers_total{reason="fsnotify"} 1`)
	assert.Contains(t, body, "catpages_build_duration_seconds_count 1")
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var r *PrometheusRecorder
	r.ObserveBuildDuration(time.Second)
	r.SetContentPages(1)
	r.ObserveEmitterDuration("x", time.Millisecond)
}

func TestNewPrometheusRecorder_NilRegistry(t *testing.T) {
	assert.NotNil(t, NewPrometheusRecorder(nil))
}
