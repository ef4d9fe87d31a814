package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "catpages"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration   *prom.HistogramVec
	buildDuration   prom.Histogram
	stageResults    *prom.CounterVec
	buildOutcome    *prom.CounterVec
	emitterDuration *prom.HistogramVec
	filesEmitted    *prom.CounterVec
	contentPages    prom.Gauge
	categories      prom.Gauge
	rebuildTriggers *prom.CounterVec
}

var _ Recorder = (*PrometheusRecorder)(nil)

// NewPrometheusRecorder constructs the metrics and registers them with reg.
// A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		emitterDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "emitter_duration_seconds",
			Help:      "Time spent in each emitter",
			Buckets:   prom.DefBuckets,
		}, []string{"emitter"}),
		filesEmitted: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "files_emitted_total",
			Help:      "Files written by each emitter",
		}, []string{"emitter"}),
		contentPages: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "content_pages",
			Help:      "Content pages loaded by the last build",
		}),
		categories: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "categories",
			Help:      "Categories, root listing included, in the last build",
		}),
		rebuildTriggers: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "rebuild_triggers_total",
			Help:      "Preview rebuilds by trigger",
		}, []string{"reason"}),
	}
	reg.MustRegister(
		pr.stageDuration, pr.buildDuration, pr.stageResults, pr.buildOutcome,
		pr.emitterDuration, pr.filesEmitted, pr.contentPages, pr.categories, pr.rebuildTriggers,
	)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveEmitterDuration(emitter string, d time.Duration) {
	if p == nil || p.emitterDuration == nil {
		return
	}
	p.emitterDuration.WithLabelValues(emitter).Observe(d.Seconds())
}

func (p *PrometheusRecorder) AddFilesEmitted(emitter string, n int) {
	if p == nil || p.filesEmitted == nil {
		return
	}
	p.filesEmitted.WithLabelValues(emitter).Add(float64(n))
}

func (p *PrometheusRecorder) SetContentPages(n int) {
	if p == nil || p.contentPages == nil {
		return
	}
	p.contentPages.Set(float64(n))
}

func (p *PrometheusRecorder) SetCategories(n int) {
	if p == nil || p.categories == nil {
		return
	}
	p.categories.Set(float64(n))
}

func (p *PrometheusRecorder) IncRebuildTrigger(reason string) {
	if p == nil || p.rebuildTriggers == nil {
		return
	}
	p.rebuildTriggers.WithLabelValues(reason).Inc()
}
