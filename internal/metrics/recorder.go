package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFailed   ResultLabel = "failed"
	ResultCanceled ResultLabel = "canceled"
	ResultSkipped  ResultLabel = "skipped"
)

// BuildOutcomeLabel is the final status of a build.
type BuildOutcomeLabel string

const (
	BuildOutcomeSuccess  BuildOutcomeLabel = "success"
	BuildOutcomeFailed   BuildOutcomeLabel = "failed"
	BuildOutcomeCanceled BuildOutcomeLabel = "canceled"
)

// Recorder defines observability hooks for builds, stages and emitters.
// Implementations must tolerate being called from several goroutines.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncBuildOutcome(outcome BuildOutcomeLabel)
	ObserveEmitterDuration(emitter string, d time.Duration)
	AddFilesEmitted(emitter string, n int)
	SetContentPages(n int)
	SetCategories(n int)
	IncRebuildTrigger(reason string)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration)   {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)           {}
func (NoopRecorder) IncStageResult(string, ResultLabel)           {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel)            {}
func (NoopRecorder) ObserveEmitterDuration(string, time.Duration) {}
func (NoopRecorder) AddFilesEmitted(string, int)                  {}
func (NoopRecorder) SetContentPages(int)                          {}
func (NoopRecorder) SetCategories(int)                            {}
func (NoopRecorder) IncRebuildTrigger(string)                     {}
