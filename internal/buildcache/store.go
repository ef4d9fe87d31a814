// Package buildcache persists the state an incremental build needs between
// runs: per-emitter dependency graphs, source fingerprints and a build log.
package buildcache

import (
	"context"
	"time"

	"git.home.luguber.info/inful/catpages/internal/depgraph"
)

// BuildStatus is the final state of a recorded build.
type BuildStatus string

const (
	BuildSucceeded BuildStatus = "succeeded"
	BuildFailed    BuildStatus = "failed"
)

// BuildRecord summarises one build run.
type BuildRecord struct {
	ID          string
	StartedAt   time.Time
	FinishedAt  time.Time
	Status      BuildStatus
	Incremental bool
	Pages       int
	Outputs     int
	Signature   string
	Error       string
}

// Store is the persistence contract used by the build orchestrator.
type Store interface {
	SaveGraph(ctx context.Context, emitter string, g *depgraph.Graph) error
	LoadGraph(ctx context.Context, emitter string) (*depgraph.Graph, error)
	Emitters(ctx context.Context) ([]string, error)

	SaveFingerprints(ctx context.Context, fingerprints map[string]string) error
	LoadFingerprints(ctx context.Context) (map[string]string, error)

	RecordBuild(ctx context.Context, rec BuildRecord) error
	LastBuild(ctx context.Context) (*BuildRecord, error)
	RecentBuilds(ctx context.Context, limit int) ([]BuildRecord, error)

	Close() error
}
