// Package build runs the catpages pipeline: load content, compute dependency
// graphs, emit output and persist the state incremental builds need. All
// entry points (CLI build, preview rebuilds, tests) go through Service.
package build

import (
	"time"
)

// Options modifies a single build.
type Options struct {
	// Incremental re-emits only outputs affected by changed sources when the
	// previous build is reusable.
	Incremental bool

	// Clean removes the output directory before a full build.
	Clean bool
}

// Result contains the outcome of a build execution.
type Result struct {
	BuildID string
	Status  Status

	// Incremental is true when the build reused the previous one.
	Incremental bool

	Pages      int
	Categories int

	// Changed is the number of sources that differed from the previous
	// build. Zero for full builds.
	Changed int

	// Written lists every output path written, in emitter order.
	Written []string

	// Removed counts stale outputs deleted by an incremental build.
	Removed int

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// Status represents the outcome of a build execution.
type Status string

const (
	StatusSuccess   Status = "success"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// IsSuccess returns true if the build completed successfully.
func (s Status) IsSuccess() bool { return s == StatusSuccess }

func (r *Result) finish(status Status) {
	r.Status = status
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
}
