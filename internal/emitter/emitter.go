// Package emitter defines the output stage of a build. Each Emitter turns the
// loaded pages into files under the output directory and reports which
// sources each file depends on.
package emitter

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/catpages/internal/components"
	"git.home.luguber.info/inful/catpages/internal/content"
	"git.home.luguber.info/inful/catpages/internal/depgraph"
	"git.home.luguber.info/inful/catpages/internal/util/sets"
)

// Emitter produces output files from the full set of pages.
type Emitter interface {
	// Name is the unique emitter identifier (e.g. "CategoryPage").
	Name() string

	// Components lists the components the emitter renders with, so their CSS
	// ends up in the site stylesheet.
	Components() []components.Component

	// DependencyGraph maps source files to the output files they affect.
	DependencyGraph(ctx context.Context, bctx *BuildCtx, pages []*content.Page) (*depgraph.Graph, error)

	// Emit writes every output and returns the written paths. The first
	// write error aborts emission.
	Emit(ctx context.Context, bctx *BuildCtx, pages []*content.Page) ([]string, error)
}

// PartialEmitter can restrict emission to a set of output paths.
type PartialEmitter interface {
	Emitter

	// EmitOnly writes the outputs whose paths are in targets.
	EmitOnly(ctx context.Context, bctx *BuildCtx, pages []*content.Page, targets sets.Set[string]) ([]string, error)
}

// TargetExtender is implemented by emitters whose outputs depend on a page
// in ways the dependency graph does not record.
type TargetExtender interface {
	ExtraTargets(bctx *BuildCtx, page *content.Page) []string
}

// OutputKeeper is implemented by emitters that write some outputs on every
// build, whether or not any source points at them.
type OutputKeeper interface {
	RequiredOutputs(bctx *BuildCtx, pages []*content.Page) []string
}

// EmitterError represents an error that occurred within an emitter.
type EmitterError struct {
	// Emitter identifies which emitter failed.
	Emitter string

	// Operation describes what the emitter was doing when it failed.
	Operation string

	// Err is the underlying error.
	Err error
}

func (e *EmitterError) Error() string {
	return fmt.Sprintf("emitter %s failed during %s: %v", e.Emitter, e.Operation, e.Err)
}

func (e *EmitterError) Unwrap() error {
	return e.Err
}

// NewEmitterError creates a new emitter error.
func NewEmitterError(emitter, operation string, err error) *EmitterError {
	return &EmitterError{Emitter: emitter, Operation: operation, Err: err}
}
