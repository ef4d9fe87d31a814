package emitter

import (
	"context"
	"strings"

	"git.home.luguber.info/inful/catpages/internal/components"
	"git.home.luguber.info/inful/catpages/internal/content"
	"git.home.luguber.info/inful/catpages/internal/depgraph"
)

// ComponentResourcesName identifies the stylesheet emitter.
const ComponentResourcesName = "ComponentResources"

// ComponentResources writes the merged stylesheet of every component used by
// the other emitters.
type ComponentResources struct {
	sources func() []Emitter
}

// NewComponentResources collects components from the emitters returned by
// sources at emit time.
func NewComponentResources(sources func() []Emitter) *ComponentResources {
	return &ComponentResources{sources: sources}
}

func (e *ComponentResources) Name() string { return ComponentResourcesName }

func (e *ComponentResources) Components() []components.Component { return nil }

// DependencyGraph is empty: the stylesheet depends on code, not content.
func (e *ComponentResources) DependencyGraph(context.Context, *BuildCtx, []*content.Page) (*depgraph.Graph, error) {
	return depgraph.New(), nil
}

func (e *ComponentResources) Emit(_ context.Context, bctx *BuildCtx, _ []*content.Page) ([]string, error) {
	var comps []components.Component
	for _, em := range e.sources() {
		if em.Name() == e.Name() {
			continue
		}
		comps = append(comps, em.Components()...)
	}
	slug := strings.TrimSuffix(components.StylesheetPath, ".css")
	fp, err := bctx.Write(slug, ".css", []byte(components.Stylesheet(comps)))
	if err != nil {
		return nil, NewEmitterError(e.Name(), "write stylesheet", err)
	}
	bctx.Recorder.AddFilesEmitted(e.Name(), 1)
	return []string{fp}, nil
}
