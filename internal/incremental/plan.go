package incremental

import (
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/catpages/internal/depgraph"
	"git.home.luguber.info/inful/catpages/internal/errors"
	"git.home.luguber.info/inful/catpages/internal/logfields"
	"git.home.luguber.info/inful/catpages/internal/util/sets"
)

// EmitterPlan is the work one emitter has to do in an incremental build.
type EmitterPlan struct {
	Emitter string

	// Targets are the outputs to write again.
	Targets sets.Set[string]

	// Stale are outputs of the previous build that no source produces any
	// more.
	Stale []string
}

// Empty reports whether the emitter has nothing to do.
func (p EmitterPlan) Empty() bool { return p.Targets.Len() == 0 && len(p.Stale) == 0 }

// PlanEmitter computes the outputs affected by changes. An output is
// affected when a changed source points at it in either graph; extra adds
// outputs the graphs do not record. Outputs only present in previous are
// stale and never targeted, unless listed in required.
func PlanEmitter(name string, previous, current *depgraph.Graph, changes ChangeSet, extra, required []string) EmitterPlan {
	if previous == nil {
		previous = depgraph.New()
	}
	if current == nil {
		current = depgraph.New()
	}

	targets := sets.New(extra...)
	for src := range changes.Sources() {
		targets.Add(previous.Targets(src)...)
		targets.Add(current.Targets(src)...)
	}

	live := sets.New(current.TargetNodes()...)
	live.Add(required...)
	var stale []string
	for _, out := range previous.TargetNodes() {
		if !live.Has(out) {
			stale = append(stale, out)
			targets.Delete(out)
		}
	}
	return EmitterPlan{Emitter: name, Targets: targets, Stale: stale}
}

// RemoveOutputs deletes the given slash-separated output paths. Paths that
// are already gone are skipped. Directories left empty are removed up to,
// but not including, root.
func RemoveOutputs(root string, paths []string, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	removed := 0
	for _, p := range paths {
		full := filepath.FromSlash(p)
		if err := os.Remove(full); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, errors.FileSystemError("remove stale output").
				WithCause(err).
				WithPath(p).
				Build()
		}
		removed++
		logger.Debug("Removed stale output", logfields.Path(p))
		pruneEmptyDirs(filepath.Dir(full), filepath.Clean(filepath.FromSlash(root)))
	}
	return removed, nil
}

func pruneEmptyDirs(dir, root string) {
	for dir != root && len(dir) > len(root) {
		if err := os.Remove(dir); err != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}
