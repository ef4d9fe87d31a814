package build

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"git.home.luguber.info/inful/catpages/internal/buildcache"
	"git.home.luguber.info/inful/catpages/internal/config"
	"git.home.luguber.info/inful/catpages/internal/content"
	"git.home.luguber.info/inful/catpages/internal/depgraph"
	"git.home.luguber.info/inful/catpages/internal/emitter"
	"git.home.luguber.info/inful/catpages/internal/errors"
	"git.home.luguber.info/inful/catpages/internal/incremental"
	"git.home.luguber.info/inful/catpages/internal/logfields"
	"git.home.luguber.info/inful/catpages/internal/slugs"
	"git.home.luguber.info/inful/catpages/internal/version"
)

// previousBuild is the cached state an incremental build starts from.
type previousBuild struct {
	fingerprints map[string]string
	graphs       map[string]*depgraph.Graph
}

// outputSettings is the part of the configuration that shapes the output.
// Changing any of it forces a full build.
type outputSettings struct {
	Site       config.SiteConfig       `json:"site"`
	Content    config.ContentConfig    `json:"content"`
	OutputDir  string                  `json:"output_dir"`
	Categories config.CategoriesConfig `json:"categories"`
	Layout     config.LayoutConfig     `json:"layout"`
}

func signature(cfg *config.Config, emitters []string) (string, error) {
	sig, err := incremental.ComputeBuildSignature(version.Version, emitters, outputSettings{
		Site:       cfg.Site,
		Content:    cfg.Content,
		OutputDir:  cfg.Output.Directory,
		Categories: cfg.Categories,
		Layout:     cfg.Layout,
	})
	if err != nil {
		return "", errors.InternalError("compute build signature").WithCause(err).Build()
	}
	return sig.BuildHash, nil
}

// reusable returns the state of the last build when an incremental build
// can start from it, and nil otherwise.
func (s *Service) reusable(ctx context.Context, logger *slog.Logger, sig string) *previousBuild {
	if s.store == nil {
		logger.Info("No build cache configured; running full build")
		return nil
	}
	last, err := s.store.LastBuild(ctx)
	switch {
	case err != nil:
		logger.Warn("Failed to read build cache; running full build", logfields.Error(err))
		return nil
	case last == nil:
		logger.Info("No previous build; running full build")
		return nil
	case last.Status != buildcache.BuildSucceeded:
		logger.Info("Previous build did not succeed; running full build")
		return nil
	case last.Signature != sig:
		logger.Info("Settings changed since previous build; running full build")
		return nil
	}
	if _, err := os.Stat(filepath.FromSlash(s.cfg.Output.Directory)); err != nil {
		logger.Info("Output directory missing; running full build", logfields.Path(s.cfg.Output.Directory))
		return nil
	}

	prev := &previousBuild{graphs: make(map[string]*depgraph.Graph)}
	if prev.fingerprints, err = s.store.LoadFingerprints(ctx); err != nil {
		logger.Warn("Failed to load fingerprints; running full build", logfields.Error(err))
		return nil
	}
	for _, name := range s.registry.Names() {
		g, err := s.store.LoadGraph(ctx, name)
		if err != nil {
			logger.Warn("Failed to load dependency graph; running full build", logfields.Emitter(name), logfields.Error(err))
			return nil
		}
		prev.graphs[name] = g
	}
	return prev
}

// emitIncremental re-emits the outputs reachable from changed sources and
// removes outputs no source produces any more. Emitters that cannot emit
// partially always run in full.
func (s *Service) emitIncremental(
	ctx context.Context,
	bctx *emitter.BuildCtx,
	pages []*content.Page,
	graphs map[string]*depgraph.Graph,
	fingerprints map[string]string,
	prev *previousBuild,
	result *Result,
) error {
	changes := incremental.Diff(prev.fingerprints, fingerprints)
	result.Changed = changes.Len()
	bctx.Logger.Info("Detected source changes",
		slog.Int("added", len(changes.Added)),
		slog.Int("modified", len(changes.Modified)),
		slog.Int("deleted", len(changes.Deleted)))

	changed := s.changedPages(pages, changes)
	for _, e := range s.registry.List() {
		partial, ok := e.(emitter.PartialEmitter)
		if !ok {
			written, err := e.Emit(ctx, bctx, pages)
			result.Written = append(result.Written, written...)
			if err != nil {
				return err
			}
			continue
		}

		var extra []string
		if ext, ok := e.(emitter.TargetExtender); ok {
			for _, p := range changed {
				extra = append(extra, ext.ExtraTargets(bctx, p)...)
			}
		}
		var required []string
		if keeper, ok := e.(emitter.OutputKeeper); ok {
			required = keeper.RequiredOutputs(bctx, pages)
		}
		plan := incremental.PlanEmitter(e.Name(), prev.graphs[e.Name()], graphs[e.Name()], changes, extra, required)
		if plan.Empty() {
			bctx.Logger.Debug("Emitter up to date", logfields.Emitter(e.Name()))
			continue
		}

		removed, err := incremental.RemoveOutputs(bctx.OutputDir, plan.Stale, bctx.Logger)
		result.Removed += removed
		if err != nil {
			return emitter.NewEmitterError(e.Name(), "remove stale outputs", err)
		}
		if plan.Targets.Len() == 0 {
			continue
		}
		written, err := partial.EmitOnly(ctx, bctx, pages, plan.Targets)
		result.Written = append(result.Written, written...)
		if err != nil {
			return err
		}
	}
	return nil
}

// changedPages returns the pages behind changed sources. Deleted Markdown
// sources are represented by a page carrying only their slug and path.
func (s *Service) changedPages(pages []*content.Page, changes incremental.ChangeSet) []*content.Page {
	byPath := make(map[string]*content.Page, len(pages))
	for _, p := range pages {
		byPath[p.FilePath] = p
	}
	root, err := filepath.Abs(s.cfg.Content.Directory)
	if err != nil {
		root = s.cfg.Content.Directory
	}

	var out []*content.Page
	for _, path := range slices.Concat(changes.Added, changes.Modified, changes.Deleted) {
		if p, ok := byPath[path]; ok {
			out = append(out, p)
			continue
		}
		rel, err := filepath.Rel(root, filepath.FromSlash(path))
		if err != nil || !content.IsMarkdown(rel) {
			continue
		}
		out = append(out, &content.Page{Slug: slugs.SlugifyFilePath(filepath.ToSlash(rel)), FilePath: path})
	}
	return out
}
