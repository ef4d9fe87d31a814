package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/catpages/internal/buildcache"
	"git.home.luguber.info/inful/catpages/internal/category"
	"git.home.luguber.info/inful/catpages/internal/components"
	"git.home.luguber.info/inful/catpages/internal/config"
	"git.home.luguber.info/inful/catpages/internal/content"
	"git.home.luguber.info/inful/catpages/internal/depgraph"
	"git.home.luguber.info/inful/catpages/internal/emitter"
	"git.home.luguber.info/inful/catpages/internal/errors"
	"git.home.luguber.info/inful/catpages/internal/layout"
	"git.home.luguber.info/inful/catpages/internal/logfields"
	"git.home.luguber.info/inful/catpages/internal/markdown"
	"git.home.luguber.info/inful/catpages/internal/metrics"
)

const (
	stageLoad    = "load"
	stageGraph   = "graph"
	stageEmit    = "emit"
	stagePersist = "persist"
)

// Service runs builds for one configuration. Runs are serialised.
type Service struct {
	cfg      *config.Config
	registry *emitter.Registry
	store    buildcache.Store
	recorder metrics.Recorder
	logger   *slog.Logger

	mu sync.Mutex
}

// NewService creates a Service with the default emitters, no build cache,
// a no-op recorder and the default logger.
func NewService(cfg *config.Config) *Service {
	return &Service{
		cfg:      cfg,
		registry: NewRegistry(cfg),
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
}

// WithStore enables incremental builds backed by store.
func (s *Service) WithStore(store buildcache.Store) *Service {
	s.store = store
	return s
}

// WithRecorder sets the metrics recorder.
func (s *Service) WithRecorder(r metrics.Recorder) *Service {
	if r != nil {
		s.recorder = r
	}
	return s
}

// WithLogger sets a custom logger.
func (s *Service) WithLogger(logger *slog.Logger) *Service {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithRegistry replaces the default emitters (for testing).
func (s *Service) WithRegistry(r *emitter.Registry) *Service {
	s.registry = r
	return s
}

// Registry returns the emitters in emission order.
func (s *Service) Registry() *emitter.Registry { return s.registry }

// NewRegistry returns the emitters of a site in emission order. The
// stylesheet emitter comes last so it sees every other emitter.
func NewRegistry(cfg *config.Config) *emitter.Registry {
	links := make([]components.Link, 0, len(cfg.Layout.FooterLinks))
	for _, l := range cfg.Layout.FooterLinks {
		links = append(links, components.Link{Text: l.Text, URL: l.URL})
	}
	shared := layout.SharedPageComponents(links)
	titles := category.Titles{Index: cfg.Categories.IndexTitle, Prefix: cfg.Categories.TitlePrefix}

	reg := emitter.NewRegistry()
	return reg.MustRegister(
		emitter.NewContentPage(shared, emitter.LayoutOverrides{}),
		emitter.NewCategoryPage(shared, titles, emitter.LayoutOverrides{}),
		emitter.NewAssets(cfg.Content.Directory, cfg.Content.Ignore),
		emitter.NewComponentResources(reg.List),
	)
}

func (s *Service) loader(logger *slog.Logger) *content.Loader {
	return content.NewLoader(content.LoaderOptions{
		Dir:           s.cfg.Content.Directory,
		Ignore:        s.cfg.Content.Ignore,
		IncludeDrafts: s.cfg.Content.IncludeDrafts,
		Workers:       s.cfg.Build.Workers,
		Markdown: markdown.Options{
			Extensions: s.cfg.Content.Markdown.Extensions,
			HardWraps:  s.cfg.Content.Markdown.HardWraps,
			Unsafe:     s.cfg.Content.Markdown.Unsafe,
		},
	}, logger)
}

func (s *Service) buildCtx(buildID string, logger *slog.Logger) *emitter.BuildCtx {
	site := components.Site{
		Title:   s.cfg.Site.Title,
		BaseURL: s.cfg.Site.BaseURL,
		Locale:  s.cfg.Site.Locale,
	}
	return emitter.NewBuildCtx(buildID, s.cfg.Output.Directory, site, logger, s.recorder)
}

// Graphs loads the content and computes the dependency graph of every
// emitter without writing any output.
func (s *Service) Graphs(ctx context.Context) (map[string]*depgraph.Graph, error) {
	logger := s.logger.With(logfields.Stage(stageGraph))
	pages, err := s.loader(logger).Load(ctx)
	if err != nil {
		return nil, err
	}
	return s.graphs(ctx, s.buildCtx(uuid.NewString(), logger), pages)
}

func (s *Service) graphs(ctx context.Context, bctx *emitter.BuildCtx, pages []*content.Page) (map[string]*depgraph.Graph, error) {
	out := make(map[string]*depgraph.Graph)
	for _, e := range s.registry.List() {
		g, err := e.DependencyGraph(ctx, bctx, pages)
		if err != nil {
			return nil, emitter.NewEmitterError(e.Name(), "dependency graph", err)
		}
		out[e.Name()] = g
	}
	return out, nil
}

// Run executes one build. The returned result is filled in as far as the
// build got, also when an error is returned.
func (s *Service) Run(ctx context.Context, opts Options) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := &Result{BuildID: uuid.NewString(), StartTime: time.Now()}
	logger := s.logger.With(logfields.BuildID(result.BuildID))
	logger.Info("Starting build",
		logfields.Path(s.cfg.Content.Directory),
		slog.Bool("incremental", opts.Incremental))

	sig, err := s.run(ctx, s.buildCtx(result.BuildID, logger), opts, result)

	outcome := metrics.BuildOutcomeSuccess
	switch {
	case err == nil:
		result.finish(StatusSuccess)
	case ctx.Err() != nil:
		result.finish(StatusCancelled)
		outcome = metrics.BuildOutcomeCanceled
	default:
		result.finish(StatusFailed)
		outcome = metrics.BuildOutcomeFailed
	}
	s.recorder.IncBuildOutcome(outcome)
	s.recorder.ObserveBuildDuration(result.Duration)
	s.record(ctx, logger, result, sig, err)

	if err != nil {
		logger.Error("Build failed", logfields.Error(err), slog.String("status", string(result.Status)))
		return result, err
	}
	logger.Info("Build completed",
		logfields.Count(len(result.Written)),
		slog.Int("pages", result.Pages),
		slog.Int("categories", result.Categories),
		slog.Bool("incremental", result.Incremental),
		logfields.DurationMS(float64(result.Duration.Milliseconds())))
	return result, nil
}

// run performs the stages and returns the build signature once known.
func (s *Service) run(ctx context.Context, bctx *emitter.BuildCtx, opts Options, result *Result) (string, error) {
	logger := bctx.Logger

	var pages []*content.Page
	if err := s.stage(ctx, logger, stageLoad, func() error {
		var err error
		pages, err = s.loader(logger).Load(ctx)
		return err
	}); err != nil {
		return "", err
	}
	result.Pages = len(pages)
	result.Categories = category.Universe(pages).Len()
	s.recorder.SetContentPages(len(pages))

	var graphs map[string]*depgraph.Graph
	if err := s.stage(ctx, logger, stageGraph, func() error {
		var err error
		graphs, err = s.graphs(ctx, bctx, pages)
		return err
	}); err != nil {
		return "", err
	}

	sig, err := signature(s.cfg, s.registry.Names())
	if err != nil {
		return "", err
	}
	fingerprints, err := sourceFingerprints(pages, graphs)
	if err != nil {
		return sig, err
	}

	var previous *previousBuild
	if opts.Incremental {
		previous = s.reusable(ctx, logger, sig)
	}

	if err := s.stage(ctx, logger, stageEmit, func() error {
		if previous != nil {
			result.Incremental = true
			return s.emitIncremental(ctx, bctx, pages, graphs, fingerprints, previous, result)
		}
		return s.emitFull(ctx, bctx, pages, opts.Clean, result)
	}); err != nil {
		return sig, err
	}

	if s.store == nil {
		s.recorder.IncStageResult(stagePersist, metrics.ResultSkipped)
		return sig, nil
	}
	return sig, s.stage(ctx, logger, stagePersist, func() error {
		return s.persist(ctx, graphs, fingerprints)
	})
}

// stage runs fn and records its duration and result.
func (s *Service) stage(ctx context.Context, logger *slog.Logger, name string, fn func() error) error {
	start := time.Now()
	logger.Debug("Stage started", logfields.Stage(name))
	err := fn()
	d := time.Since(start)
	s.recorder.ObserveStageDuration(name, d)
	switch {
	case err == nil:
		s.recorder.IncStageResult(name, metrics.ResultSuccess)
		logger.Debug("Stage completed", logfields.Stage(name), logfields.DurationMS(float64(d.Milliseconds())))
	case ctx.Err() != nil:
		s.recorder.IncStageResult(name, metrics.ResultCanceled)
	default:
		s.recorder.IncStageResult(name, metrics.ResultFailed)
	}
	return err
}

func (s *Service) emitFull(ctx context.Context, bctx *emitter.BuildCtx, pages []*content.Page, clean bool, result *Result) error {
	if clean {
		dir := filepath.FromSlash(bctx.OutputDir)
		if err := os.RemoveAll(dir); err != nil {
			return errors.FileSystemError("clean output directory").
				WithCause(err).
				WithPath(dir).
				Build()
		}
		bctx.Logger.Debug("Cleaned output directory", logfields.Path(dir))
	}
	for _, e := range s.registry.List() {
		written, err := e.Emit(ctx, bctx, pages)
		result.Written = append(result.Written, written...)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) persist(ctx context.Context, graphs map[string]*depgraph.Graph, fingerprints map[string]string) error {
	for _, name := range s.registry.Names() {
		if err := s.store.SaveGraph(ctx, name, graphs[name]); err != nil {
			return errors.WrapError(err, errors.CategoryCache, "save dependency graph").
				WithContext("emitter", name).
				Build()
		}
	}
	if err := s.store.SaveFingerprints(ctx, fingerprints); err != nil {
		return errors.WrapError(err, errors.CategoryCache, "save fingerprints").Build()
	}
	return nil
}

// record writes the build log entry. It runs even after cancellation.
func (s *Service) record(ctx context.Context, logger *slog.Logger, result *Result, sig string, runErr error) {
	if s.store == nil {
		return
	}
	rec := buildcache.BuildRecord{
		ID:          result.BuildID,
		StartedAt:   result.StartTime,
		FinishedAt:  result.EndTime,
		Status:      buildcache.BuildSucceeded,
		Incremental: result.Incremental,
		Pages:       result.Pages,
		Outputs:     len(result.Written),
		Signature:   sig,
	}
	if runErr != nil {
		rec.Status = buildcache.BuildFailed
		rec.Error = runErr.Error()
	}
	if err := s.store.RecordBuild(context.WithoutCancel(ctx), rec); err != nil {
		logger.Warn("Failed to record build", logfields.Error(err))
	}
}

// sourceFingerprints fingerprints every source: pages by content, other
// graph sources such as assets by size and modification time.
func sourceFingerprints(pages []*content.Page, graphs map[string]*depgraph.Graph) (map[string]string, error) {
	fps := make(map[string]string, len(pages))
	for _, p := range pages {
		if p.FilePath != "" {
			fps[p.FilePath] = p.Fingerprint
		}
	}
	for _, g := range graphs {
		for _, src := range g.SourceNodes() {
			if _, ok := fps[src]; ok {
				continue
			}
			info, err := os.Stat(filepath.FromSlash(src))
			if err != nil {
				return nil, errors.FileSystemError("stat source").
					WithCause(err).
					WithPath(src).
					Build()
			}
			fps[src] = fmt.Sprintf("%d-%d", info.Size(), info.ModTime().UnixNano())
		}
	}
	return fps, nil
}
