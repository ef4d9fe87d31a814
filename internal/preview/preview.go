// Package preview serves a built site locally and rebuilds it when the
// content directory changes.
package preview

import (
	"context"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"git.home.luguber.info/inful/catpages/internal/build"
	"git.home.luguber.info/inful/catpages/internal/buildcache"
	"git.home.luguber.info/inful/catpages/internal/content"
	"git.home.luguber.info/inful/catpages/internal/errors"
	"git.home.luguber.info/inful/catpages/internal/logfields"
	"git.home.luguber.info/inful/catpages/internal/metrics"
)

const shutdownTimeout = 5 * time.Second

// Builder runs one build.
type Builder interface {
	Run(ctx context.Context, opts build.Options) (*build.Result, error)
}

// Options configures a preview session.
type Options struct {
	Addr       string
	ContentDir string
	OutputDir  string
	Ignore     []string
	Debounce   time.Duration

	Store    buildcache.Store
	Metrics  http.Handler
	Recorder metrics.Recorder
	Logger   *slog.Logger
}

// Run builds the site, serves it and rebuilds incrementally on every
// settled change until ctx is done. A failing build keeps the server up
// with the last good output; /health reports the error.
func Run(ctx context.Context, b Builder, opts Options) error {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	logger := opts.Logger

	srv := NewServer(ServerOptions{
		Addr:      opts.Addr,
		OutputDir: opts.OutputDir,
		Store:     opts.Store,
		Metrics:   opts.Metrics,
		Logger:    logger,
	})

	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()
	rebuild := func(reason string) {
		opts.Recorder.IncRebuildTrigger(reason)
		res, err := b.Run(workerCtx, build.Options{Incremental: true})
		if err != nil {
			if workerCtx.Err() != nil {
				return
			}
			logger.Warn("Rebuild failed", logfields.Error(err))
			srv.status.setError(err)
			return
		}
		srv.status.setSuccess()
		logger.Info("Site rebuilt",
			logfields.Count(len(res.Written)),
			logfields.DurationMS(float64(res.Duration.Milliseconds())))
	}

	rebuild("initial")

	w, err := NewWatcher(opts.ContentDir, opts.Debounce, skipFunc(opts), logger)
	if err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "watch content directory").
			WithPath(opts.ContentDir).
			Build()
	}
	defer func() { _ = w.Close() }()

	if err := srv.Start(); err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "start preview server").
			WithContext("addr", opts.Addr).
			Build()
	}
	logger.Info("Preview server listening", logfields.URL("http://"+displayAddr(opts.Addr)))

	changed := make(chan struct{}, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-changed:
				logger.Info("Change detected; rebuilding site")
				rebuild("change")
			}
		}
	}()

	runErr := w.Run(ctx, changed)

	logger.Info("Shutting down preview server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown error", logfields.Error(err))
	}
	stopWorker()
	wg.Wait()
	return runErr
}

// skipFunc excludes ignored content entries and the output directory when
// it lives inside the content directory.
func skipFunc(opts Options) func(string) bool {
	contentDir, _ := filepath.Abs(opts.ContentDir)
	outputDir, _ := filepath.Abs(filepath.FromSlash(opts.OutputDir))
	return func(p string) bool {
		abs, err := filepath.Abs(p)
		if err != nil {
			return false
		}
		if abs == outputDir || strings.HasPrefix(abs, outputDir+string(filepath.Separator)) {
			return true
		}
		rel, err := filepath.Rel(contentDir, abs)
		if err != nil || rel == "." {
			return false
		}
		return content.Ignored(filepath.ToSlash(rel), filepath.Base(abs), opts.Ignore)
	}
}

func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}
