package commands

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/catpages/internal/build"
	"git.home.luguber.info/inful/catpages/internal/config"
	"git.home.luguber.info/inful/catpages/internal/metrics"
	"git.home.luguber.info/inful/catpages/internal/preview"
)

// PreviewCmd implements the 'preview' command.
type PreviewCmd struct {
	Port    int  `short:"p" help:"HTTP port (overrides preview.port)"`
	Metrics bool `help:"Expose /metrics (overrides preview.metrics)"`
}

func (p *PreviewCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if p.Port > 0 {
		cfg.Preview.Port = p.Port
	}
	if p.Metrics {
		cfg.Preview.Metrics = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	logger := g.logger()
	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var metricsHandler http.Handler
	if cfg.Preview.Metrics {
		reg := prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
		metricsHandler = metrics.HTTPHandler(reg)
	}

	svc := build.NewService(cfg).
		WithStore(store).
		WithRecorder(recorder).
		WithLogger(logger)

	return preview.Run(ctx, svc, preview.Options{
		Addr:       ":" + strconv.Itoa(cfg.Preview.Port),
		ContentDir: cfg.Content.Directory,
		OutputDir:  cfg.Output.Directory,
		Ignore:     cfg.Content.Ignore,
		Debounce:   cfg.Preview.DebounceDuration(),
		Store:      store,
		Metrics:    metricsHandler,
		Recorder:   recorder,
		Logger:     logger,
	})
}
