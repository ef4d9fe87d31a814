package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/catpages/internal/build"
	"git.home.luguber.info/inful/catpages/internal/config"
	"git.home.luguber.info/inful/catpages/internal/logfields"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Incremental bool `short:"i" help:"Re-emit only outputs affected by changed sources (falls back to a full build)"`
	Clean       bool `help:"Remove the output directory before a full build"`
	NoCache     bool `name:"no-cache" help:"Do not read or write the build cache"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return RunBuild(ctx, g, cfg, build.Options{
		Incremental: b.Incremental || cfg.Build.Incremental,
		Clean:       b.Clean || cfg.Output.Clean,
	}, !b.NoCache, os.Stdout)
}

// RunBuild executes one build and prints a summary to out.
func RunBuild(ctx context.Context, g *Global, cfg *config.Config, opts build.Options, useCache bool, out io.Writer) error {
	logger := g.logger()
	svc := build.NewService(cfg).WithLogger(logger)
	if useCache {
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		svc = svc.WithStore(store)
	}

	res, err := svc.Run(ctx, opts)
	if err != nil {
		return err
	}
	mode := "full"
	if res.Incremental {
		mode = "incremental"
	}
	logger.Debug("Build summary", logfields.BuildID(res.BuildID), logfields.Count(len(res.Written)))
	_, _ = fmt.Fprintf(out, "Built %d pages, %d categories (%s): %d written, %d removed in %s\n",
		res.Pages, res.Categories, mode, len(res.Written), res.Removed, res.Duration.Round(time.Millisecond))
	return nil
}
