package commands

import (
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/catpages/internal/buildcache"
	"git.home.luguber.info/inful/catpages/internal/config"
	"git.home.luguber.info/inful/catpages/internal/errors"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"catpages.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build   BuildCmd   `cmd:"" help:"Build the site from the content directory"`
	Preview PreviewCmd `cmd:"" help:"Serve the site locally and rebuild on changes"`
	Graph   GraphCmd   `cmd:"" help:"Print emitter dependency graphs (text, json, dot)"`
	Init    InitCmd    `cmd:"" help:"Initialize a new configuration file"`
	Version VersionCmd `cmd:"" help:"Show version and exit"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	if g != nil {
		g.Logger = logger
	}
	return nil
}

func (g *Global) logger() *slog.Logger {
	if g == nil || g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

// openStore opens the build cache, creating its parent directory.
func openStore(cfg *config.Config) (*buildcache.SQLiteStore, error) {
	path := cfg.Build.CachePath
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "create cache directory").
				WithPath(dir).
				Build()
		}
	}
	store, err := buildcache.NewSQLiteStore(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryCache, "open build cache").
			WithPath(path).
			Build()
	}
	return store, nil
}
