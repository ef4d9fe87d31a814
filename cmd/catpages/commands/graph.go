package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"git.home.luguber.info/inful/catpages/internal/build"
	"git.home.luguber.info/inful/catpages/internal/config"
	"git.home.luguber.info/inful/catpages/internal/depgraph"
	"git.home.luguber.info/inful/catpages/internal/errors"
)

// GraphCmd implements the 'graph' command.
type GraphCmd struct {
	Format  string   `short:"f" help:"Output format: text, json, dot" default:"text" enum:"text,json,dot"`
	Emitter []string `short:"e" help:"Limit output to these emitters (repeatable)"`
	Cached  bool     `help:"Print the graphs persisted by the last build instead of computing them"`
	Output  string   `short:"o" help:"Output file path (optional, prints to stdout if not specified)"`
}

func (c *GraphCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if c.Output != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "create graph output").
				WithPath(c.Output).
				Build()
		}
		defer func() { _ = f.Close() }()
		out = f
	}
	return c.write(context.Background(), g, cfg, out)
}

func (c *GraphCmd) write(ctx context.Context, g *Global, cfg *config.Config, out io.Writer) error {
	format, err := depgraph.ParseFormat(c.Format)
	if err != nil {
		return errors.ValidationError(err.Error()).WithContext("format", c.Format).Build()
	}

	graphs, err := c.load(ctx, g, cfg)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(graphs))
	for name := range graphs {
		if len(c.Emitter) == 0 || slices.Contains(c.Emitter, name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	for _, want := range c.Emitter {
		if _, ok := graphs[want]; !ok {
			return errors.ValidationError(fmt.Sprintf("unknown emitter %q", want)).Build()
		}
	}

	for _, name := range names {
		if err := depgraph.Write(out, name, graphs[name], format); err != nil {
			return errors.WrapError(err, errors.CategoryInternal, "write graph").
				WithContext("emitter", name).
				Build()
		}
	}
	return nil
}

func (c *GraphCmd) load(ctx context.Context, g *Global, cfg *config.Config) (map[string]*depgraph.Graph, error) {
	if !c.Cached {
		return build.NewService(cfg).WithLogger(g.logger()).Graphs(ctx)
	}
	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	emitters, err := store.Emitters(ctx)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryCache, "list cached graphs").Build()
	}
	graphs := make(map[string]*depgraph.Graph, len(emitters))
	for _, name := range emitters {
		gr, err := store.LoadGraph(ctx, name)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryCache, "load cached graph").
				WithContext("emitter", name).
				Build()
		}
		graphs[name] = gr
	}
	return graphs, nil
}
