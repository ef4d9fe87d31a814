package main

import (
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/catpages/cmd/catpages/commands"
	"git.home.luguber.info/inful/catpages/internal/errors"
)

func main() {
	cli := &commands.CLI{}
	global := &commands.Global{}
	parser := kong.Parse(cli,
		kong.Bind(global),
		kong.Name("catpages"),
		kong.Description("Static site generator for Markdown notes with hierarchical categories."),
		kong.UsageOnError(),
	)

	err := parser.Run(cli)
	if err == nil {
		return
	}
	adapter := errors.NewCLIErrorAdapter(cli.Verbose, nil)
	adapter.LogError(err)
	_, _ = os.Stderr.WriteString(adapter.FormatError(err) + "\n")
	os.Exit(adapter.ExitCodeFor(err))
}
