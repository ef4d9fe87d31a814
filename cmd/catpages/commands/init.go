package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/catpages/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite existing configuration file"`
	Output string `short:"o" name:"output" help:"Directory to write catpages.yaml into (defaults to --config)"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	if i.Output != "" {
		return RunInit(filepath.Join(i.Output, "catpages.yaml"), i.Force)
	}
	return RunInit(root.Config, i.Force)
}

func RunInit(configPath string, force bool) error {
	if err := config.Init(configPath, force); err != nil {
		return err
	}
	fmt.Printf("Wrote configuration to %s\n", configPath)
	return nil
}
