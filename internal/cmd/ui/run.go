// Package ui runs the interactive terminal client.
package ui

import (
	"flag"

	"pixlab/internal/app"
	iui "pixlab/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
)

func Run(args []string) error {
	fs := flag.NewFlagSet("ui", flag.ContinueOnError)
	configPath := fs.String("config", "", "config file path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := app.Load(app.Options{ConfigPath: *configPath, Quiet: true})
	if err != nil {
		return err
	}
	defer a.Close()

	m := iui.New(iui.Options{
		Client:         a.Client,
		Store:          a.Store,
		FS:             afero.NewOsFs(),
		OutputDir:      a.Cfg.Output.Dir,
		VerifyInterval: a.VerifyInterval(),
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
