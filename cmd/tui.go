package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spoolr/internal/shared"
	"github.com/desertthunder/spoolr/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.config == nil {
		config, err := r.loadConfig(cmd.String("config"))
		if err != nil {
			return err
		}
		r.config = config
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	if err := r.init(cmd); err != nil {
		return err
	}

	model := ui.NewModel(ui.Deps{
		Store:  r.store,
		Engine: r.engine,
		Auth:   r.auth,
		Users:  r.users,
		Logger: r.logger,
	}, ui.Options{
		TopN:                   r.config.Stats.TopN,
		LoginAttemptsPerMinute: r.config.TUI.LoginAttemptsPerMinute,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
