package main

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/moviedb/internal/shared"
	"github.com/desertthunder/moviedb/internal/tasks"
	"github.com/desertthunder/moviedb/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for browsing the catalog.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	movies, err := r.store()
	if err != nil {
		return err
	}
	engine, err := r.catalog()
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	logPath := filepath.Join(filepath.Dir(r.config.Database.Path), "tmp", "moviedb-tui.log")
	fileLogger, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.logger = fileLogger

	model := ui.NewModel(ctx, movies, engine, tasks.EnrichAllOpts{RateLimit: r.config.Fetch.RateLimit})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
