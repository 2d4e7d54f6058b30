package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mikueye/mikueye/internal/shared"
	"github.com/mikueye/mikueye/internal/tasks"
	"github.com/mikueye/mikueye/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for watching the tracked library.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	db, sets, history, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/mikueye-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	// The monitor logs per-set failures, so it gets the file logger too.
	monitor := tasks.NewMonitor(r.client, tasks.MonitorOpts{
		AutoStop:  r.config.Monitor.AutoStop,
		Workers:   r.config.Monitor.Workers,
		RateLimit: r.config.Monitor.RateLimit,
		Logger:    fileLogger,
	})

	model := ui.NewModel(ctx, sets, history, monitor, r.config.Monitor.Interval())
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Interactive watch interface",
		Action: r.TUI,
	}
}
