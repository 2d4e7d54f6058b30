package main

import (
	"context"
	"fmt"
	"time"

	"github.com/mikueye/mikueye/internal/repositories"
	"github.com/mikueye/mikueye/internal/tasks"
	"github.com/urfave/cli/v3"
)

// MonitorRun executes a single check cycle over the tracked library.
func (r *Runner) MonitorRun(ctx context.Context, cmd *cli.Command) error {
	db, sets, history, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	library, err := sets.List()
	if err != nil {
		return err
	}
	if len(library) == 0 {
		return r.writePlain("Nothing tracked yet. Use 'mikueye track add <id>' first.\n")
	}

	progress := r.streamProgress(cmd.Bool("quiet"))
	result, err := r.monitor.RunCycle(ctx, library, progress)
	if progress != nil {
		close(progress)
	}
	if err != nil {
		return err
	}

	if err := persistCycle(sets, history, result); err != nil {
		return err
	}
	return r.reportCycle(result)
}

// MonitorWatch polls on the configured interval until interrupted or, with
// auto-stop, until every tracked set reaches a final status.
func (r *Runner) MonitorWatch(ctx context.Context, cmd *cli.Command) error {
	db, sets, history, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	interval := r.config.Monitor.Interval()
	if ms := cmd.Int("interval"); ms > 0 {
		interval = time.Duration(ms) * time.Millisecond
	}

	r.writePlain("Watching tracked beatmapsets every %s (ctrl+c to stop)\n", interval)

	progress := r.streamProgress(cmd.Bool("quiet"))
	defer func() {
		if progress != nil {
			close(progress)
		}
	}()

	funcs := tasks.WatchFuncs{
		Load: sets.ListMonitored,
		Apply: func(result *tasks.CycleResult) error {
			if err := persistCycle(sets, history, result); err != nil {
				return err
			}
			for _, event := range result.Events {
				r.writePlain("%s: %s -> %s\n",
					event.Entry.Title, event.Entry.OldStatus, event.Entry.NewStatus)
			}
			return nil
		},
	}
	return r.monitor.Watch(ctx, interval, funcs, progress)
}

// streamProgress starts a goroutine printing progress updates, or returns
// nil when quiet.
func (r *Runner) streamProgress(quiet bool) chan tasks.ProgressUpdate {
	if quiet {
		return nil
	}
	progress := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progress {
			r.logger.Debug(update.Message, "phase", update.Phase.String())
		}
	}()
	return progress
}

func (r *Runner) reportCycle(result *tasks.CycleResult) error {
	for _, event := range result.Events {
		r.writePlain("%s: %s -> %s\n", event.Entry.Title, event.Entry.OldStatus, event.Entry.NewStatus)
		if event.AutoStopped {
			r.writePlain("  monitoring stopped (final status reached)\n")
		}
	}
	return r.writePlain("✓ Checked %d, changed %d, failed %d, skipped %d\n",
		result.Checked, result.Changed, result.Failed, result.Skipped)
}

// persistCycle writes updated snapshots and transition entries back to the store.
func persistCycle(sets *repositories.BeatmapsetRepository, history *repositories.HistoryRepository, result *tasks.CycleResult) error {
	for _, set := range result.Sets {
		if err := sets.Update(set); err != nil {
			return fmt.Errorf("failed to persist set %s: %w", set.ID, err)
		}
	}
	for _, event := range result.Events {
		if err := history.Insert(event.Entry); err != nil {
			return fmt.Errorf("failed to record transition: %w", err)
		}
	}
	return nil
}

func monitorCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "monitor",
		Aliases: []string{"m"},
		Usage:   "Check tracked beatmapsets for status changes",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run one check cycle",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "Suppress per-set progress output",
					},
				},
				Action: r.MonitorRun,
			},
			{
				Name:  "watch",
				Usage: "Check continuously on an interval",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "interval",
						Usage: "Milliseconds between cycles (overrides config)",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "Suppress per-set progress output",
					},
				},
				Action: r.MonitorWatch,
			},
		},
	}
}
