package main

import (
	"context"
	"fmt"
	"time"

	"github.com/mikueye/mikueye/internal/formatter"
	"github.com/mikueye/mikueye/internal/shared"
	"github.com/urfave/cli/v3"
)

// TrackAdd fetches a beatmapset and adds it to the tracked library.
func (r *Runner) TrackAdd(ctx context.Context, cmd *cli.Command) error {
	setID, err := resolveSetArg(cmd.StringArg("set"))
	if err != nil {
		return err
	}

	r.logger.Info("fetching beatmapset", "set_id", setID)
	info, err := r.client.Beatmapset(ctx, setID)
	if err != nil {
		return fmt.Errorf("failed to fetch beatmapset %s: %w", setID, err)
	}

	db, sets, _, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	set := info.Tracked(!cmd.Bool("paused"))
	set.AddedAt = time.Now()
	if err := sets.Create(set); err != nil {
		return fmt.Errorf("failed to track beatmapset: %w", err)
	}

	r.writePlain("✓ Tracking %s [%s]\n", set.Label(), set.Status.String())
	return nil
}

// TrackRemove deletes one or more beatmapsets from the tracked library.
func (r *Runner) TrackRemove(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		return fmt.Errorf("%w: beatmapset id or URL", shared.ErrMissingArgument)
	}

	db, sets, _, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	for _, arg := range args {
		setID, err := resolveSetArg(arg)
		if err != nil {
			return err
		}
		if err := sets.Delete(setID); err != nil {
			return err
		}
		r.writePlain("✓ Removed %s\n", setID)
	}
	return nil
}

// TrackList prints the tracked library.
func (r *Runner) TrackList(ctx context.Context, cmd *cli.Command) error {
	db, sets, _, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	list := sets.List
	if cmd.Bool("monitored") {
		list = sets.ListMonitored
	}
	library, err := list()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(library, cmd.Bool("pretty"))
	}
	return r.writePlain("%s", formatter.TrackedTable(library))
}

// TrackMonitor switches monitoring on or off for one set.
func (r *Runner) TrackMonitor(ctx context.Context, cmd *cli.Command) error {
	setID, err := resolveSetArg(cmd.StringArg("set"))
	if err != nil {
		return err
	}

	state := cmd.StringArg("state")
	var monitored bool
	switch state {
	case "on":
		monitored = true
	case "off":
		monitored = false
	default:
		return fmt.Errorf("%w: state must be 'on' or 'off', got %q", shared.ErrInvalidInput, state)
	}

	db, sets, _, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := sets.SetMonitored(setID, monitored); err != nil {
		return err
	}

	r.writePlain("✓ Monitoring %s for %s\n", state, setID)
	return nil
}

// TrackRefresh re-fetches metadata for every tracked set, monitored or not.
func (r *Runner) TrackRefresh(ctx context.Context, cmd *cli.Command) error {
	db, sets, _, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	library, err := sets.List()
	if err != nil {
		return err
	}
	if len(library) == 0 {
		return r.writePlain("Nothing tracked yet.\n")
	}

	r.logger.Info("refreshing tracked library", "count", len(library))
	updated, err := r.monitor.RefreshAll(ctx, library)
	if err != nil {
		return err
	}

	for _, set := range updated {
		if err := sets.Update(set); err != nil {
			return fmt.Errorf("failed to persist set %s: %w", set.ID, err)
		}
	}

	r.writePlain("✓ Refreshed %d beatmapsets\n", len(updated))
	return nil
}

// resolveSetArg accepts a bare set id or a beatmapset URL.
func resolveSetArg(arg string) (string, error) {
	if arg == "" {
		return "", fmt.Errorf("%w: beatmapset id or URL", shared.ErrMissingArgument)
	}
	if id := shared.ParseBeatmapsetArg(arg); id != "" {
		return id, nil
	}
	return "", fmt.Errorf("%w: %q is not a beatmapset id or URL", shared.ErrInvalidInput, arg)
}

func trackCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "track",
		Aliases: []string{"t"},
		Usage:   "Manage the tracked beatmapset library",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Track a beatmapset by id or URL",
				Arguments: []cli.Argument{&cli.StringArg{Name: "set"}},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "paused",
						Usage: "Add without monitoring",
					},
				},
				Action: r.TrackAdd,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Stop tracking one or more beatmapsets",
				ArgsUsage: "<set> [set...]",
				Action:    r.TrackRemove,
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List tracked beatmapsets",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "monitored",
						Usage: "Only show actively monitored sets",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.TrackList,
			},
			{
				Name:      "monitor",
				Usage:     "Switch monitoring on or off for a set",
				Arguments: []cli.Argument{&cli.StringArg{Name: "set"}, &cli.StringArg{Name: "state"}},
				Action:    r.TrackMonitor,
			},
			{
				Name:   "refresh",
				Usage:  "Re-fetch metadata for every tracked set",
				Action: r.TrackRefresh,
			},
		},
	}
}
