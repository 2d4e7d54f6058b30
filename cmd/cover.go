package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mikueye/mikueye/internal/osuapi"
	"github.com/mikueye/mikueye/internal/shared"
	"github.com/mikueye/mikueye/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Cover downloads cover art for a beatmapset to a local file.
func (r *Runner) Cover(ctx context.Context, cmd *cli.Command) error {
	size := osuapi.CoverSize(cmd.String("size"))
	switch size {
	case osuapi.CoverList, osuapi.CoverCard, osuapi.CoverFull:
	default:
		return fmt.Errorf("%w: size must be list, card, or cover", shared.ErrInvalidFlag)
	}

	if cmd.Bool("all") {
		return r.coverAll(ctx, cmd, size)
	}

	setID, err := resolveSetArg(cmd.StringArg("set"))
	if err != nil {
		return err
	}

	data, err := r.client.CoverBytes(ctx, setID, size)
	if err != nil {
		return fmt.Errorf("failed to download cover: %w", err)
	}

	output := cmd.String("output")
	if output == "" {
		output = fmt.Sprintf("%s_%s.jpg", setID, size)
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("failed to write cover file: %w", err)
	}

	return r.writePlain("✓ Saved %s (%d bytes)\n", output, len(data))
}

// coverAll downloads covers for every tracked beatmapset through the
// bounded pool, writing each one into the output directory as it lands.
func (r *Runner) coverAll(ctx context.Context, cmd *cli.Command, size osuapi.CoverSize) error {
	db, sets, _, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	tracked, err := sets.List()
	if err != nil {
		return fmt.Errorf("failed to list tracked sets: %w", err)
	}
	if len(tracked) == 0 {
		return r.writePlain("No tracked beatmapsets.\n")
	}

	dir := cmd.String("dir")
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	pool := tasks.NewCoverPool(r.client, tasks.CoverPoolOpts{
		Workers: r.config.Covers.Workers,
		Logger:  r.logger,
	})
	defer pool.Close()

	var wg sync.WaitGroup
	wg.Add(len(tracked))

	// Callbacks run serially on the pool's delivery goroutine, so the
	// counters need no locking.
	var saved, failed int
	for _, set := range tracked {
		pool.Submit(ctx, set.ID, size, func(setID string, data []byte) {
			defer wg.Done()
			if data == nil {
				failed++
				return
			}
			path := filepath.Join(dir, fmt.Sprintf("%s_%s.jpg", setID, size))
			if err := os.WriteFile(path, data, 0644); err != nil {
				r.logger.Error("failed to write cover file", "path", path, "error", err)
				failed++
				return
			}
			saved++
		})
	}
	wg.Wait()

	return r.writePlain("✓ Saved %d covers to %s, %d failed\n", saved, dir, failed)
}

// Open opens a beatmapset's osu! page in the system browser.
func (r *Runner) Open(ctx context.Context, cmd *cli.Command) error {
	setID, err := resolveSetArg(cmd.StringArg("set"))
	if err != nil {
		return err
	}
	return shared.OpenBrowser(shared.BeatmapsetURL(setID))
}

func coverCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "cover",
		Usage:     "Download cover art for a beatmapset",
		Arguments: []cli.Argument{&cli.StringArg{Name: "set"}},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "size",
				Usage: "Cover size: list, card, or cover",
				Value: "card",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path",
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Download covers for every tracked beatmapset",
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Output directory for --all",
			},
		},
		Action: r.Cover,
	}
}

func openCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "open",
		Usage:     "Open a beatmapset page in the browser",
		Arguments: []cli.Argument{&cli.StringArg{Name: "set"}},
		Action:    r.Open,
	}
}
