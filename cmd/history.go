package main

import (
	"context"
	"fmt"

	"github.com/mikueye/mikueye/internal/formatter"
	"github.com/mikueye/mikueye/internal/shared"
	"github.com/urfave/cli/v3"
)

// HistoryList prints the transition log, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	db, _, history, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	entries, err := history.List()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, cmd.Bool("pretty"))
	}
	return r.writePlain("%s", formatter.HistoryTable(entries))
}

// HistoryExport writes the log to a file (JSON, or CSV by extension).
func (r *Runner) HistoryExport(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: output path", shared.ErrMissingArgument)
	}

	db, _, history, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	entries, err := history.List()
	if err != nil {
		return err
	}

	if err := formatter.WriteHistoryFile(path, entries); err != nil {
		return err
	}
	return r.writePlain("✓ Exported %d entries to %s\n", len(entries), path)
}

// HistoryImport merges entries from an exported JSON file into the log.
func (r *Runner) HistoryImport(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: input path", shared.ErrMissingArgument)
	}

	entries, err := formatter.ReadHistoryFile(path)
	if err != nil {
		return err
	}

	db, _, history, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	imported, err := history.Import(entries)
	if err != nil {
		return fmt.Errorf("import stopped after %d entries: %w", imported, err)
	}
	return r.writePlain("✓ Imported %d entries from %s\n", imported, path)
}

// HistoryClear wipes the transition log.
func (r *Runner) HistoryClear(ctx context.Context, cmd *cli.Command) error {
	if !cmd.Bool("yes") {
		return fmt.Errorf("%w: pass --yes to confirm clearing the history", shared.ErrMissingArgument)
	}

	db, _, history, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := history.DeleteAll(); err != nil {
		return err
	}
	return r.writePlain("✓ History cleared\n")
}

// HistoryBackfill fills in approved dates the API had not reported yet at
// transition time.
func (r *Runner) HistoryBackfill(ctx context.Context, cmd *cli.Command) error {
	db, _, history, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	entries, err := history.ListMissingApprovedDate()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return r.writePlain("Nothing to backfill.\n")
	}

	filled := 0
	for _, entry := range entries {
		info, err := r.client.Beatmapset(ctx, entry.SetID)
		if err != nil {
			r.logger.Warn("backfill fetch failed", "set_id", entry.SetID, "error", err)
			continue
		}
		if info.ApprovedDate == "" {
			continue
		}
		if err := history.SetApprovedDate(entry.ID, info.ApprovedDate); err != nil {
			return err
		}
		filled++
	}
	return r.writePlain("✓ Backfilled %d of %d entries\n", filled, len(entries))
}

func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "history",
		Aliases: []string{"h"},
		Usage:   "Status transition history",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "Show recorded status changes",
				Flags: []cli.Flag{
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
				Action: r.HistoryList,
			},
			{
				Name:      "export",
				Usage:     "Export history to a file (.json or .csv)",
				Arguments: []cli.Argument{&cli.StringArg{Name: "path"}},
				Action:    r.HistoryExport,
			},
			{
				Name:      "import",
				Usage:     "Import history from a JSON export",
				Arguments: []cli.Argument{&cli.StringArg{Name: "path"}},
				Action:    r.HistoryImport,
			},
			{
				Name:  "clear",
				Usage: "Delete all recorded history",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "yes",
						Usage: "Confirm the wipe",
					},
				},
				Action: r.HistoryClear,
			},
			{
				Name:   "backfill",
				Usage:  "Fetch missing approved dates for past transitions",
				Action: r.HistoryBackfill,
			},
		},
	}
}
