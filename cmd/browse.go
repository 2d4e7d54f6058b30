package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/mikueye/mikueye/internal/models"
	"github.com/mikueye/mikueye/internal/shared"
	"github.com/mikueye/mikueye/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Browse searches the osu! catalog, or looks a set up directly when the
// query is an id or URL.
func (r *Runner) Browse(ctx context.Context, cmd *cli.Command) error {
	statuses, err := parseStatusList(cmd.StringSlice("status"))
	if err != nil {
		return err
	}

	r.browser.SetParams(tasks.BrowseParams{
		Query:    cmd.StringArg("query"),
		Mode:     cmd.String("mode"),
		Statuses: statuses,
		Sort:     cmd.String("sort"),
	})

	if err := r.browser.Refresh(ctx, nil); err != nil {
		return err
	}

	pages := int(cmd.Int("pages"))
	for p := 1; p < pages && !r.browser.Exhausted(); p++ {
		if err := r.browser.LoadMore(ctx, nil); err != nil {
			return err
		}
	}

	results := r.browser.Results(tasks.FilterOptions{
		MinStars: cmd.Float("min-stars"),
		MaxStars: cmd.Float("max-stars"),
	})

	if cmd.Bool("json") {
		return r.writeJSON(results, cmd.Bool("pretty"))
	}

	if len(results) == 0 {
		return r.writePlain("No results.\n")
	}
	for _, set := range results {
		badge := set.Status.String()
		stars := ""
		if len(set.Difficulties) > 0 {
			stars = fmt.Sprintf(" %.2f★", set.Difficulties[0].Stars)
		}
		r.writePlain("%-9s  %-10s %s - %s (%s)%s\n", set.ID, badge, set.Artist, set.Title, set.Creator, stars)
	}
	return r.writePlain("\n%d results\n", len(results))
}

// parseStatusList maps status category names onto [models.Status] values.
func parseStatusList(names []string) ([]models.Status, error) {
	byCategory := map[string]models.Status{
		"graveyard": models.StatusGraveyard,
		"wip":       models.StatusWIP,
		"pending":   models.StatusPending,
		"ranked":    models.StatusRanked,
		"approved":  models.StatusApproved,
		"qualified": models.StatusQualified,
		"loved":     models.StatusLoved,
	}

	var statuses []models.Status
	for _, name := range names {
		status, ok := byCategory[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("%w: unknown status %q", shared.ErrInvalidFlag, name)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func browseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "browse",
		Aliases:   []string{"b", "search"},
		Usage:     "Search beatmapsets, or paste an id/URL for a direct lookup",
		Arguments: []cli.Argument{&cli.StringArg{Name: "query"}},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "mode",
				Aliases: []string{"m"},
				Usage:   "Game mode filter (0=osu!, 1=taiko, 2=catch, 3=mania)",
			},
			&cli.StringSliceFlag{
				Name:    "status",
				Aliases: []string{"s"},
				Usage:   "Status categories to search (repeatable)",
			},
			&cli.StringFlag{
				Name:  "sort",
				Usage: "Server-side sort, e.g. ranked_desc",
			},
			&cli.IntFlag{
				Name:  "pages",
				Usage: "Pages to fetch per category",
				Value: 1,
			},
			&cli.FloatFlag{
				Name:  "min-stars",
				Usage: "Minimum star rating",
			},
			&cli.FloatFlag{
				Name:  "max-stars",
				Usage: "Maximum star rating (0 = no limit)",
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
		Action: r.Browse,
	}
}
