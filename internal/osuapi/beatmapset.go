package osuapi

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/mikueye/mikueye/internal/models"
)

// BeatmapsetInfo is the normalized detail for one beatmapset, as produced
// from a detail fetch or one search result row.
type BeatmapsetInfo struct {
	ID           string
	Artist       string
	Title        string
	Creator      string
	Status       models.Status
	Mode         string   // mode of the highest-rated difficulty, "0" when no difficulties
	Modes        []string // distinct modes, ordered by difficulty rating
	Difficulties []models.Difficulty
	ApprovedDate string // ranked date, else submitted date, else empty
}

// Tracked converts the info into a [models.Beatmapset] snapshot.
func (i *BeatmapsetInfo) Tracked(monitored bool) models.Beatmapset {
	return models.Beatmapset{
		ID:           i.ID,
		Artist:       i.Artist,
		Title:        i.Title,
		Creator:      i.Creator,
		Status:       i.Status,
		Mode:         i.Mode,
		Modes:        append([]string(nil), i.Modes...),
		Difficulties: append([]models.Difficulty(nil), i.Difficulties...),
		Monitored:    monitored,
	}
}

// Wire types for the beatmapset detail and search endpoints.

type apiBeatmap struct {
	Version          string  `json:"version"`
	DifficultyRating float64 `json:"difficulty_rating"`
	ModeInt          int     `json:"mode_int"`
	TotalLength      int     `json:"total_length"`
	CountSpinners    int     `json:"count_spinners"`
}

type apiBeatmapset struct {
	ID            json.Number  `json:"id"`
	Artist        string       `json:"artist"`
	Title         string       `json:"title"`
	Creator       string       `json:"creator"`
	Status        string       `json:"status"`
	RankedDate    string       `json:"ranked_date"`
	SubmittedDate string       `json:"submitted_date"`
	Beatmaps      []apiBeatmap `json:"beatmaps"`
}

// Beatmapset fetches the full detail for one beatmapset id and normalizes it.
func (c *Client) Beatmapset(ctx context.Context, setID string) (*BeatmapsetInfo, error) {
	var raw apiBeatmapset
	url := fmt.Sprintf("%s/beatmapsets/%s", c.baseURL, setID)
	if err := c.get(ctx, url, detailTimeout, &raw); err != nil {
		return nil, err
	}

	info := normalizeBeatmapset(&raw)
	if info.ID == "" {
		info.ID = setID
	}
	return info, nil
}

// normalizeBeatmapset maps a remote beatmapset onto the internal model:
// status via the closed vocabulary, difficulties sorted descending by star
// rating (stable), primary mode from the top difficulty.
func normalizeBeatmapset(raw *apiBeatmapset) *BeatmapsetInfo {
	sorted := append([]apiBeatmap(nil), raw.Beatmaps...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DifficultyRating > sorted[j].DifficultyRating
	})

	diffs := make([]models.Difficulty, 0, len(sorted))
	var modes []string
	seen := make(map[string]bool, 4)
	for _, b := range sorted {
		name := b.Version
		if name == "" {
			name = "?"
		}
		diffs = append(diffs, models.Difficulty{
			Name:     name,
			Stars:    math.Round(b.DifficultyRating*100) / 100,
			Length:   b.TotalLength,
			Spinners: b.CountSpinners,
			Mode:     b.ModeInt,
		})
		mode := strconv.Itoa(b.ModeInt)
		if !seen[mode] {
			seen[mode] = true
			modes = append(modes, mode)
		}
	}

	primary := "0"
	if len(diffs) > 0 {
		primary = strconv.Itoa(diffs[0].Mode)
	}

	approved := raw.RankedDate
	if approved == "" {
		approved = raw.SubmittedDate
	}

	return &BeatmapsetInfo{
		ID:           raw.ID.String(),
		Artist:       raw.Artist,
		Title:        raw.Title,
		Creator:      raw.Creator,
		Status:       models.StatusFromAPI(raw.Status),
		Mode:         primary,
		Modes:        modes,
		Difficulties: diffs,
		ApprovedDate: approved,
	}
}
