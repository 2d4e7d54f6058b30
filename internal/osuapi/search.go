package osuapi

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// SearchParams are the server-side query parameters for one search page.
type SearchParams struct {
	Query  string
	Mode   string // numeric mode string, "" for all modes
	Status string // one status category, "" for the API default stream
	Sort   string // e.g. "ranked_desc"
	Cursor string // opaque continuation token from the previous page
}

// encode builds the query string by hand. cursor_string embeds structural
// characters ("[", "]") that the API expects verbatim, so it is appended
// without percent-encoding.
func (p SearchParams) encode() string {
	var b strings.Builder
	b.WriteString("nsfw=true")
	if p.Status != "" {
		b.WriteString("&s=" + url.QueryEscape(p.Status))
	}
	if p.Mode != "" {
		b.WriteString("&m=" + url.QueryEscape(p.Mode))
	}
	if p.Query != "" {
		b.WriteString("&q=" + url.QueryEscape(p.Query))
	}
	if p.Sort != "" {
		b.WriteString("&sort=" + url.QueryEscape(p.Sort))
	}
	if p.Cursor != "" {
		b.WriteString("&cursor_string=" + p.Cursor)
	}
	return b.String()
}

// SearchPage is one page of search results for a single category stream.
type SearchPage struct {
	Sets   []BeatmapsetInfo
	Cursor string // empty when the stream is exhausted
}

// Search fetches one page from the paginated beatmapset search endpoint.
func (c *Client) Search(ctx context.Context, params SearchParams) (*SearchPage, error) {
	var raw struct {
		Beatmapsets  []apiBeatmapset `json:"beatmapsets"`
		CursorString string          `json:"cursor_string"`
	}

	rawURL := fmt.Sprintf("%s/beatmapsets/search?%s", c.baseURL, params.encode())
	if err := c.get(ctx, rawURL, searchTimeout, &raw); err != nil {
		return nil, err
	}

	page := &SearchPage{
		Cursor: raw.CursorString,
		Sets:   make([]BeatmapsetInfo, 0, len(raw.Beatmapsets)),
	}
	for i := range raw.Beatmapsets {
		page.Sets = append(page.Sets, *normalizeBeatmapset(&raw.Beatmapsets[i]))
	}
	return page, nil
}
