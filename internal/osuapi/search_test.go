package osuapi

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/mikueye/mikueye/internal/models"
)

func TestSearchParamsEncode(t *testing.T) {
	t.Run("Always Sends NSFW Flag", func(t *testing.T) {
		got := SearchParams{}.encode()
		if got != "nsfw=true" {
			t.Errorf("expected bare nsfw flag, got %q", got)
		}
	})

	t.Run("Escapes Query And Sort", func(t *testing.T) {
		got := SearchParams{Query: "hatsune miku", Mode: "0", Status: "ranked", Sort: "ranked_desc"}.encode()
		want := "nsfw=true&s=ranked&m=0&q=hatsune+miku&sort=ranked_desc"
		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("Cursor Stays Verbatim", func(t *testing.T) {
		cursor := `eyJpZCI6WzEsMl19`
		got := SearchParams{Cursor: cursor}.encode()
		if !strings.HasSuffix(got, "&cursor_string="+cursor) {
			t.Errorf("expected verbatim cursor suffix, got %q", got)
		}

		// Structural characters must survive unescaped.
		got = SearchParams{Cursor: `a[b]=c`}.encode()
		if !strings.Contains(got, "cursor_string=a[b]=c") {
			t.Errorf("expected brackets preserved, got %q", got)
		}
	})
}

const searchFixture = `{
	"beatmapsets": [
		{"id": 1, "artist": "A", "title": "One", "creator": "x", "status": "ranked",
		 "beatmaps": [{"version": "Hard", "difficulty_rating": 3.2, "mode_int": 0}]},
		{"id": 2, "artist": "B", "title": "Two", "creator": "y", "status": "graveyard",
		 "beatmaps": []}
	],
	"cursor_string": "next-page-token"
}`

func TestSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("Parses One Page", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/beatmapsets/search" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if r.URL.Query().Get("nsfw") != "true" {
				t.Error("expected nsfw=true in query")
			}
			if r.URL.Query().Get("s") != "qualified" {
				t.Errorf("expected s=qualified, got %q", r.URL.Query().Get("s"))
			}
			w.Write([]byte(searchFixture))
		})

		page, err := client.Search(ctx, SearchParams{Status: "qualified"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if page.Cursor != "next-page-token" {
			t.Errorf("expected cursor from body, got %q", page.Cursor)
		}
		if len(page.Sets) != 2 {
			t.Fatalf("expected 2 sets, got %d", len(page.Sets))
		}
		if page.Sets[0].ID != "1" || page.Sets[0].Status != models.StatusRanked {
			t.Errorf("unexpected first set: %+v", page.Sets[0])
		}
		if page.Sets[1].Status != models.StatusGraveyard {
			t.Errorf("expected Graveyard, got %v", page.Sets[1].Status)
		}
	})

	t.Run("Null Cursor Means Exhausted", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"beatmapsets": [], "cursor_string": null}`))
		})

		page, err := client.Search(ctx, SearchParams{Query: "anything"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if page.Cursor != "" {
			t.Errorf("expected empty cursor, got %q", page.Cursor)
		}
		if len(page.Sets) != 0 {
			t.Errorf("expected no sets, got %d", len(page.Sets))
		}
	})
}
