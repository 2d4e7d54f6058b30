package osuapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mikueye/mikueye/internal/models"
	"github.com/mikueye/mikueye/internal/shared"
)

// newTestClient wires a Client and its TokenSource against one fake server.
// The handler receives every request except the token exchange.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"test-token","expires_in":86400}`))
	})
	mux.HandleFunc("/", handler)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	tokens := NewTokenSource("client", "secret", server.Client())
	tokens.tokenURL = server.URL + "/oauth/token"

	return NewClient(tokens, ClientOpts{
		BaseURL:    server.URL,
		AssetURL:   server.URL,
		HTTPClient: server.Client(),
	})
}

const detailFixture = `{
	"id": 123456,
	"artist": "Hatsune Miku",
	"title": "Sharing The World",
	"creator": "mapper",
	"status": "qualified",
	"ranked_date": "",
	"submitted_date": "2024-03-01T00:00:00Z",
	"beatmaps": [
		{"version": "Easy", "difficulty_rating": 1.805, "mode_int": 0, "total_length": 180, "count_spinners": 1},
		{"version": "Mania Other", "difficulty_rating": 4.5, "mode_int": 3, "total_length": 185, "count_spinners": 0},
		{"version": "Insane", "difficulty_rating": 4.5, "mode_int": 0, "total_length": 182, "count_spinners": 2}
	]
}`

func TestBeatmapset(t *testing.T) {
	ctx := context.Background()

	t.Run("Normalizes Detail Response", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/beatmapsets/123456" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if auth := r.Header.Get("Authorization"); auth != "Bearer test-token" {
				t.Errorf("expected bearer auth, got %q", auth)
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(detailFixture))
		})

		info, err := client.Beatmapset(ctx, "123456")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if info.ID != "123456" {
			t.Errorf("expected id 123456, got %s", info.ID)
		}
		if info.Status != models.StatusQualified {
			t.Errorf("expected Qualified, got %v", info.Status)
		}

		// Descending by stars; the 4.5 tie keeps remote order (stable).
		if len(info.Difficulties) != 3 {
			t.Fatalf("expected 3 difficulties, got %d", len(info.Difficulties))
		}
		if info.Difficulties[0].Name != "Mania Other" || info.Difficulties[1].Name != "Insane" {
			t.Errorf("unexpected difficulty order: %q, %q", info.Difficulties[0].Name, info.Difficulties[1].Name)
		}
		if info.Difficulties[2].Stars != 1.81 {
			t.Errorf("expected stars rounded to 1.81, got %v", info.Difficulties[2].Stars)
		}

		// Primary mode comes from the highest-rated difficulty.
		if info.Mode != "3" {
			t.Errorf("expected primary mode 3, got %s", info.Mode)
		}
		if len(info.Modes) != 2 || info.Modes[0] != "3" || info.Modes[1] != "0" {
			t.Errorf("unexpected modes set: %v", info.Modes)
		}

		// ranked_date empty, so the submitted date is used.
		if info.ApprovedDate != "2024-03-01T00:00:00Z" {
			t.Errorf("expected submitted date fallback, got %q", info.ApprovedDate)
		}
	})

	t.Run("Unknown Status Defaults To Pending", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"id": 7, "status": "mystery", "beatmaps": []}`))
		})

		info, err := client.Beatmapset(ctx, "7")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if info.Status != models.StatusPending {
			t.Errorf("expected Pending for unknown status, got %v", info.Status)
		}
		if info.Mode != "0" {
			t.Errorf("expected mode 0 for empty difficulty list, got %s", info.Mode)
		}
		if info.Difficulties == nil || len(info.Difficulties) != 0 {
			t.Errorf("expected empty non-nil difficulty list, got %v", info.Difficulties)
		}
	})

	t.Run("Error Mapping", func(t *testing.T) {
		cases := []struct {
			name   string
			status int
			want   error
		}{
			{"NotFound", http.StatusNotFound, shared.ErrNotFound},
			{"Unauthorized", http.StatusUnauthorized, shared.ErrUnauthorized},
			{"RateLimited", http.StatusTooManyRequests, shared.ErrRateLimited},
			{"ServerError", http.StatusInternalServerError, shared.ErrAPIRequest},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tc.status)
				})
				_, err := client.Beatmapset(ctx, "1")
				if !errors.Is(err, tc.want) {
					t.Errorf("expected %v, got %v", tc.want, err)
				}
			})
		}
	})

	t.Run("Malformed Body Is ParseError", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"id": `))
		})
		_, err := client.Beatmapset(ctx, "1")
		if !errors.Is(err, shared.ErrParse) {
			t.Errorf("expected ErrParse, got %v", err)
		}
	})
}

func TestCoverBytes(t *testing.T) {
	ctx := context.Background()

	t.Run("Returns Raw Bytes", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/beatmaps/42/covers/card.jpg" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			w.Write([]byte("jpeg-bytes"))
		})

		data, err := client.CoverBytes(ctx, "42", CoverCard)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if string(data) != "jpeg-bytes" {
			t.Errorf("unexpected cover bytes: %q", data)
		}
	})

	t.Run("Non-200 Is An Error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		if _, err := client.CoverBytes(ctx, "42", CoverList); err == nil {
			t.Error("expected error for missing cover")
		}
	})
}

func TestTestCredentials(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	if err := client.TestCredentials(context.Background()); err != nil {
		t.Errorf("expected credentials to test ok, got %v", err)
	}
}
