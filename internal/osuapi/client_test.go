package osuapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/mikueye/mikueye/internal/shared"
	mocks "github.com/mikueye/mikueye/internal/testing"
)

func TestClientReusesToken(t *testing.T) {
	tokenExchanges := 0
	transport := mocks.NewCountingTransport(mocks.RoundTripFunc(func(r *http.Request) (*http.Response, error) {
		if strings.HasSuffix(r.URL.Path, "/oauth/token") {
			tokenExchanges++
			return mocks.JSONResponse(http.StatusOK, `{"access_token": "cached", "expires_in": 86400}`), nil
		}
		if got := r.Header.Get("Authorization"); got != "Bearer cached" {
			t.Errorf("expected bearer token on API request, got %q", got)
		}
		return mocks.JSONResponse(http.StatusOK, `{"id": 42, "status": "pending", "beatmaps": []}`), nil
	}))
	httpClient := &http.Client{Transport: transport}

	tokens := NewTokenSource("id", "secret", httpClient)
	client := NewClient(tokens, ClientOpts{HTTPClient: httpClient})

	for range 3 {
		if _, err := client.Beatmapset(context.Background(), "42"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}

	if tokenExchanges != 1 {
		t.Errorf("expected a single token exchange, got %d", tokenExchanges)
	}
	// 1 exchange + 3 detail fetches.
	if transport.Count() != 4 {
		t.Errorf("expected 4 requests total, got %d", transport.Count())
	}
}

func TestClientTransportFailure(t *testing.T) {
	tokens := NewTokenSource("id", "secret", &http.Client{
		Transport: mocks.NewMockRoundTripper(nil, io.ErrUnexpectedEOF),
	})
	client := NewClient(tokens, ClientOpts{})

	err := client.TestCredentials(context.Background())
	if !errors.Is(err, shared.ErrAuthFailed) {
		t.Errorf("expected ErrAuthFailed, got %v", err)
	}
}
