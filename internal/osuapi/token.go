package osuapi

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/mikueye/mikueye/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"
)

const (
	defaultTokenURL = "https://osu.ppy.sh/oauth/token"

	// expiryMargin keeps a token from expiring mid-request: a cached token is
	// only reused while now < expiry - margin.
	expiryMargin = 60 * time.Second

	// defaultTokenLifetime is assumed when the provider omits expires_in.
	defaultTokenLifetime = 86400 * time.Second

	tokenTimeout = 10 * time.Second
)

// TokenSource owns the cached client-credentials bearer token for the osu!
// API. It is safe for concurrent use: refreshes are single-flight, so K
// callers hitting an expired cache trigger exactly one exchange.
type TokenSource struct {
	clientID     string
	clientSecret string
	httpClient   *http.Client
	tokenURL     string

	mu    sync.Mutex
	token *oauth2.Token
	group singleflight.Group
	now   func() time.Time
}

// NewTokenSource creates a TokenSource for the given OAuth client credentials.
// A nil client falls back to [http.DefaultClient].
func NewTokenSource(clientID, clientSecret string, client *http.Client) *TokenSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &TokenSource{
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   client,
		tokenURL:     defaultTokenURL,
		now:          time.Now,
	}
}

// Token returns a valid bearer token, reusing the cached one while it has at
// least [expiryMargin] of lifetime left and performing a single exchange
// otherwise. Returns [shared.ErrMissingCredentials] when the client id or
// secret is empty and [shared.ErrAuthFailed] when the exchange fails.
func (t *TokenSource) Token(ctx context.Context) (string, error) {
	t.mu.Lock()
	if tok := t.token; tok != nil && t.now().Before(tok.Expiry.Add(-expiryMargin)) {
		t.mu.Unlock()
		return tok.AccessToken, nil
	}
	t.mu.Unlock()

	if t.clientID == "" || t.clientSecret == "" {
		return "", fmt.Errorf("%w: osu! client id and secret are required", shared.ErrMissingCredentials)
	}

	v, err, _ := t.group.Do("token", func() (any, error) {
		// Re-check under the flight: a concurrent caller may have refreshed
		// between the cache miss and entering the group.
		t.mu.Lock()
		if tok := t.token; tok != nil && t.now().Before(tok.Expiry.Add(-expiryMargin)) {
			t.mu.Unlock()
			return tok.AccessToken, nil
		}
		t.mu.Unlock()

		tok, err := t.exchange(ctx)
		if err != nil {
			return nil, err
		}

		t.mu.Lock()
		t.token = tok
		t.mu.Unlock()
		return tok.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Invalidate drops the cached token so the next Token call performs a fresh
// exchange. The credential probe uses this before issuing its test request.
func (t *TokenSource) Invalidate() {
	t.mu.Lock()
	t.token = nil
	t.mu.Unlock()
}

// exchange performs one client-credentials grant against the token endpoint.
// Credentials go in the form body, which is what the osu! endpoint expects.
func (t *TokenSource) exchange(ctx context.Context) (*oauth2.Token, error) {
	conf := &clientcredentials.Config{
		ClientID:     t.clientID,
		ClientSecret: t.clientSecret,
		TokenURL:     t.tokenURL,
		Scopes:       []string{"public"},
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	ctx, cancel := context.WithTimeout(ctx, tokenTimeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, t.httpClient)

	tok, err := conf.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: token exchange: %v", shared.ErrAuthFailed, err)
	}
	if tok.Expiry.IsZero() {
		tok.Expiry = t.now().Add(defaultTokenLifetime)
	}
	return tok, nil
}
