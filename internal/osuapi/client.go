package osuapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mikueye/mikueye/internal/shared"
)

const (
	defaultBaseURL  = "https://osu.ppy.sh/api/v2"
	defaultAssetURL = "https://assets.ppy.sh"

	detailTimeout = 5 * time.Second
	searchTimeout = 10 * time.Second
	coverTimeout  = 3 * time.Second
)

// CoverSize selects a cover image variant on the asset host.
type CoverSize string

const (
	CoverList CoverSize = "list" // 200x125
	CoverCard CoverSize = "card" // 413x160
	CoverFull CoverSize = "cover"
)

// Client performs authenticated calls against the osu! API v2.
type Client struct {
	baseURL    string
	assetURL   string
	tokens     *TokenSource
	httpClient *http.Client
	logger     *log.Logger
}

// ClientOpts contains optional overrides for [NewClient].
type ClientOpts struct {
	BaseURL    string
	AssetURL   string
	HTTPClient *http.Client
	Logger     *log.Logger
}

// NewClient creates a Client using tokens for authentication.
func NewClient(tokens *TokenSource, opts ClientOpts) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.AssetURL == "" {
		opts.AssetURL = defaultAssetURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &Client{
		baseURL:    opts.BaseURL,
		assetURL:   opts.AssetURL,
		tokens:     tokens,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
	}
}

// TestCredentials force-invalidates the token cache and performs one fresh
// exchange, reporting whether the configured credentials work.
func (c *Client) TestCredentials(ctx context.Context) error {
	c.tokens.Invalidate()
	_, err := c.tokens.Token(ctx)
	return err
}

// get performs an authenticated GET with the given timeout and decodes the
// JSON response body into result.
func (c *Client) get(ctx context.Context, rawURL string, timeout time.Duration, result any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return shared.ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized:
		return shared.ErrUnauthorized
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status 429", shared.ErrRateLimited)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrParse, err)
		}
	}
	return nil
}

// CoverBytes downloads a cover image variant and returns the raw bytes.
// The asset host requires no authentication; a non-200 response is an error
// so pool callers can resolve the task with an absent result.
func (c *Client) CoverBytes(ctx context.Context, setID string, size CoverSize) ([]byte, error) {
	rawURL := fmt.Sprintf("%s/beatmaps/%s/covers/%s.jpg", c.assetURL, setID, size)

	ctx, cancel := context.WithTimeout(ctx, coverTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return data, nil
}
