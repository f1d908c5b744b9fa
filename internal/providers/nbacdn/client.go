package nbacdn

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/preston-bernstein/nba-live-sync/internal/providers"
	"github.com/preston-bernstein/nba-live-sync/internal/upstream"
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config controls how the client reaches the NBA live-data CDN.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client fetches raw scoreboard and box score documents from the NBA CDN.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient httpDoer
}

// NewClient constructs a CDN client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		timeout:    resolveTimeout(cfg.Timeout),
		httpClient: resolveHTTPClient(cfg.HTTPClient),
	}
}

// FetchScoreboard retrieves the full scoreboard document for today.
func (c *Client) FetchScoreboard(ctx context.Context) (*upstream.Scoreboard, error) {
	var doc upstream.Scoreboard
	if err := c.getJSON(ctx, "scoreboard", c.baseURL+scoreboardPath, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// FetchBoxScore retrieves one game's box score document.
func (c *Client) FetchBoxScore(ctx context.Context, gameID string) (*upstream.BoxScore, error) {
	var doc upstream.BoxScore
	url := c.baseURL + fmt.Sprintf(boxScorePath, gameID)
	if err := c.getJSON(ctx, "boxscore", url, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Client) getJSON(ctx context.Context, op, url string, dst any) error {
	// Each call carries its own deadline so a hung upstream cannot
	// stall the polling loop.
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &providers.UpstreamError{Provider: ProviderName, Operation: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &providers.UpstreamError{Provider: ProviderName, Operation: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", ProviderName, op, providers.ErrGameNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return &providers.UpstreamError{Provider: ProviderName, Operation: op, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return &providers.UpstreamError{Provider: ProviderName, Operation: op, Err: err}
	}
	return nil
}
