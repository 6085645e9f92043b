// Package wikipedia provides a client for Wikipedia's public APIs
package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bobmcallan/foresight/internal/common"
	"github.com/bobmcallan/foresight/internal/interfaces"
)

const (
	DefaultSearchURL  = "https://en.wikipedia.org/w/api.php"
	DefaultSummaryURL = "https://en.wikipedia.org/api/rest_v1/page/summary"
	DefaultTimeout    = 15 * time.Second

	userAgent = "foresight/1.0 (financial news analysis)"
)

// Client implements the EncyclopediaClient interface
type Client struct {
	searchURL  string
	summaryURL string
	httpClient *http.Client
	logger     *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURLs sets the search and summary endpoints
func WithBaseURLs(searchURL, summaryURL string) ClientOption {
	return func(c *Client) {
		c.searchURL = searchURL
		c.summaryURL = summaryURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Wikipedia client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		searchURL:  DefaultSearchURL,
		summaryURL: DefaultSummaryURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// GetSummary finds the best-matching page for a company name and
// returns its summary extract. No matching page returns ("", nil).
func (c *Client) GetSummary(ctx context.Context, name string) (string, error) {
	title, err := c.searchTitle(ctx, name)
	if err != nil {
		return "", err
	}
	if title == "" {
		return "", nil
	}

	return c.fetchSummary(ctx, title)
}

// searchTitle runs an opensearch query and returns the top result title.
func (c *Client) searchTitle(ctx context.Context, name string) (string, error) {
	params := url.Values{}
	params.Set("action", "opensearch")
	params.Set("search", name)
	params.Set("limit", "1")
	params.Set("namespace", "0")
	params.Set("format", "json")

	reqURL := fmt.Sprintf("%s?%s", c.searchURL, params.Encode())

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return "", err
	}

	// Opensearch responds with [query, [titles], [descriptions], [urls]].
	var result []json.RawMessage
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode opensearch response: %w", err)
	}
	if len(result) < 2 {
		return "", nil
	}

	var titles []string
	if err := json.Unmarshal(result[1], &titles); err != nil {
		return "", fmt.Errorf("failed to decode opensearch titles: %w", err)
	}
	if len(titles) == 0 {
		return "", nil
	}

	return titles[0], nil
}

// summaryResponse mirrors the REST page summary payload.
type summaryResponse struct {
	Title   string `json:"title"`
	Extract string `json:"extract"`
	Type    string `json:"type"`
}

// fetchSummary retrieves the page summary extract for a title.
func (c *Client) fetchSummary(ctx context.Context, title string) (string, error) {
	slug := url.PathEscape(strings.ReplaceAll(title, " ", "_"))
	reqURL := fmt.Sprintf("%s/%s", c.summaryURL, slug)

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return "", err
	}

	var summary summaryResponse
	if err := json.Unmarshal(body, &summary); err != nil {
		return "", fmt.Errorf("failed to decode summary response: %w", err)
	}

	if summary.Type == "disambiguation" {
		return "", nil
	}

	return summary.Extract, nil
}

func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug().Str("url", reqURL).Msg("Wikipedia request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return []byte("{}"), nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wikipedia request failed: status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

var _ interfaces.EncyclopediaClient = (*Client)(nil)
