// Package rss fetches and normalizes RSS/Atom news feeds
package rss

import (
	"context"
	"fmt"
	"hash/fnv"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/bobmcallan/foresight/internal/common"
	"github.com/bobmcallan/foresight/internal/interfaces"
	"github.com/bobmcallan/foresight/internal/models"
)

const (
	DefaultTimeout = 30 * time.Second

	userAgent = "foresight/1.0 (financial news analysis)"
)

// Client implements the FeedClient interface
type Client struct {
	parser     *gofeed.Parser
	httpClient *http.Client
	logger     *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

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

// NewClient creates a new feed client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		parser: gofeed.NewParser(),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.parser.Client = c.httpClient
	c.parser.UserAgent = userAgent

	return c
}

// Fetch downloads and parses a feed, returning normalized items in
// document order. Items without a link are dropped.
func (c *Client) Fetch(ctx context.Context, feedURL string) ([]models.FeedItem, error) {
	c.logger.Debug().Str("url", feedURL).Msg("Fetching feed")

	feed, err := c.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed %s: %w", feedURL, err)
	}

	items := make([]models.FeedItem, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil || strings.TrimSpace(item.Link) == "" {
			continue
		}

		published := time.Now()
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
		}

		items = append(items, models.FeedItem{
			ExternalID:  ExternalID(item),
			Title:       stripCDATA(item.Title),
			URL:         strings.TrimSpace(item.Link),
			Description: stripCDATA(item.Description),
			PublishedAt: published,
		})
	}

	c.logger.Info().Str("url", feedURL).Int("items", len(items)).Msg("Feed fetched")

	return items, nil
}

// ExternalID derives a stable identifier for a feed item. Preference
// order: numeric guid, a metadata "id" extension, a hash of the URL's
// trailing slug, then a hash of the whole link.
func ExternalID(item *gofeed.Item) string {
	guid := strings.TrimSpace(item.GUID)
	if isNumeric(guid) {
		return guid
	}

	if id := metadataID(item); id != "" {
		return id
	}

	link := strings.TrimSpace(item.Link)
	if slug := urlSlug(link); slug != "" {
		return "url-" + hashString(slug)
	}

	return "hash-" + hashString(link)
}

// metadataID pulls an id value from item extensions, e.g.
// <metadata:id> carried by some financial feeds.
func metadataID(item *gofeed.Item) string {
	for _, exts := range item.Extensions {
		for name, values := range exts {
			if name != "id" {
				continue
			}
			for _, ext := range values {
				if v := strings.TrimSpace(ext.Value); v != "" {
					return v
				}
			}
		}
	}
	return ""
}

// urlSlug returns the final path segment of a link, without extension.
func urlSlug(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	path := strings.TrimSuffix(u.Path, "/")
	idx := strings.LastIndex(path, "/")
	if idx < 0 || idx == len(path)-1 {
		return ""
	}
	slug := path[idx+1:]
	if dot := strings.LastIndex(slug, "."); dot > 0 {
		slug = slug[:dot]
	}
	return slug
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func hashString(s string) string {
	h := fnv.New32a()
	h.Write([]byte(s))
	return fmt.Sprintf("%08x", h.Sum32())
}

// stripCDATA removes CDATA wrappers some feeds leave in titles and
// descriptions, and trims whitespace.
func stripCDATA(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "<![CDATA[")
	s = strings.TrimSuffix(s, "]]>")
	return strings.TrimSpace(s)
}

var _ interfaces.FeedClient = (*Client)(nil)
