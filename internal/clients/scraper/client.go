// Package scraper extracts clean article body text from news pages
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/bobmcallan/foresight/internal/common"
	"github.com/bobmcallan/foresight/internal/interfaces"
)

const (
	DefaultTimeout = 10 * time.Second

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// minTextLength drops short navigation/UI fragments; list items are
	// exempt because short bullets can still be meaningful.
	minTextLength = 20

	// minFallbackLength applies to the generic paragraph fallback.
	minFallbackLength = 30
)

// skipPatterns identify non-content text inside the article body.
var skipPatterns = []string{
	"subscribe here",
	"sign up for",
	"click here",
	"read more",
	"related:",
	"see also:",
	"advertisement",
	"sponsored content",
	"follow us on",
	"share this article",
}

// paywallPhrases mark pages whose body is behind a subscription wall.
var paywallPhrases = []string{
	"subscribe to continue reading",
	"subscribe to read",
	"sign in to continue reading",
	"this article is for subscribers only",
	"to continue reading this article",
	"already a subscriber?",
	"become a member to read",
	"unlock this article",
}

// titleSelectors and bodySelectors are ordered most specific first;
// the CNBC-style classes come before the generic article fallbacks.
var titleSelectors = []string{
	"h1.ArticleHeader-headline",
	"h1[data-testid='headline']",
	"h1.headline",
	"article h1",
	"h1",
}

var subtitleSelectors = []string{
	".ArticleHeader-headerContentContainer .deck",
	"[data-testid='deck']",
	".article-deck",
	".subtitle",
}

var bodySelectors = []string{
	"div.ArticleBody-articleBody",
	"[data-testid='article-body']",
	"div.article-body",
	"div.caas-body",
	"div.group[data-module='article-body']",
	"article .group",
	"article",
}

var (
	timestampExpr   = regexp.MustCompile(`^\d{1,2}:\d{2}`)
	contributedExpr = regexp.MustCompile(`@\w+.*contributed`)
	followExpr      = regexp.MustCompile(`follow.*@`)
	viaExpr         = regexp.MustCompile(`\bvia\b.*@`)
)

// Client implements the ScraperClient interface
type Client struct {
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

// NewClient creates a new scraper client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
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

// Scrape fetches a page and extracts clean article text. Paywalled
// pages and total extraction failure return ("", nil); the caller
// treats empty content as "skip analysis", not as an error.
func (c *Client) Scrape(ctx context.Context, pageURL string) (string, error) {
	c.logger.Info().Str("url", pageURL).Msg("Scraping article")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("url", pageURL).Msg("Scrape fetch failed")
		return "", nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Int("status", resp.StatusCode).Str("url", pageURL).Msg("Scrape fetch rejected")
		return "", nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		c.logger.Warn().Err(err).Str("url", pageURL).Msg("Scrape parse failed")
		return "", nil
	}

	if isPaywalled(doc) {
		c.logger.Info().Str("url", pageURL).Msg("Article is paywalled")
		return "", nil
	}

	content := extractArticle(doc)
	if content == "" {
		c.logger.Warn().Str("url", pageURL).Msg("No content found")
		return "", nil
	}

	c.logger.Info().Str("url", pageURL).Int("chars", len(content)).Msg("Article scraped")
	return content, nil
}

// isPaywalled runs the paywall phrase detector over the full page text.
func isPaywalled(doc *goquery.Document) bool {
	pageText := strings.ToLower(doc.Text())
	for _, phrase := range paywallPhrases {
		if strings.Contains(pageText, phrase) {
			return true
		}
	}
	return false
}

// extractArticle assembles title, subtitle and body text in order.
func extractArticle(doc *goquery.Document) string {
	var content strings.Builder
	seen := make(map[string]bool)

	title := firstText(doc, titleSelectors)
	if title != "" {
		content.WriteString("TITLE: " + title + "\n\n")
	}

	subtitle := firstText(doc, subtitleSelectors)
	if subtitle != "" && subtitle != title {
		content.WriteString(subtitle + "\n\n")
	}

	body := findArticleBody(doc)
	if body != nil {
		body.Find("script, style, nav, aside, figure, iframe").Remove()

		body.Find("p, li, h2, h3, h4, blockquote").Each(func(_ int, el *goquery.Selection) {
			text := strings.TrimSpace(el.Text())

			if text == "" || seen[text] || shouldSkip(text) {
				return
			}
			if len(text) < minTextLength && !el.Is("li") {
				return
			}

			content.WriteString(formatElement(el, text))
			seen[text] = true
		})
	} else {
		content.WriteString(extractFallback(doc, seen))
	}

	return strings.TrimSpace(content.String())
}

func firstText(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		if text := strings.TrimSpace(doc.Find(selector).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

func findArticleBody(doc *goquery.Document) *goquery.Selection {
	for _, selector := range bodySelectors {
		sel := doc.Find(selector)
		if sel.Length() > 0 {
			return sel.First()
		}
	}
	return nil
}

// shouldSkip filters boilerplate, social-media promos, and
// timestamp-shaped noise lines.
func shouldSkip(text string) bool {
	lower := strings.ToLower(text)

	for _, pattern := range skipPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}

	if timestampExpr.MatchString(lower) {
		return true
	}

	if contributedExpr.MatchString(lower) ||
		followExpr.MatchString(lower) ||
		viaExpr.MatchString(lower) {
		return true
	}

	return false
}

// formatElement renders a content element as plain text with light
// markdown-style structure.
func formatElement(el *goquery.Selection, text string) string {
	switch goquery.NodeName(el) {
	case "h2", "h3", "h4":
		return "\n## " + text + "\n\n"
	case "li":
		if el.Parent().Is("ol") {
			return fmt.Sprintf("%d. %s\n", el.Index()+1, text)
		}
		return "• " + text + "\n"
	case "blockquote":
		return "> " + text + "\n\n"
	default:
		return text + "\n\n"
	}
}

// extractFallback collects generic paragraph content when no known
// body container matches.
func extractFallback(doc *goquery.Document, seen map[string]bool) string {
	var content strings.Builder

	doc.Find("article p, main p, .content p").Each(func(_ int, p *goquery.Selection) {
		text := strings.TrimSpace(p.Text())
		if len(text) >= minFallbackLength && !seen[text] && !shouldSkip(text) {
			content.WriteString(text + "\n\n")
			seen[text] = true
		}
	})

	return content.String()
}

var _ interfaces.ScraperClient = (*Client)(nil)
