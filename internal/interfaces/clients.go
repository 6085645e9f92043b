// Package interfaces defines service contracts for Foresight
package interfaces

import (
	"context"

	"github.com/bobmcallan/foresight/internal/models"
)

// FeedClient fetches and normalizes a syndication feed.
type FeedClient interface {
	// Fetch retrieves the feed and normalizes every entry. A fetch or
	// parse failure yields an error; callers treat that as an empty batch.
	Fetch(ctx context.Context, feedURL string) ([]models.FeedItem, error)
}

// ScraperClient extracts clean article body text from a URL.
type ScraperClient interface {
	// Scrape returns the extracted body text, or empty string when the
	// page is paywalled or no usable content was found.
	Scrape(ctx context.Context, url string) (string, error)
}

// GenAIClient provides single-shot, non-streaming text generation.
type GenAIClient interface {
	// GenerateContent generates text from a prompt.
	GenerateContent(ctx context.Context, prompt string) (string, error)

	// IsAvailable reports whether the generation backend is reachable.
	IsAvailable(ctx context.Context) bool

	// ModelName returns the configured model identifier.
	ModelName() string
}

// SymbolSearchClient queries the external symbol database for ranked
// candidates matching a free-text company name.
type SymbolSearchClient interface {
	// Search returns ranked symbol candidates. A throttled request is
	// signaled with *RateLimitError carrying the server's wait hint.
	Search(ctx context.Context, query string) ([]models.SymbolMatch, error)
}

// ProfileClient fetches company profile enrichment data.
type ProfileClient interface {
	// GetProfile returns the profile for a ticker, or (nil, nil) when the
	// provider has no data for it.
	GetProfile(ctx context.Context, ticker string) (*models.CompanyProfile, error)
}

// EncyclopediaClient fetches an encyclopedic summary paragraph.
type EncyclopediaClient interface {
	// GetSummary returns a descriptive paragraph for the name, or ("", nil)
	// when no page exists.
	GetSummary(ctx context.Context, name string) (string, error)
}
