package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/foresight/internal/models"
)

// AnalysisService turns article text into structured analysis output.
type AnalysisService interface {
	// AnalyzeArticle runs the taxonomy-aware analysis prompt over the
	// article. It always returns a usable analysis, falling back to a
	// neutral summary on total parse failure.
	AnalyzeArticle(ctx context.Context, title, content string) *models.ArticleAnalysis

	// ExtractEvents derives dated calendar events from the article text.
	// companyTickers maps already-resolved company names to tickers and is
	// passed as prompt context. Returns an empty slice on any failure.
	ExtractEvents(ctx context.Context, title, content string, companyTickers map[string]string, articleDate time.Time) []models.ExtractedEvent

	// MapIndustryToSectors maps a free-text industry label onto up to
	// three sector codes from the stored taxonomy. Empty on any failure.
	MapIndustryToSectors(ctx context.Context, industry string) []string

	// ModelName returns the model identifier recorded on analyzed articles.
	ModelName() string
}

// ResolverService resolves free-text company names into verified companies.
type ResolverService interface {
	// ResolveCompany verifies a company name against the symbol database
	// and returns the (possibly newly created and enriched) company record.
	// An unverifiable name returns (nil, nil): not-found is a valid
	// outcome, not an error.
	ResolveCompany(ctx context.Context, name string) (*models.Company, error)
}

// PipelineService orchestrates batch processing of a news feed.
type PipelineService interface {
	// ProcessFeed runs one full batch over the feed synchronously.
	ProcessFeed(ctx context.Context, feedURL string) (*models.PipelineSummary, error)

	// StartRun submits a detached background run and returns its handle
	// immediately.
	StartRun(feedURL string) *models.RunHandle

	// GetRun looks up a previously started run by id.
	GetRun(id string) (*models.RunHandle, bool)

	// ProcessSingleArticle processes one article outside a feed batch.
	ProcessSingleArticle(ctx context.Context, externalID, title, url, description string) (*models.Article, error)
}
