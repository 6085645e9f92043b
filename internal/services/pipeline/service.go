// Package pipeline orchestrates feed processing: fetch, dedup, scrape,
// analyze, resolve entities, persist, extract events.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/foresight/internal/common"
	"github.com/bobmcallan/foresight/internal/interfaces"
	"github.com/bobmcallan/foresight/internal/models"
)

// DefaultItemDelay paces work between items so the generation and
// verification services are not hammered by a single run.
const DefaultItemDelay = 3 * time.Second

// Service implements the PipelineService interface
type Service struct {
	feed     interfaces.FeedClient
	scraper  interfaces.ScraperClient
	genai    interfaces.GenAIClient
	analysis interfaces.AnalysisService
	resolver interfaces.ResolverService
	storage  interfaces.StorageManager
	archive  interfaces.ArchiveStore
	logger   *common.Logger

	itemDelay time.Duration
	runs      *runRegistry
}

// ServiceOption configures the service
type ServiceOption func(*Service)

// WithItemDelay sets the pacing delay between processed items
func WithItemDelay(delay time.Duration) ServiceOption {
	return func(s *Service) {
		if delay > 0 {
			s.itemDelay = delay
		}
	}
}

// WithArchive sets the optional archive sink
func WithArchive(archive interfaces.ArchiveStore) ServiceOption {
	return func(s *Service) {
		s.archive = archive
	}
}

// NewService creates a new pipeline service
func NewService(
	feed interfaces.FeedClient,
	scraper interfaces.ScraperClient,
	genai interfaces.GenAIClient,
	analysis interfaces.AnalysisService,
	resolver interfaces.ResolverService,
	storage interfaces.StorageManager,
	logger *common.Logger,
	opts ...ServiceOption,
) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	s := &Service{
		feed:      feed,
		scraper:   scraper,
		genai:     genai,
		analysis:  analysis,
		resolver:  resolver,
		storage:   storage,
		logger:    logger,
		itemDelay: DefaultItemDelay,
		runs:      newRunRegistry(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ProcessFeed runs one full batch over the feed. The generation
// service being unavailable aborts before any state mutation. Feed
// fetch failure yields an empty batch, not an error. Each item is
// processed independently: one item failing never stops the batch.
func (s *Service) ProcessFeed(ctx context.Context, feedURL string) (*models.PipelineSummary, error) {
	s.logger.Info().Str("feed", feedURL).Msg("Starting feed processing")

	if !s.genai.IsAvailable(ctx) {
		return nil, fmt.Errorf("generation service unavailable")
	}

	items, err := s.feed.Fetch(ctx, feedURL)
	if err != nil {
		s.logger.Error().Err(err).Str("feed", feedURL).Msg("Feed fetch failed")
		items = nil
	}

	summary := &models.PipelineSummary{Total: len(items)}
	if len(items) == 0 {
		s.logger.Warn().Str("feed", feedURL).Msg("No items in feed")
		return summary, nil
	}

	// One batch existence check before any per-item work. This is an
	// optimization only; record-level uniqueness is the real guard.
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ExternalID)
	}
	existing, err := s.storage.Articles().ExistingExternalIDs(ctx, ids)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Batch existence check failed")
		existing = map[string]bool{}
	}

	s.logger.Info().
		Int("items", len(items)).
		Int("already_stored", len(existing)).
		Msg("Processing feed items")

	for i, item := range items {
		if existing[item.ExternalID] {
			s.logger.Info().
				Int("item", i+1).
				Int("total", len(items)).
				Str("title", item.Title).
				Msg("Already processed, skipping")
			summary.Skipped++
			continue
		}

		if err := s.processItem(ctx, item); err != nil {
			if ctx.Err() != nil {
				// Interrupted mid-item: soft stop, remainder untouched.
				s.logger.Warn().Msg("Run interrupted, stopping batch")
				break
			}
			s.logger.Error().Err(err).Str("title", item.Title).Msg("Failed to process article")
			summary.Failed++
		} else {
			summary.Succeeded++
		}

		if i < len(items)-1 {
			if !sleepCtx(ctx, s.itemDelay) {
				s.logger.Warn().Msg("Run interrupted during pacing, stopping batch")
				break
			}
		}
	}

	if s.archive != nil {
		if err := s.archive.WriteRunSummary(time.Now().Format("20060102-150405"), summary); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to archive run summary")
		}
	}

	s.logger.Info().
		Int("total", summary.Total).
		Int("succeeded", summary.Succeeded).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Msg("Feed processing completed")

	return summary, nil
}

// processItem runs the full stage sequence for one feed item.
func (s *Service) processItem(ctx context.Context, item models.FeedItem) error {
	s.logger.Info().Str("title", item.Title).Msg("Processing article")

	article, err := s.createArticle(ctx, item)
	if err != nil {
		return fmt.Errorf("create article: %w", err)
	}

	content, err := s.scraper.Scrape(ctx, item.URL)
	if err != nil {
		return fmt.Errorf("scrape: %w", err)
	}
	if content == "" {
		s.logger.Warn().Str("title", item.Title).Msg("Skipping article (no content)")
		return fmt.Errorf("no content extracted")
	}

	article.Content = content
	article.Scraped = true
	if err := s.storage.Articles().Update(ctx, article); err != nil {
		return fmt.Errorf("save scraped content: %w", err)
	}

	analysis := s.analysis.AnalyzeArticle(ctx, item.Title, content)

	tickerMap, err := s.applyAnalysis(ctx, article, analysis)
	if err != nil {
		return fmt.Errorf("apply analysis: %w", err)
	}

	articleDate := item.PublishedAt
	if articleDate.IsZero() {
		articleDate = time.Now()
	}
	s.extractAndSaveEvents(ctx, article, content, tickerMap, articleDate)

	if s.archive != nil {
		if err := s.archive.WriteArticle(article, analysis); err != nil {
			s.logger.Warn().Err(err).Str("title", item.Title).Msg("Failed to archive article")
		}
	}

	s.logger.Info().
		Str("title", article.Title).
		Str("external_id", article.ExternalID).
		Msg("Article processed")

	return nil
}

// createArticle makes the initial record for a feed item, reusing any
// record that appeared under the same external id since the batch check.
func (s *Service) createArticle(ctx context.Context, item models.FeedItem) (*models.Article, error) {
	existing, err := s.storage.Articles().GetByExternalID(ctx, item.ExternalID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	article := &models.Article{
		ExternalID:  item.ExternalID,
		Title:       item.Title,
		URL:         item.URL,
		Description: item.Description,
		PublishedAt: item.PublishedAt,
		CreatedAt:   time.Now(),
	}

	if err := s.storage.Articles().Create(ctx, article); err != nil {
		return nil, err
	}

	s.logger.Info().Str("title", item.Title).Str("external_id", item.ExternalID).Msg("Created article")
	return article, nil
}

// ProcessSingleArticle processes one article outside a feed batch.
// Unlike batch items, failures here are reported to the caller.
func (s *Service) ProcessSingleArticle(ctx context.Context, externalID, title, url, description string) (*models.Article, error) {
	if !s.genai.IsAvailable(ctx) {
		return nil, fmt.Errorf("generation service unavailable")
	}

	item := models.FeedItem{
		ExternalID:  externalID,
		Title:       title,
		URL:         url,
		Description: description,
	}

	article, err := s.createArticle(ctx, item)
	if err != nil {
		return nil, err
	}

	content, err := s.scraper.Scrape(ctx, url)
	if err != nil {
		return nil, err
	}
	if content == "" {
		return nil, fmt.Errorf("no content extracted from %s", url)
	}

	article.Content = content
	article.Scraped = true
	if err := s.storage.Articles().Update(ctx, article); err != nil {
		return nil, err
	}

	analysis := s.analysis.AnalyzeArticle(ctx, title, content)
	if _, err := s.applyAnalysis(ctx, article, analysis); err != nil {
		return nil, err
	}

	return article, nil
}

// sleepCtx blocks for d or until ctx is done; false means interrupted.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

var _ interfaces.PipelineService = (*Service)(nil)
