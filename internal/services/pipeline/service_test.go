package pipeline

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/foresight/internal/models"
)

func feedItem(id, title, url string) models.FeedItem {
	return models.FeedItem{
		ExternalID:  id,
		Title:       title,
		URL:         url,
		PublishedAt: time.Now().Add(-time.Hour),
	}
}

func newTestPipeline(feed *mockFeedClient, scraper *mockScraperClient, analysis *mockAnalysisService, resolver *mockResolverService, storage *memStorage, opts ...ServiceOption) *Service {
	opts = append([]ServiceOption{WithItemDelay(time.Millisecond)}, opts...)
	return NewService(feed, scraper, &mockGenAIClient{available: true}, analysis, resolver, storage, nil, opts...)
}

func TestProcessFeedGenAIUnavailable(t *testing.T) {
	feed := &mockFeedClient{items: []models.FeedItem{feedItem("1", "A", "https://news.example/a")}}
	storage := newMemStorage()
	svc := NewService(feed, &mockScraperClient{}, &mockGenAIClient{available: false}, &mockAnalysisService{}, &mockResolverService{}, storage, nil)

	summary, err := svc.ProcessFeed(context.Background(), "https://news.example/feed")
	require.Error(t, err)
	assert.Nil(t, summary)
	// Aborted before any fetch or write.
	assert.Equal(t, 0, feed.calls)
}

func TestProcessFeedFetchErrorYieldsEmptyBatch(t *testing.T) {
	feed := &mockFeedClient{err: fmt.Errorf("connection refused")}
	svc := newTestPipeline(feed, &mockScraperClient{}, &mockAnalysisService{}, &mockResolverService{}, newMemStorage())

	summary, err := svc.ProcessFeed(context.Background(), "https://news.example/feed")
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, 0, summary.Total)
}

func TestProcessFeedSkipsStoredArticles(t *testing.T) {
	storage := newMemStorage()
	ctx := context.Background()
	require.NoError(t, storage.articles.Create(ctx, &models.Article{ExternalID: "1", Title: "Old", URL: "https://news.example/a"}))

	feed := &mockFeedClient{items: []models.FeedItem{
		feedItem("1", "Old", "https://news.example/a"),
		feedItem("2", "New", "https://news.example/b"),
	}}
	scraper := &mockScraperClient{content: map[string]string{
		"https://news.example/b": "Fresh article body text.",
	}}

	svc := newTestPipeline(feed, scraper, &mockAnalysisService{}, &mockResolverService{}, storage)

	summary, err := svc.ProcessFeed(ctx, "https://news.example/feed")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 0, summary.Failed)

	stored, err := storage.articles.GetByExternalID(ctx, "2")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.Scraped)
	assert.True(t, stored.Analyzed)
	assert.Equal(t, "Fresh article body text.", stored.Content)
	assert.Equal(t, "test-model", stored.AnalysisModel)
}

func TestProcessFeedCountsEmptyContentAsFailure(t *testing.T) {
	feed := &mockFeedClient{items: []models.FeedItem{feedItem("1", "Paywalled", "https://news.example/a")}}
	// Scraper has no content for the URL: paywall semantics.
	svc := newTestPipeline(feed, &mockScraperClient{}, &mockAnalysisService{}, &mockResolverService{}, newMemStorage())

	summary, err := svc.ProcessFeed(context.Background(), "https://news.example/feed")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 0, summary.Succeeded)
}

func TestProcessFeedResolvesMentionedEntities(t *testing.T) {
	storage := newMemStorage()
	ctx := context.Background()
	storage.reference.SaveCountry(ctx, &models.Country{Code: "US", Name: "United States"})
	storage.reference.SaveSector(ctx, &models.Sector{Code: "TECH", Name: "Technology"})

	analysis := &mockAnalysisService{analysis: &models.ArticleAnalysis{
		Summary:   "Apple ships new hardware.",
		Sentiment: "positive",
		Companies: []string{"Apple", "Some Unknown Startup"},
		Countries: []string{"United States", "Wakanda"},
		Sectors:   []string{"TECH", "NONEXISTENT"},
	}}
	resolver := &mockResolverService{companies: map[string]*models.Company{
		"Apple": {Ticker: "AAPL", Name: "Apple Inc"},
	}}
	feed := &mockFeedClient{items: []models.FeedItem{feedItem("1", "Apple event", "https://news.example/a")}}
	scraper := &mockScraperClient{content: map[string]string{"https://news.example/a": "Body."}}

	svc := newTestPipeline(feed, scraper, analysis, resolver, storage)

	summary, err := svc.ProcessFeed(ctx, "https://news.example/feed")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Succeeded)

	stored, err := storage.articles.GetByExternalID(ctx, "1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, []string{"AAPL"}, stored.MentionedCompanies)
	assert.Equal(t, []string{"US"}, stored.MentionedCountries)
	assert.Equal(t, []string{"TECH"}, stored.MentionedSectors)
	assert.Equal(t, models.SentimentPositive, stored.Sentiment)
}

func TestProcessFeedDropsUnverifiedCompanyPrediction(t *testing.T) {
	storage := newMemStorage()
	ctx := context.Background()

	analysis := &mockAnalysisService{analysis: &models.ArticleAnalysis{
		Summary: "Calls.",
		Predictions: []models.PredictedItem{
			{Scope: "COMPANY", Targets: []string{"Some Unknown Startup"}, Direction: "BULLISH"},
			{Scope: "COMPANY", Targets: []string{"Apple"}, Direction: "BULLISH", Confidence: 80},
		},
	}}
	resolver := &mockResolverService{companies: map[string]*models.Company{
		"Apple": {Ticker: "AAPL", Name: "Apple Inc"},
	}}
	feed := &mockFeedClient{items: []models.FeedItem{feedItem("1", "Calls", "https://news.example/a")}}
	scraper := &mockScraperClient{content: map[string]string{"https://news.example/a": "Body."}}

	svc := newTestPipeline(feed, scraper, analysis, resolver, storage)

	_, err := svc.ProcessFeed(ctx, "https://news.example/feed")
	require.NoError(t, err)

	predictions, err := storage.predictions.ListByArticle(ctx, "1")
	require.NoError(t, err)
	require.Len(t, predictions, 1)
	assert.Equal(t, models.ScopeCompany, predictions[0].Scope())
	assert.Equal(t, []string{"AAPL"}, predictions[0].CompanyTickers())
	assert.Equal(t, models.DirectionBullish, predictions[0].Direction)
	assert.Equal(t, 80, predictions[0].Confidence)
}

func TestProcessFeedKeepsPartialMultiTickerPrediction(t *testing.T) {
	storage := newMemStorage()
	ctx := context.Background()

	analysis := &mockAnalysisService{analysis: &models.ArticleAnalysis{
		Summary: "Basket call.",
		Predictions: []models.PredictedItem{
			{Scope: "MULTI_TICKER", Targets: []string{"Apple", "Ghost Corp", "Microsoft"}},
		},
	}}
	resolver := &mockResolverService{companies: map[string]*models.Company{
		"Apple":     {Ticker: "AAPL", Name: "Apple Inc"},
		"Microsoft": {Ticker: "MSFT", Name: "Microsoft Corporation"},
	}}
	feed := &mockFeedClient{items: []models.FeedItem{feedItem("1", "Basket", "https://news.example/a")}}
	scraper := &mockScraperClient{content: map[string]string{"https://news.example/a": "Body."}}

	svc := newTestPipeline(feed, scraper, analysis, resolver, storage)

	_, err := svc.ProcessFeed(ctx, "https://news.example/feed")
	require.NoError(t, err)

	predictions, err := storage.predictions.ListByArticle(ctx, "1")
	require.NoError(t, err)
	require.Len(t, predictions, 1)
	assert.Equal(t, models.ScopeMultiTicker, predictions[0].Scope())
	assert.ElementsMatch(t, []string{"AAPL", "MSFT"}, predictions[0].CompanyTickers())
}

func TestProcessFeedSectorPredictionCountryFallback(t *testing.T) {
	storage := newMemStorage()
	ctx := context.Background()
	storage.reference.SaveCountry(ctx, &models.Country{Code: "TW", Name: "Taiwan"})
	storage.reference.SaveSector(ctx, &models.Sector{Code: "SEMICONDUCTORS", Name: "Semiconductors"})

	analysis := &mockAnalysisService{analysis: &models.ArticleAnalysis{
		Summary:   "Chip supply tightens.",
		Countries: []string{"Taiwan"},
		Predictions: []models.PredictedItem{
			// No countries on the prediction itself.
			{Scope: "SECTOR", Sectors: []string{"SEMICONDUCTORS"}, Direction: "BEARISH"},
		},
	}}
	feed := &mockFeedClient{items: []models.FeedItem{feedItem("1", "Chips", "https://news.example/a")}}
	scraper := &mockScraperClient{content: map[string]string{"https://news.example/a": "Body."}}

	svc := newTestPipeline(feed, scraper, analysis, &mockResolverService{}, storage)

	_, err := svc.ProcessFeed(ctx, "https://news.example/feed")
	require.NoError(t, err)

	predictions, err := storage.predictions.ListByArticle(ctx, "1")
	require.NoError(t, err)
	require.Len(t, predictions, 1)
	assert.Equal(t, models.ScopeSector, predictions[0].Scope())
	assert.Equal(t, []string{"SEMICONDUCTORS"}, predictions[0].SectorCodes())
	assert.Equal(t, []string{"TW"}, predictions[0].CountryCodes())
}

func TestProcessFeedSavesFutureEventsOnly(t *testing.T) {
	storage := newMemStorage()
	ctx := context.Background()
	storage.companies.Save(ctx, &models.Company{Ticker: "NVDA", Name: "NVIDIA Corporation"})
	storage.reference.SaveSector(ctx, &models.Sector{Code: "SEMICONDUCTORS", Name: "Semiconductors"})

	future := time.Now().AddDate(0, 0, 14).Format("2006-01-02")
	past := time.Now().AddDate(0, 0, -7).Format("2006-01-02")

	analysis := &mockAnalysisService{
		analysis: &models.ArticleAnalysis{Summary: "Earnings ahead."},
		events: []models.ExtractedEvent{
			{Title: "NVIDIA Earnings", Date: future, Time: "4:20 PM ET", Type: "EARNINGS", Relevance: "HIGH", CompanyTicker: "NVDA", Sector: "Semiconductors"},
			{Title: "Old CPI Release", Date: past, Type: "ECONOMIC"},
			{Title: "Mystery Summit", Date: "sometime soon", Type: "CONFERENCE"},
			{Title: "Startup Investor Day", Date: future, Type: "CONFERENCE", CompanyTicker: "GHOST"},
		},
	}
	feed := &mockFeedClient{items: []models.FeedItem{feedItem("1", "Earnings", "https://news.example/a")}}
	scraper := &mockScraperClient{content: map[string]string{"https://news.example/a": "Body."}}

	svc := newTestPipeline(feed, scraper, analysis, &mockResolverService{}, storage)

	_, err := svc.ProcessFeed(ctx, "https://news.example/feed")
	require.NoError(t, err)

	events, err := storage.events.ListUpcoming(ctx, time.Now())
	require.NoError(t, err)
	require.Len(t, events, 2)

	byTitle := map[string]models.MarketEvent{}
	for _, event := range events {
		byTitle[event.Title] = event
	}

	earnings := byTitle["NVIDIA Earnings"]
	assert.Equal(t, models.EventEarnings, earnings.Type)
	assert.Equal(t, models.RelevanceHigh, earnings.Relevance)
	assert.Equal(t, "NVDA", earnings.CompanyTicker)
	assert.Equal(t, "Semiconductors", earnings.Sector)
	assert.Equal(t, "1", earnings.ArticleID)

	// Unknown ticker keeps the event but drops the link.
	investorDay := byTitle["Startup Investor Day"]
	assert.Equal(t, "", investorDay.CompanyTicker)
}

func TestProcessFeedSkipsDuplicateEvents(t *testing.T) {
	storage := newMemStorage()
	ctx := context.Background()

	futureStr := time.Now().AddDate(0, 0, 30).Format("2006-01-02")
	futureDate, err := time.Parse("2006-01-02", futureStr)
	require.NoError(t, err)
	require.NoError(t, storage.events.Create(ctx, &models.MarketEvent{
		Title: "Fed Rate Decision",
		Date:  futureDate,
	}))

	analysis := &mockAnalysisService{
		analysis: &models.ArticleAnalysis{Summary: "Rates."},
		events: []models.ExtractedEvent{
			{Title: "FED RATE DECISION", Date: futureStr, Type: "ECONOMIC"},
		},
	}
	feed := &mockFeedClient{items: []models.FeedItem{feedItem("1", "Rates", "https://news.example/a")}}
	scraper := &mockScraperClient{content: map[string]string{"https://news.example/a": "Body."}}

	svc := newTestPipeline(feed, scraper, analysis, &mockResolverService{}, storage)

	_, err = svc.ProcessFeed(ctx, "https://news.example/feed")
	require.NoError(t, err)

	events, err := storage.events.ListUpcoming(ctx, time.Now())
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestProcessFeedStopsOnCanceledContext(t *testing.T) {
	storage := newMemStorage()
	feed := &mockFeedClient{items: []models.FeedItem{
		feedItem("1", "First", "https://news.example/a"),
		feedItem("2", "Second", "https://news.example/b"),
	}}
	scraper := &mockScraperClient{content: map[string]string{
		"https://news.example/a": "Body A.",
		"https://news.example/b": "Body B.",
	}}

	svc := newTestPipeline(feed, scraper, &mockAnalysisService{}, &mockResolverService{}, storage)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := svc.ProcessFeed(ctx, "https://news.example/feed")
	require.NoError(t, err)
	// Pacing after the first item observes the canceled context and
	// soft-stops; the second item is left for the next run.
	assert.Equal(t, 1, summary.Succeeded)

	second, err := storage.articles.GetByExternalID(context.Background(), "2")
	require.NoError(t, err)
	assert.Nil(t, second)
}

func TestProcessFeedWritesRunSummaryToArchive(t *testing.T) {
	archive := &recordingArchive{}
	feed := &mockFeedClient{items: []models.FeedItem{feedItem("1", "A", "https://news.example/a")}}
	scraper := &mockScraperClient{content: map[string]string{"https://news.example/a": "Body."}}

	svc := newTestPipeline(feed, scraper, &mockAnalysisService{}, &mockResolverService{}, newMemStorage(), WithArchive(archive))

	_, err := svc.ProcessFeed(context.Background(), "https://news.example/feed")
	require.NoError(t, err)

	assert.Equal(t, 1, archive.articles)
	require.NotNil(t, archive.summary)
	assert.Equal(t, 1, archive.summary.Succeeded)
}

func TestProcessSingleArticle(t *testing.T) {
	storage := newMemStorage()
	scraper := &mockScraperClient{content: map[string]string{"https://news.example/solo": "Standalone body."}}

	svc := newTestPipeline(&mockFeedClient{}, scraper, &mockAnalysisService{}, &mockResolverService{}, storage)

	article, err := svc.ProcessSingleArticle(context.Background(), "solo-1", "Solo", "https://news.example/solo", "desc")
	require.NoError(t, err)
	require.NotNil(t, article)
	assert.True(t, article.Scraped)
	assert.True(t, article.Analyzed)
	assert.Equal(t, "Standalone body.", article.Content)
}

func TestProcessSingleArticleNoContent(t *testing.T) {
	svc := newTestPipeline(&mockFeedClient{}, &mockScraperClient{}, &mockAnalysisService{}, &mockResolverService{}, newMemStorage())

	article, err := svc.ProcessSingleArticle(context.Background(), "solo-1", "Solo", "https://news.example/missing", "")
	require.Error(t, err)
	assert.Nil(t, article)
}

func TestStartRunAndGetRun(t *testing.T) {
	storage := newMemStorage()
	feed := &mockFeedClient{items: []models.FeedItem{feedItem("1", "A", "https://news.example/a")}}
	scraper := &mockScraperClient{content: map[string]string{"https://news.example/a": "Body."}}

	svc := newTestPipeline(feed, scraper, &mockAnalysisService{}, &mockResolverService{}, storage)

	handle := svc.StartRun("https://news.example/feed")
	require.NotNil(t, handle)

	found, ok := svc.GetRun(handle.ID)
	require.True(t, ok)
	assert.Equal(t, handle.ID, found.ID)

	select {
	case <-handle.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("run did not finish in time")
	}

	snap := handle.Snapshot()
	assert.Equal(t, models.RunCompleted, snap.Status)
	require.NotNil(t, snap.Summary)
	assert.Equal(t, 1, snap.Summary.Succeeded)

	_, ok = svc.GetRun("nope")
	assert.False(t, ok)
}

// recordingArchive counts archive writes for assertion.
type recordingArchive struct {
	articles int
	summary  *models.PipelineSummary
}

func (r *recordingArchive) WriteArticle(article *models.Article, analysis *models.ArticleAnalysis) error {
	r.articles++
	return nil
}

func (r *recordingArchive) WriteRunSummary(runID string, summary *models.PipelineSummary) error {
	r.summary = summary
	return nil
}
