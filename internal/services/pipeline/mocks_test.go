package pipeline

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bobmcallan/foresight/internal/interfaces"
	"github.com/bobmcallan/foresight/internal/models"
)

// mockFeedClient returns a fixed item list or error.
type mockFeedClient struct {
	items []models.FeedItem
	err   error
	calls int
}

func (m *mockFeedClient) Fetch(ctx context.Context, feedURL string) ([]models.FeedItem, error) {
	m.calls++
	return m.items, m.err
}

// mockScraperClient serves canned content per URL; unknown URLs come
// back empty, matching the soft-failure contract.
type mockScraperClient struct {
	content map[string]string
	err     error
}

func (m *mockScraperClient) Scrape(ctx context.Context, url string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.content[url], nil
}

type mockGenAIClient struct {
	available bool
}

func (m *mockGenAIClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return "", nil
}

func (m *mockGenAIClient) IsAvailable(ctx context.Context) bool { return m.available }

func (m *mockGenAIClient) ModelName() string { return "test-model" }

// mockAnalysisService returns fixed analysis and events for every article.
type mockAnalysisService struct {
	analysis *models.ArticleAnalysis
	events   []models.ExtractedEvent
}

func (m *mockAnalysisService) AnalyzeArticle(ctx context.Context, title, content string) *models.ArticleAnalysis {
	if m.analysis != nil {
		return m.analysis
	}
	return &models.ArticleAnalysis{Summary: "summary", Sentiment: "NEUTRAL"}
}

func (m *mockAnalysisService) ExtractEvents(ctx context.Context, title, content string, companyTickers map[string]string, articleDate time.Time) []models.ExtractedEvent {
	return m.events
}

func (m *mockAnalysisService) MapIndustryToSectors(ctx context.Context, industry string) []string {
	return nil
}

func (m *mockAnalysisService) ModelName() string { return "test-model" }

// mockResolverService resolves names from a fixed map; unknown names
// come back (nil, nil).
type mockResolverService struct {
	companies map[string]*models.Company
	calls     int
}

func (m *mockResolverService) ResolveCompany(ctx context.Context, name string) (*models.Company, error) {
	m.calls++
	return m.companies[name], nil
}

var (
	_ interfaces.FeedClient      = (*mockFeedClient)(nil)
	_ interfaces.ScraperClient   = (*mockScraperClient)(nil)
	_ interfaces.GenAIClient     = (*mockGenAIClient)(nil)
	_ interfaces.AnalysisService = (*mockAnalysisService)(nil)
	_ interfaces.ResolverService = (*mockResolverService)(nil)
)

// memStorage is an in-memory StorageManager for pipeline tests.
type memStorage struct {
	articles    *memArticleStore
	companies   *memCompanyStore
	reference   *memReferenceStore
	predictions *memPredictionStore
	events      *memEventStore
}

func newMemStorage() *memStorage {
	return &memStorage{
		articles:    &memArticleStore{byID: map[string]*models.Article{}},
		companies:   &memCompanyStore{byTicker: map[string]*models.Company{}},
		reference:   &memReferenceStore{countries: map[string]*models.Country{}, sectors: map[string]*models.Sector{}},
		predictions: &memPredictionStore{},
		events:      &memEventStore{byKey: map[string]*models.MarketEvent{}},
	}
}

func (m *memStorage) Articles() interfaces.ArticleStore       { return m.articles }
func (m *memStorage) Companies() interfaces.CompanyStore      { return m.companies }
func (m *memStorage) Reference() interfaces.ReferenceStore    { return m.reference }
func (m *memStorage) Predictions() interfaces.PredictionStore { return m.predictions }
func (m *memStorage) Events() interfaces.EventStore           { return m.events }
func (m *memStorage) Close() error                            { return nil }

var _ interfaces.StorageManager = (*memStorage)(nil)

type memArticleStore struct {
	mu   sync.Mutex
	byID map[string]*models.Article
}

func (m *memArticleStore) GetByExternalID(ctx context.Context, externalID string) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if article, ok := m.byID[externalID]; ok {
		copy := *article
		return &copy, nil
	}
	return nil, nil
}

func (m *memArticleStore) GetByURL(ctx context.Context, url string) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, article := range m.byID {
		if article.URL == url {
			copy := *article
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *memArticleStore) ExistingExternalIDs(ctx context.Context, ids []string) (map[string]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing := make(map[string]bool)
	for _, id := range ids {
		if _, ok := m.byID[id]; ok {
			existing[id] = true
		}
	}
	return existing, nil
}

func (m *memArticleStore) Create(ctx context.Context, article *models.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *article
	m.byID[article.ExternalID] = &copy
	return nil
}

func (m *memArticleStore) Update(ctx context.Context, article *models.Article) error {
	return m.Create(ctx, article)
}

type memCompanyStore struct {
	mu       sync.Mutex
	byTicker map[string]*models.Company
}

func (m *memCompanyStore) GetByTicker(ctx context.Context, ticker string) (*models.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if company, ok := m.byTicker[strings.ToUpper(ticker)]; ok {
		copy := *company
		return &copy, nil
	}
	return nil, nil
}

func (m *memCompanyStore) FindByName(ctx context.Context, name string) (*models.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, company := range m.byTicker {
		if strings.EqualFold(company.Name, name) {
			copy := *company
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *memCompanyStore) Save(ctx context.Context, company *models.Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *company
	m.byTicker[strings.ToUpper(company.Ticker)] = &copy
	return nil
}

type memReferenceStore struct {
	mu        sync.Mutex
	countries map[string]*models.Country
	sectors   map[string]*models.Sector
}

func (m *memReferenceStore) GetCountry(ctx context.Context, code string) (*models.Country, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if country, ok := m.countries[strings.ToUpper(code)]; ok {
		return country, nil
	}
	return nil, nil
}

func (m *memReferenceStore) FindCountryByName(ctx context.Context, name string) (*models.Country, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, country := range m.countries {
		if strings.EqualFold(country.Name, name) {
			return country, nil
		}
	}
	return nil, nil
}

func (m *memReferenceStore) SaveCountry(ctx context.Context, country *models.Country) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.countries[strings.ToUpper(country.Code)] = country
	return nil
}

func (m *memReferenceStore) ListCountries(ctx context.Context) ([]models.Country, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var list []models.Country
	for _, country := range m.countries {
		list = append(list, *country)
	}
	return list, nil
}

func (m *memReferenceStore) CountCountries(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.countries), nil
}

func (m *memReferenceStore) GetSector(ctx context.Context, code string) (*models.Sector, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sector, ok := m.sectors[strings.ToUpper(code)]; ok {
		return sector, nil
	}
	return nil, nil
}

func (m *memReferenceStore) FindSectorByName(ctx context.Context, name string) (*models.Sector, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sector := range m.sectors {
		if strings.EqualFold(sector.Name, name) {
			return sector, nil
		}
	}
	return nil, nil
}

func (m *memReferenceStore) SaveSector(ctx context.Context, sector *models.Sector) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sectors[strings.ToUpper(sector.Code)] = sector
	return nil
}

func (m *memReferenceStore) ListSectors(ctx context.Context) ([]models.Sector, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var list []models.Sector
	for _, sector := range m.sectors {
		list = append(list, *sector)
	}
	return list, nil
}

func (m *memReferenceStore) CountSectors(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sectors), nil
}

type memPredictionStore struct {
	mu          sync.Mutex
	predictions []*models.Prediction
}

func (m *memPredictionStore) Create(ctx context.Context, prediction *models.Prediction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *prediction
	m.predictions = append(m.predictions, &copy)
	return nil
}

func (m *memPredictionStore) ListByArticle(ctx context.Context, articleID string) ([]models.Prediction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var list []models.Prediction
	for _, prediction := range m.predictions {
		if prediction.ArticleID == articleID {
			list = append(list, *prediction)
		}
	}
	return list, nil
}

type memEventStore struct {
	mu    sync.Mutex
	byKey map[string]*models.MarketEvent
}

func (m *memEventStore) Exists(ctx context.Context, title string, date time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.byKey[models.EventDedupKey(title, date)]
	return ok, nil
}

func (m *memEventStore) Create(ctx context.Context, event *models.MarketEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *event
	m.byKey[event.DedupKey()] = &copy
	return nil
}

func (m *memEventStore) ListUpcoming(ctx context.Context, from time.Time) ([]models.MarketEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var list []models.MarketEvent
	for _, event := range m.byKey {
		if !event.Date.Before(from) {
			list = append(list, *event)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Date.Before(list[j].Date) })
	return list, nil
}
