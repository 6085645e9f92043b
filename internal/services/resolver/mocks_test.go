package resolver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/foresight/internal/models"
)

// --- mockSearchClient ---

type mockSearchClient struct {
	searchFn func(ctx context.Context, query string) ([]models.SymbolMatch, error)
	calls    int
}

func (m *mockSearchClient) Search(ctx context.Context, query string) ([]models.SymbolMatch, error) {
	m.calls++
	if m.searchFn != nil {
		return m.searchFn(ctx, query)
	}
	return nil, nil
}

// --- mockProfileClient ---

type mockProfileClient struct {
	profile *models.CompanyProfile
	err     error
}

func (m *mockProfileClient) GetProfile(ctx context.Context, ticker string) (*models.CompanyProfile, error) {
	return m.profile, m.err
}

// --- mockWikiClient ---

type mockWikiClient struct {
	summary string
	err     error
}

func (m *mockWikiClient) GetSummary(ctx context.Context, name string) (string, error) {
	return m.summary, m.err
}

// --- mockAnalysisService ---

type mockAnalysisService struct {
	sectorCodes []string
}

func (m *mockAnalysisService) AnalyzeArticle(ctx context.Context, title, content string) *models.ArticleAnalysis {
	return &models.ArticleAnalysis{Summary: "n/a", Sentiment: models.SentimentNeutral}
}

func (m *mockAnalysisService) ExtractEvents(ctx context.Context, title, content string, companyTickers map[string]string, articleDate time.Time) []models.ExtractedEvent {
	return nil
}

func (m *mockAnalysisService) MapIndustryToSectors(ctx context.Context, industry string) []string {
	return m.sectorCodes
}

func (m *mockAnalysisService) ModelName() string { return "test-model" }

// --- memCompanyStore ---

type memCompanyStore struct {
	companies map[string]*models.Company
}

func newMemCompanyStore() *memCompanyStore {
	return &memCompanyStore{companies: make(map[string]*models.Company)}
}

func (m *memCompanyStore) GetByTicker(ctx context.Context, ticker string) (*models.Company, error) {
	c, ok := m.companies[strings.ToUpper(ticker)]
	if !ok {
		return nil, nil
	}
	return c, nil
}

func (m *memCompanyStore) FindByName(ctx context.Context, name string) (*models.Company, error) {
	for _, c := range m.companies {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return nil, nil
}

func (m *memCompanyStore) Save(ctx context.Context, company *models.Company) error {
	if company.Ticker == "" {
		return fmt.Errorf("company ticker is required")
	}
	m.companies[strings.ToUpper(company.Ticker)] = company
	return nil
}

// --- memReferenceStore ---

type memReferenceStore struct {
	countries map[string]*models.Country
	sectors   map[string]*models.Sector
}

func newMemReferenceStore() *memReferenceStore {
	return &memReferenceStore{
		countries: make(map[string]*models.Country),
		sectors:   make(map[string]*models.Sector),
	}
}

func (m *memReferenceStore) GetCountry(ctx context.Context, code string) (*models.Country, error) {
	return m.countries[strings.ToUpper(code)], nil
}

func (m *memReferenceStore) FindCountryByName(ctx context.Context, name string) (*models.Country, error) {
	for _, c := range m.countries {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return nil, nil
}

func (m *memReferenceStore) SaveCountry(ctx context.Context, country *models.Country) error {
	m.countries[strings.ToUpper(country.Code)] = country
	return nil
}

func (m *memReferenceStore) ListCountries(ctx context.Context) ([]models.Country, error) {
	out := make([]models.Country, 0, len(m.countries))
	for _, c := range m.countries {
		out = append(out, *c)
	}
	return out, nil
}

func (m *memReferenceStore) CountCountries(ctx context.Context) (int, error) {
	return len(m.countries), nil
}

func (m *memReferenceStore) GetSector(ctx context.Context, code string) (*models.Sector, error) {
	return m.sectors[strings.ToUpper(code)], nil
}

func (m *memReferenceStore) FindSectorByName(ctx context.Context, name string) (*models.Sector, error) {
	for _, s := range m.sectors {
		if strings.EqualFold(s.Name, name) {
			return s, nil
		}
	}
	return nil, nil
}

func (m *memReferenceStore) SaveSector(ctx context.Context, sector *models.Sector) error {
	m.sectors[strings.ToUpper(sector.Code)] = sector
	return nil
}

func (m *memReferenceStore) ListSectors(ctx context.Context) ([]models.Sector, error) {
	out := make([]models.Sector, 0, len(m.sectors))
	for _, s := range m.sectors {
		out = append(out, *s)
	}
	return out, nil
}

func (m *memReferenceStore) CountSectors(ctx context.Context) (int, error) {
	return len(m.sectors), nil
}
