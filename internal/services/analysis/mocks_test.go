package analysis

import (
	"context"
	"fmt"

	"github.com/bobmcallan/foresight/internal/models"
)

// --- mockGenAIClient ---

type mockGenAIClient struct {
	generateFn func(ctx context.Context, prompt string) (string, error)
	available  bool
	prompts    []string
}

func (m *mockGenAIClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.generateFn != nil {
		return m.generateFn(ctx, prompt)
	}
	return "", fmt.Errorf("not implemented")
}

func (m *mockGenAIClient) IsAvailable(ctx context.Context) bool {
	return m.available
}

func (m *mockGenAIClient) ModelName() string {
	return "test-model"
}

// --- mockReferenceStore ---

type mockReferenceStore struct {
	sectors   []models.Sector
	countries []models.Country
}

func (m *mockReferenceStore) GetCountry(ctx context.Context, code string) (*models.Country, error) {
	for i := range m.countries {
		if m.countries[i].Code == code {
			return &m.countries[i], nil
		}
	}
	return nil, nil
}

func (m *mockReferenceStore) FindCountryByName(ctx context.Context, name string) (*models.Country, error) {
	return nil, nil
}

func (m *mockReferenceStore) SaveCountry(ctx context.Context, country *models.Country) error {
	m.countries = append(m.countries, *country)
	return nil
}

func (m *mockReferenceStore) ListCountries(ctx context.Context) ([]models.Country, error) {
	return m.countries, nil
}

func (m *mockReferenceStore) CountCountries(ctx context.Context) (int, error) {
	return len(m.countries), nil
}

func (m *mockReferenceStore) GetSector(ctx context.Context, code string) (*models.Sector, error) {
	for i := range m.sectors {
		if m.sectors[i].Code == code {
			return &m.sectors[i], nil
		}
	}
	return nil, nil
}

func (m *mockReferenceStore) FindSectorByName(ctx context.Context, name string) (*models.Sector, error) {
	return nil, nil
}

func (m *mockReferenceStore) SaveSector(ctx context.Context, sector *models.Sector) error {
	m.sectors = append(m.sectors, *sector)
	return nil
}

func (m *mockReferenceStore) ListSectors(ctx context.Context) ([]models.Sector, error) {
	return m.sectors, nil
}

func (m *mockReferenceStore) CountSectors(ctx context.Context) (int, error) {
	return len(m.sectors), nil
}
