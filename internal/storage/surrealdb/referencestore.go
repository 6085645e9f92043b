package surrealdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/foresight/internal/common"
	"github.com/bobmcallan/foresight/internal/models"
)

// ReferenceStore persists the country and sector taxonomies. Codes are
// the record ids.
type ReferenceStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewReferenceStore(db *surrealdb.DB, logger *common.Logger) *ReferenceStore {
	return &ReferenceStore{db: db, logger: logger}
}

// --- Countries ---

func (s *ReferenceStore) GetCountry(ctx context.Context, code string) (*models.Country, error) {
	country, err := surrealdb.Select[models.Country](ctx, s.db, surrealmodels.NewRecordID("country", strings.ToUpper(code)))
	if err != nil {
		return nil, fmt.Errorf("failed to select country: %w", err)
	}
	if country == nil || country.Code == "" {
		return nil, nil
	}
	return country, nil
}

func (s *ReferenceStore) FindCountryByName(ctx context.Context, name string) (*models.Country, error) {
	sql := "SELECT * FROM country WHERE string::lowercase(name) = $name LIMIT 1"
	vars := map[string]any{"name": strings.ToLower(strings.TrimSpace(name))}

	results, err := surrealdb.Query[[]models.Country](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to query country by name: %w", err)
	}
	if results != nil && len(*results) > 0 && len((*results)[0].Result) > 0 {
		return &(*results)[0].Result[0], nil
	}
	return nil, nil
}

func (s *ReferenceStore) SaveCountry(ctx context.Context, country *models.Country) error {
	country.Code = strings.ToUpper(country.Code)
	return s.save(ctx, "country", country.Code, country)
}

func (s *ReferenceStore) ListCountries(ctx context.Context) ([]models.Country, error) {
	results, err := surrealdb.Query[[]models.Country](ctx, s.db, "SELECT * FROM country ORDER BY code", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}
	if results != nil && len(*results) > 0 {
		return (*results)[0].Result, nil
	}
	return nil, nil
}

func (s *ReferenceStore) CountCountries(ctx context.Context) (int, error) {
	return s.count(ctx, "country")
}

// --- Sectors ---

func (s *ReferenceStore) GetSector(ctx context.Context, code string) (*models.Sector, error) {
	sector, err := surrealdb.Select[models.Sector](ctx, s.db, surrealmodels.NewRecordID("sector", strings.ToUpper(code)))
	if err != nil {
		return nil, fmt.Errorf("failed to select sector: %w", err)
	}
	if sector == nil || sector.Code == "" {
		return nil, nil
	}
	return sector, nil
}

func (s *ReferenceStore) FindSectorByName(ctx context.Context, name string) (*models.Sector, error) {
	sql := "SELECT * FROM sector WHERE string::lowercase(name) = $name LIMIT 1"
	vars := map[string]any{"name": strings.ToLower(strings.TrimSpace(name))}

	results, err := surrealdb.Query[[]models.Sector](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to query sector by name: %w", err)
	}
	if results != nil && len(*results) > 0 && len((*results)[0].Result) > 0 {
		return &(*results)[0].Result[0], nil
	}
	return nil, nil
}

func (s *ReferenceStore) SaveSector(ctx context.Context, sector *models.Sector) error {
	sector.Code = strings.ToUpper(sector.Code)
	return s.save(ctx, "sector", sector.Code, sector)
}

func (s *ReferenceStore) ListSectors(ctx context.Context) ([]models.Sector, error) {
	results, err := surrealdb.Query[[]models.Sector](ctx, s.db, "SELECT * FROM sector ORDER BY code", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list sectors: %w", err)
	}
	if results != nil && len(*results) > 0 {
		return (*results)[0].Result, nil
	}
	return nil, nil
}

func (s *ReferenceStore) CountSectors(ctx context.Context) (int, error) {
	return s.count(ctx, "sector")
}

// --- helpers ---

func (s *ReferenceStore) save(ctx context.Context, table, id string, data any) error {
	sql := "UPSERT $rid CONTENT $data"
	vars := map[string]any{
		"rid":  surrealmodels.NewRecordID(table, id),
		"data": data,
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[any](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save %s record after retries: %w", table, lastErr)
}

func (s *ReferenceStore) count(ctx context.Context, table string) (int, error) {
	type countResult struct {
		Count int `json:"count"`
	}

	sql := fmt.Sprintf("SELECT count() AS count FROM %s GROUP ALL", table)
	results, err := surrealdb.Query[[]countResult](ctx, s.db, sql, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s records: %w", table, err)
	}
	if results != nil && len(*results) > 0 && len((*results)[0].Result) > 0 {
		return (*results)[0].Result[0].Count, nil
	}
	return 0, nil
}
