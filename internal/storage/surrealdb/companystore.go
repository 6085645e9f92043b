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

// CompanyStore persists companies with the ticker as record id, making
// ticker uniqueness structural rather than an index.
type CompanyStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewCompanyStore(db *surrealdb.DB, logger *common.Logger) *CompanyStore {
	return &CompanyStore{db: db, logger: logger}
}

func (s *CompanyStore) GetByTicker(ctx context.Context, ticker string) (*models.Company, error) {
	ticker = strings.ToUpper(ticker)
	company, err := surrealdb.Select[models.Company](ctx, s.db, surrealmodels.NewRecordID("company", ticker))
	if err != nil {
		return nil, fmt.Errorf("failed to select company: %w", err)
	}
	if company == nil || company.Ticker == "" {
		return nil, nil
	}
	return company, nil
}

func (s *CompanyStore) FindByName(ctx context.Context, name string) (*models.Company, error) {
	sql := "SELECT * FROM company WHERE string::lowercase(name) = $name LIMIT 1"
	vars := map[string]any{"name": strings.ToLower(strings.TrimSpace(name))}

	results, err := surrealdb.Query[[]models.Company](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to query company by name: %w", err)
	}
	if results != nil && len(*results) > 0 && len((*results)[0].Result) > 0 {
		return &(*results)[0].Result[0], nil
	}
	return nil, nil
}

func (s *CompanyStore) Save(ctx context.Context, company *models.Company) error {
	company.Ticker = strings.ToUpper(company.Ticker)

	sql := "UPSERT $rid CONTENT $data"
	vars := map[string]any{
		"rid":  surrealmodels.NewRecordID("company", company.Ticker),
		"data": company,
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.Company](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save company after retries: %w", lastErr)
}
