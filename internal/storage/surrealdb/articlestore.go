package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/foresight/internal/common"
	"github.com/bobmcallan/foresight/internal/models"
)

// ArticleStore persists articles keyed by external id. The feed's
// external id is the record id, so create/update are natural upserts
// and duplicate sightings collapse onto one record.
type ArticleStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewArticleStore(db *surrealdb.DB, logger *common.Logger) *ArticleStore {
	return &ArticleStore{db: db, logger: logger}
}

func (s *ArticleStore) GetByExternalID(ctx context.Context, externalID string) (*models.Article, error) {
	article, err := surrealdb.Select[models.Article](ctx, s.db, surrealmodels.NewRecordID("article", externalID))
	if err != nil {
		return nil, fmt.Errorf("failed to select article: %w", err)
	}
	if article == nil || article.ExternalID == "" {
		return nil, nil
	}
	return article, nil
}

func (s *ArticleStore) GetByURL(ctx context.Context, url string) (*models.Article, error) {
	sql := "SELECT * FROM article WHERE url = $url LIMIT 1"
	vars := map[string]any{"url": url}

	results, err := surrealdb.Query[[]models.Article](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to query article by url: %w", err)
	}
	if results != nil && len(*results) > 0 && len((*results)[0].Result) > 0 {
		return &(*results)[0].Result[0], nil
	}
	return nil, nil
}

func (s *ArticleStore) ExistingExternalIDs(ctx context.Context, ids []string) (map[string]bool, error) {
	if len(ids) == 0 {
		return map[string]bool{}, nil
	}

	sql := "SELECT external_id FROM article WHERE external_id IN $ids"
	vars := map[string]any{"ids": ids}

	type idResult struct {
		ExternalID string `json:"external_id"`
	}

	results, err := surrealdb.Query[[]idResult](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to query existing articles: %w", err)
	}

	existing := make(map[string]bool)
	if results != nil && len(*results) > 0 {
		for _, res := range (*results)[0].Result {
			existing[res.ExternalID] = true
		}
	}
	return existing, nil
}

func (s *ArticleStore) Create(ctx context.Context, article *models.Article) error {
	return s.save(ctx, article)
}

func (s *ArticleStore) Update(ctx context.Context, article *models.Article) error {
	return s.save(ctx, article)
}

func (s *ArticleStore) save(ctx context.Context, article *models.Article) error {
	sql := "UPSERT $rid CONTENT $data"
	vars := map[string]any{
		"rid":  surrealmodels.NewRecordID("article", article.ExternalID),
		"data": article,
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.Article](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save article after retries: %w", lastErr)
}
