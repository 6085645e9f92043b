package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/foresight/internal/common"
	"github.com/bobmcallan/foresight/internal/models"
)

// PredictionStore persists predictions. The scope-dependent target is
// flattened into a record shape; the scope tag decides which reference
// lists are populated when loading.
type PredictionStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewPredictionStore(db *surrealdb.DB, logger *common.Logger) *PredictionStore {
	return &PredictionStore{db: db, logger: logger}
}

// predictionRecord is the stored shape of a prediction.
type predictionRecord struct {
	PredictionID string    `json:"prediction_id"`
	ArticleID    string    `json:"article_id"`
	Scope        string    `json:"scope"`
	Tickers      []string  `json:"tickers,omitempty"`
	SectorCodes  []string  `json:"sector_codes,omitempty"`
	CountryCodes []string  `json:"country_codes,omitempty"`
	Direction    string    `json:"direction"`
	TimeHorizon  string    `json:"time_horizon"`
	Confidence   int       `json:"confidence"`
	Rationale    string    `json:"rationale,omitempty"`
	Evidence     []string  `json:"evidence,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func toRecord(p *models.Prediction) *predictionRecord {
	return &predictionRecord{
		PredictionID: p.ID,
		ArticleID:    p.ArticleID,
		Scope:        string(p.Scope()),
		Tickers:      p.CompanyTickers(),
		SectorCodes:  p.SectorCodes(),
		CountryCodes: p.CountryCodes(),
		Direction:    string(p.Direction),
		TimeHorizon:  string(p.TimeHorizon),
		Confidence:   p.Confidence,
		Rationale:    p.Rationale,
		Evidence:     p.Evidence,
		CreatedAt:    p.CreatedAt,
	}
}

func fromRecord(r *predictionRecord) (*models.Prediction, error) {
	var prediction *models.Prediction
	var err error

	switch models.ParseScope(r.Scope) {
	case models.ScopeCompany:
		ticker := ""
		if len(r.Tickers) > 0 {
			ticker = r.Tickers[0]
		}
		prediction, err = models.NewCompanyPrediction(r.ArticleID, ticker)
	case models.ScopeMultiTicker:
		prediction, err = models.NewMultiTickerPrediction(r.ArticleID, r.Tickers)
	case models.ScopeSector:
		prediction = models.NewSectorPrediction(r.ArticleID, r.SectorCodes, r.CountryCodes)
	case models.ScopeCountry:
		prediction = models.NewCountryPrediction(r.ArticleID, r.CountryCodes, r.SectorCodes)
	}
	if err != nil {
		return nil, err
	}

	prediction.ID = r.PredictionID
	prediction.Direction = models.ParseDirection(r.Direction)
	prediction.TimeHorizon = models.ParseTimeHorizon(r.TimeHorizon)
	prediction.Confidence = models.ClampConfidence(r.Confidence)
	prediction.Rationale = r.Rationale
	prediction.Evidence = r.Evidence
	prediction.CreatedAt = r.CreatedAt

	return prediction, nil
}

func (s *PredictionStore) Create(ctx context.Context, prediction *models.Prediction) error {
	record := toRecord(prediction)

	sql := "UPSERT $rid CONTENT $data"
	vars := map[string]any{
		"rid":  surrealmodels.NewRecordID("prediction", record.PredictionID),
		"data": record,
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]predictionRecord](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save prediction after retries: %w", lastErr)
}

func (s *PredictionStore) ListByArticle(ctx context.Context, articleID string) ([]models.Prediction, error) {
	sql := "SELECT * FROM prediction WHERE article_id = $article_id ORDER BY created_at"
	vars := map[string]any{"article_id": articleID}

	results, err := surrealdb.Query[[]predictionRecord](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}

	var predictions []models.Prediction
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			prediction, err := fromRecord(&(*results)[0].Result[i])
			if err != nil {
				// A stored company prediction with no ticker should not
				// exist; skip rather than fail the whole listing.
				s.logger.Warn().Err(err).Str("article_id", articleID).Msg("Skipping malformed stored prediction")
				continue
			}
			predictions = append(predictions, *prediction)
		}
	}
	return predictions, nil
}
