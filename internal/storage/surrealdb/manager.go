// Package surrealdb implements the persistence layer on SurrealDB.
package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"

	"github.com/bobmcallan/foresight/internal/common"
	"github.com/bobmcallan/foresight/internal/interfaces"
)

// Manager implements interfaces.StorageManager using SurrealDB.
type Manager struct {
	db     *surrealdb.DB
	logger *common.Logger

	articleStore    *ArticleStore
	companyStore    *CompanyStore
	referenceStore  *ReferenceStore
	predictionStore *PredictionStore
	eventStore      *EventStore
}

// NewManager creates a new StorageManager connected to SurrealDB.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	ctx := context.Background()

	db, err := surrealdb.New(config.Storage.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if _, err := db.SignIn(ctx, map[string]interface{}{
		"user": config.Storage.Username,
		"pass": config.Storage.Password,
	}); err != nil {
		return nil, fmt.Errorf("failed to sign in to SurrealDB: %w", err)
	}

	if err := db.Use(ctx, config.Storage.Namespace, config.Storage.Database); err != nil {
		return nil, fmt.Errorf("failed to select namespace/database: %w", err)
	}

	// Define tables up front (SurrealDB v3 errors on querying tables
	// that don't exist yet).
	tables := []string{"article", "company", "country", "sector", "prediction", "market_event"}
	for _, table := range tables {
		sql := fmt.Sprintf("DEFINE TABLE IF NOT EXISTS %s SCHEMALESS", table)
		if _, err := surrealdb.Query[any](ctx, db, sql, nil); err != nil {
			return nil, fmt.Errorf("failed to define table %s: %w", table, err)
		}
	}

	// External id, ticker, country/sector code, and the event dedup key
	// are all encoded in record ids; URL needs its own unique index.
	indexes := []string{
		"DEFINE INDEX IF NOT EXISTS article_url_idx ON TABLE article COLUMNS url UNIQUE",
	}
	for _, sql := range indexes {
		if _, err := surrealdb.Query[any](ctx, db, sql, nil); err != nil {
			return nil, fmt.Errorf("failed to define index: %w", err)
		}
	}

	m := &Manager{
		db:     db,
		logger: logger,
	}

	m.articleStore = NewArticleStore(db, logger)
	m.companyStore = NewCompanyStore(db, logger)
	m.referenceStore = NewReferenceStore(db, logger)
	m.predictionStore = NewPredictionStore(db, logger)
	m.eventStore = NewEventStore(db, logger)

	logger.Info().
		Str("address", config.Storage.Address).
		Str("namespace", config.Storage.Namespace).
		Str("database", config.Storage.Database).
		Msg("SurrealDB storage manager initialized")

	return m, nil
}

func (m *Manager) Articles() interfaces.ArticleStore {
	return m.articleStore
}

func (m *Manager) Companies() interfaces.CompanyStore {
	return m.companyStore
}

func (m *Manager) Reference() interfaces.ReferenceStore {
	return m.referenceStore
}

func (m *Manager) Predictions() interfaces.PredictionStore {
	return m.predictionStore
}

func (m *Manager) Events() interfaces.EventStore {
	return m.eventStore
}

// Close closes the database connection.
func (m *Manager) Close() error {
	return m.db.Close(context.Background())
}

var _ interfaces.StorageManager = (*Manager)(nil)
