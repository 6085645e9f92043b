package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/foresight/internal/models"
)

// StorageManager aggregates the persistent stores behind a single
// connection lifecycle.
type StorageManager interface {
	Articles() ArticleStore
	Companies() CompanyStore
	Reference() ReferenceStore
	Predictions() PredictionStore
	Events() EventStore
	Close() error
}

// ArticleStore persists processed articles. External ids are the
// canonical dedup key; URLs are unique as a secondary guard.
type ArticleStore interface {
	GetByExternalID(ctx context.Context, externalID string) (*models.Article, error)
	GetByURL(ctx context.Context, url string) (*models.Article, error)
	// ExistingExternalIDs returns the subset of ids already stored.
	ExistingExternalIDs(ctx context.Context, ids []string) (map[string]bool, error)
	Create(ctx context.Context, article *models.Article) error
	Update(ctx context.Context, article *models.Article) error
}

// CompanyStore persists resolved companies keyed by ticker.
type CompanyStore interface {
	GetByTicker(ctx context.Context, ticker string) (*models.Company, error)
	// FindByName matches the stored canonical name case-insensitively.
	FindByName(ctx context.Context, name string) (*models.Company, error)
	Save(ctx context.Context, company *models.Company) error
}

// ReferenceStore holds the country and sector taxonomies.
type ReferenceStore interface {
	GetCountry(ctx context.Context, code string) (*models.Country, error)
	FindCountryByName(ctx context.Context, name string) (*models.Country, error)
	SaveCountry(ctx context.Context, country *models.Country) error
	ListCountries(ctx context.Context) ([]models.Country, error)
	CountCountries(ctx context.Context) (int, error)

	GetSector(ctx context.Context, code string) (*models.Sector, error)
	FindSectorByName(ctx context.Context, name string) (*models.Sector, error)
	SaveSector(ctx context.Context, sector *models.Sector) error
	ListSectors(ctx context.Context) ([]models.Sector, error)
	CountSectors(ctx context.Context) (int, error)
}

// PredictionStore persists predictions extracted from articles.
type PredictionStore interface {
	Create(ctx context.Context, prediction *models.Prediction) error
	ListByArticle(ctx context.Context, articleID string) ([]models.Prediction, error)
}

// EventStore persists upcoming market events, deduplicated on
// (title, date).
type EventStore interface {
	Exists(ctx context.Context, title string, date time.Time) (bool, error)
	Create(ctx context.Context, event *models.MarketEvent) error
	ListUpcoming(ctx context.Context, from time.Time) ([]models.MarketEvent, error)
}

// ArchiveStore writes human-readable artifacts of pipeline output to
// the local filesystem.
type ArchiveStore interface {
	WriteArticle(article *models.Article, analysis *models.ArticleAnalysis) error
	WriteRunSummary(runID string, summary *models.PipelineSummary) error
}
