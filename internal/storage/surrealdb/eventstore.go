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

// EventStore persists market events. The case-insensitive (title, date)
// dedup key is the record id, so duplicates collapse structurally.
type EventStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewEventStore(db *surrealdb.DB, logger *common.Logger) *EventStore {
	return &EventStore{db: db, logger: logger}
}

func (s *EventStore) Exists(ctx context.Context, title string, date time.Time) (bool, error) {
	rid := surrealmodels.NewRecordID("market_event", models.EventDedupKey(title, date))
	event, err := surrealdb.Select[models.MarketEvent](ctx, s.db, rid)
	if err != nil {
		return false, fmt.Errorf("failed to check event existence: %w", err)
	}
	return event != nil && event.Title != "", nil
}

func (s *EventStore) Create(ctx context.Context, event *models.MarketEvent) error {
	sql := "UPSERT $rid CONTENT $data"
	vars := map[string]any{
		"rid":  surrealmodels.NewRecordID("market_event", event.DedupKey()),
		"data": event,
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.MarketEvent](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save market event after retries: %w", lastErr)
}

func (s *EventStore) ListUpcoming(ctx context.Context, from time.Time) ([]models.MarketEvent, error) {
	sql := "SELECT * FROM market_event WHERE date >= $from ORDER BY date"
	vars := map[string]any{"from": from}

	results, err := surrealdb.Query[[]models.MarketEvent](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming events: %w", err)
	}
	if results != nil && len(*results) > 0 {
		return (*results)[0].Result, nil
	}
	return nil, nil
}
