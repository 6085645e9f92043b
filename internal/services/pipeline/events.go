package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/foresight/internal/models"
)

// extractAndSaveEvents runs event extraction for an article and
// persists the qualifying events. All failures here are logged and
// swallowed: events are derived data, never worth failing an item.
func (s *Service) extractAndSaveEvents(ctx context.Context, article *models.Article, content string, tickerMap map[string]string, articleDate time.Time) {
	extracted := s.analysis.ExtractEvents(ctx, article.Title, content, tickerMap, articleDate)
	if len(extracted) == 0 {
		return
	}

	today := time.Now().Truncate(24 * time.Hour)

	for _, raw := range extracted {
		date, err := time.Parse("2006-01-02", raw.Date)
		if err != nil {
			s.logger.Warn().Str("date", raw.Date).Str("event", raw.Title).Msg("Invalid event date, skipping")
			continue
		}

		// Only future events are worth keeping.
		if !date.After(today) {
			s.logger.Debug().Str("event", raw.Title).Str("date", raw.Date).Msg("Skipping past event")
			continue
		}

		exists, err := s.storage.Events().Exists(ctx, raw.Title, date)
		if err != nil {
			s.logger.Warn().Err(err).Str("event", raw.Title).Msg("Event dedup check failed")
			continue
		}
		if exists {
			s.logger.Debug().Str("event", raw.Title).Str("date", raw.Date).Msg("Skipping duplicate event")
			continue
		}

		// An unknown ticker keeps the event, just unlinked.
		ticker := ""
		if raw.CompanyTicker != "" {
			company, err := s.storage.Companies().GetByTicker(ctx, strings.ToUpper(raw.CompanyTicker))
			if err == nil && company != nil {
				ticker = company.Ticker
			} else {
				s.logger.Debug().Str("ticker", raw.CompanyTicker).Str("event", raw.Title).Msg("Ticker not stored, saving event without company link")
			}
		}

		// Resolve the free-text sector label, falling back to the raw
		// label when nothing in the taxonomy matches.
		sectorName := raw.Sector
		if raw.Sector != "" {
			if sector := s.findSectorByNameOrCode(ctx, raw.Sector); sector != nil {
				sectorName = sector.Name
			}
		}

		event := &models.MarketEvent{
			ID:            uuid.NewString(),
			Title:         raw.Title,
			Date:          date,
			EventTime:     raw.Time,
			Type:          models.ParseEventType(raw.Type),
			Relevance:     models.ParseRelevance(raw.Relevance),
			Sector:        sectorName,
			CompanyTicker: ticker,
			ArticleID:     article.ExternalID,
			CreatedAt:     time.Now(),
		}

		if err := s.storage.Events().Create(ctx, event); err != nil {
			s.logger.Warn().Err(err).Str("event", raw.Title).Msg("Failed to save market event")
			continue
		}

		s.logger.Info().
			Str("event", event.Title).
			Str("type", string(event.Type)).
			Str("date", raw.Date).
			Msg("Saved market event")
	}
}

// findSectorByNameOrCode tries name first for event labels (the model
// emits display names here), then code.
func (s *Service) findSectorByNameOrCode(ctx context.Context, raw string) *models.Sector {
	if sector, err := s.storage.Reference().FindSectorByName(ctx, raw); err == nil && sector != nil {
		return sector
	}
	if sector, err := s.storage.Reference().GetSector(ctx, strings.ToUpper(raw)); err == nil && sector != nil {
		return sector
	}
	return nil
}
