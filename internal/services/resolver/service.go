// Package resolver verifies free-text company names against a symbol
// database and creates enriched company records.
package resolver

import (
	"context"
	"strings"
	"time"

	"github.com/bobmcallan/foresight/internal/common"
	"github.com/bobmcallan/foresight/internal/interfaces"
	"github.com/bobmcallan/foresight/internal/models"
)

const (
	// maxSearchAttempts bounds the rate-limit retry loop.
	maxSearchAttempts = 3
)

// Service implements the ResolverService interface
type Service struct {
	search    interfaces.SymbolSearchClient
	profile   interfaces.ProfileClient
	wiki      interfaces.EncyclopediaClient
	analysis  interfaces.AnalysisService
	companies interfaces.CompanyStore
	reference interfaces.ReferenceStore
	logger    *common.Logger
}

// NewService creates a new resolver service. profile, wiki, and
// analysis are optional enrichment sources; nil disables each. search
// may also be nil, in which case only already-stored companies resolve.
func NewService(
	search interfaces.SymbolSearchClient,
	profile interfaces.ProfileClient,
	wiki interfaces.EncyclopediaClient,
	analysis interfaces.AnalysisService,
	companies interfaces.CompanyStore,
	reference interfaces.ReferenceStore,
	logger *common.Logger,
) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		search:    search,
		profile:   profile,
		wiki:      wiki,
		analysis:  analysis,
		companies: companies,
		reference: reference,
		logger:    logger,
	}
}

// ResolveCompany verifies a free-text company name. Returns (nil, nil)
// when the name cannot be verified as a listed public company: that is
// an expected negative outcome, not an error.
func (s *Service) ResolveCompany(ctx context.Context, name string) (*models.Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	// Stored-name lookup first: no external call for known companies.
	existing, err := s.companies.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.logger.Debug().Str("name", name).Str("ticker", existing.Ticker).Msg("Company already known")
		return existing, nil
	}

	// No symbol search configured: stored companies still resolve above,
	// but unknown names cannot be verified.
	if s.search == nil {
		s.logger.Debug().Str("name", name).Msg("Symbol search not configured, name unverified")
		return nil, nil
	}

	match := s.lookupTicker(ctx, name)
	if match == nil {
		s.logger.Info().Str("name", name).Msg("No verified public company match")
		return nil, nil
	}

	// A different surface name may have already created this company.
	byTicker, err := s.companies.GetByTicker(ctx, match.Ticker)
	if err != nil {
		return nil, err
	}
	if byTicker != nil {
		return byTicker, nil
	}

	company := s.enrichCompany(ctx, match)

	if err := s.companies.Save(ctx, company); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("name", name).
		Str("ticker", company.Ticker).
		Str("exchange", company.Exchange).
		Msg("Created company")

	return company, nil
}

// lookupTicker queries the symbol search and applies the candidate
// filter chain: common stock, major exchange, name similarity. Rate
// limiting triggers a bounded sleep-and-retry; exhaustion returns nil.
func (s *Service) lookupTicker(ctx context.Context, name string) *models.SymbolMatch {
	for attempt := 1; attempt <= maxSearchAttempts; attempt++ {
		matches, err := s.search.Search(ctx, name)
		if err != nil {
			if rateErr, ok := interfaces.AsRateLimit(err); ok {
				s.logger.Warn().
					Dur("retry_after", rateErr.RetryAfter).
					Int("attempt", attempt).
					Int("max_attempts", maxSearchAttempts).
					Msg("Symbol search rate limited")
				if !sleepCtx(ctx, rateErr.RetryAfter) {
					return nil
				}
				continue
			}
			s.logger.Error().Err(err).Str("name", name).Int("attempt", attempt).Msg("Symbol search failed")
			if attempt == maxSearchAttempts {
				return nil
			}
			continue
		}

		return bestMatch(matches, name, s.logger)
	}
	return nil
}

// bestMatch returns the first ranked candidate that is a common stock
// on a major exchange with a similar enough name.
func bestMatch(matches []models.SymbolMatch, name string, logger *common.Logger) *models.SymbolMatch {
	for _, match := range matches {
		if match.InstrumentType != "Common Stock" {
			continue
		}
		if !isMajorExchange(match.Exchange) {
			continue
		}
		if !IsNameSimilar(name, match.InstrumentName) {
			logger.Debug().
				Str("candidate", match.InstrumentName).
				Str("ticker", match.Ticker).
				Str("query", name).
				Msg("Candidate name too different")
			continue
		}

		m := match
		return &m
	}
	return nil
}

// sleepCtx blocks for d or until ctx is done; false means interrupted.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

var _ interfaces.ResolverService = (*Service)(nil)
