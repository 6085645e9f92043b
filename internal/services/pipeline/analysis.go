package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/foresight/internal/models"
)

// applyAnalysis resolves the analysis output into verified entities,
// updates the article record, and persists the surviving predictions.
// Returns the resolved company name → ticker map for event extraction.
func (s *Service) applyAnalysis(ctx context.Context, article *models.Article, analysis *models.ArticleAnalysis) (map[string]string, error) {
	article.Summary = analysis.Summary
	article.Sentiment = models.ParseSentiment(string(analysis.Sentiment))
	article.AnalyzedAt = time.Now()
	article.AnalysisModel = s.analysis.ModelName()
	article.Analyzed = true

	// Mentioned companies: free-text names through the resolver.
	// Unverifiable names are silently dropped.
	tickerMap := make(map[string]string)
	article.MentionedCompanies = nil
	for _, name := range analysis.Companies {
		company, err := s.resolver.ResolveCompany(ctx, name)
		if err != nil {
			return nil, err
		}
		if company == nil {
			continue
		}
		if _, ok := tickerMap[company.Name]; !ok {
			tickerMap[company.Name] = company.Ticker
		}
		article.MentionedCompanies = appendUnique(article.MentionedCompanies, company.Ticker)
	}

	article.MentionedCountries = nil
	for _, name := range analysis.Countries {
		if country := s.findCountry(ctx, name); country != nil {
			article.MentionedCountries = appendUnique(article.MentionedCountries, country.Code)
		}
	}

	article.MentionedSectors = nil
	for _, code := range analysis.Sectors {
		if sector := s.findSector(ctx, code); sector != nil {
			article.MentionedSectors = appendUnique(article.MentionedSectors, sector.Code)
		}
	}

	predictions := 0
	for _, item := range analysis.Predictions {
		prediction, err := s.buildPrediction(ctx, article, item)
		if err != nil {
			return nil, err
		}
		if prediction == nil {
			continue
		}
		if err := s.storage.Predictions().Create(ctx, prediction); err != nil {
			return nil, err
		}
		predictions++
	}

	if err := s.storage.Articles().Update(ctx, article); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("title", article.Title).
		Int("companies", len(article.MentionedCompanies)).
		Int("predictions", predictions).
		Msg("Analysis applied")

	return tickerMap, nil
}

// buildPrediction converts one raw predicted item into a persistable
// prediction, or nil when scope-specific validation drops it.
func (s *Service) buildPrediction(ctx context.Context, article *models.Article, item models.PredictedItem) (*models.Prediction, error) {
	var prediction *models.Prediction

	switch models.ParseScope(item.Scope) {
	case models.ScopeCompany:
		if len(item.Targets) == 0 {
			return nil, nil
		}
		company, err := s.resolver.ResolveCompany(ctx, item.Targets[0])
		if err != nil {
			return nil, err
		}
		if company == nil {
			s.logger.Info().Str("target", item.Targets[0]).Msg("Dropping company prediction, target unverified")
			return nil, nil
		}
		prediction, _ = models.NewCompanyPrediction(article.ExternalID, company.Ticker)

	case models.ScopeMultiTicker:
		var tickers []string
		for _, target := range item.Targets {
			company, err := s.resolver.ResolveCompany(ctx, target)
			if err != nil {
				return nil, err
			}
			if company != nil {
				tickers = appendUnique(tickers, company.Ticker)
			}
		}
		if len(tickers) == 0 {
			s.logger.Info().Msg("Dropping multi-ticker prediction, no target verified")
			return nil, nil
		}
		prediction, _ = models.NewMultiTickerPrediction(article.ExternalID, tickers)

	case models.ScopeSector:
		var sectorCodes []string
		for _, raw := range append(append([]string{}, item.Targets...), item.Sectors...) {
			if sector := s.findSector(ctx, raw); sector != nil {
				sectorCodes = appendUnique(sectorCodes, sector.Code)
			}
		}

		var countryCodes []string
		for _, raw := range item.Countries {
			if country := s.findCountry(ctx, raw); country != nil {
				countryCodes = appendUnique(countryCodes, country.Code)
			}
		}
		// The model often omits countries for sector calls; fall back
		// to the article's own mentioned countries.
		if len(countryCodes) == 0 {
			countryCodes = append(countryCodes, article.MentionedCountries...)
		}

		prediction = models.NewSectorPrediction(article.ExternalID, sectorCodes, countryCodes)

	case models.ScopeCountry:
		var countryCodes []string
		for _, raw := range append(append([]string{}, item.Targets...), item.Countries...) {
			if country := s.findCountry(ctx, raw); country != nil {
				countryCodes = appendUnique(countryCodes, country.Code)
			}
		}

		var sectorCodes []string
		for _, raw := range item.Sectors {
			if sector := s.findSector(ctx, raw); sector != nil {
				sectorCodes = appendUnique(sectorCodes, sector.Code)
			}
		}

		prediction = models.NewCountryPrediction(article.ExternalID, countryCodes, sectorCodes)
	}

	if prediction == nil {
		return nil, nil
	}

	prediction.ID = uuid.NewString()
	prediction.Direction = models.ParseDirection(item.Direction)
	prediction.TimeHorizon = models.ParseTimeHorizon(item.TimeHorizon)
	prediction.Confidence = models.ClampConfidence(item.Confidence)
	prediction.Rationale = item.Rationale
	prediction.Evidence = item.Evidence

	return prediction, nil
}

// findCountry tries code first (e.g. "US"), then name, case-insensitive.
func (s *Service) findCountry(ctx context.Context, nameOrCode string) *models.Country {
	nameOrCode = strings.TrimSpace(nameOrCode)
	if nameOrCode == "" {
		return nil
	}
	if country, err := s.storage.Reference().GetCountry(ctx, strings.ToUpper(nameOrCode)); err == nil && country != nil {
		return country
	}
	if country, err := s.storage.Reference().FindCountryByName(ctx, nameOrCode); err == nil && country != nil {
		return country
	}
	return nil
}

// findSector tries code first (e.g. "TECH"), then name, case-insensitive.
func (s *Service) findSector(ctx context.Context, codeOrName string) *models.Sector {
	codeOrName = strings.TrimSpace(codeOrName)
	if codeOrName == "" {
		return nil
	}
	if sector, err := s.storage.Reference().GetSector(ctx, strings.ToUpper(codeOrName)); err == nil && sector != nil {
		return sector
	}
	if sector, err := s.storage.Reference().FindSectorByName(ctx, codeOrName); err == nil && sector != nil {
		return sector
	}
	return nil
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}
