package resolver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/foresight/internal/models"
)

// maxDescriptionLength caps the stored company description.
const maxDescriptionLength = 1000

// enrichCompany builds a company record from a verified symbol match,
// merging best-effort enrichment from the profile and encyclopedia
// sources. Each source failing independently leaves its fields empty;
// none of them blocks company creation.
func (s *Service) enrichCompany(ctx context.Context, match *models.SymbolMatch) *models.Company {
	company := &models.Company{
		Ticker:    strings.ToUpper(match.Ticker),
		Name:      match.InstrumentName,
		Exchange:  match.Exchange,
		CreatedAt: time.Now(),
	}

	countryName := match.Country

	if s.profile != nil {
		profile, err := s.profile.GetProfile(ctx, company.Ticker)
		if err != nil {
			s.logger.Warn().Err(err).Str("ticker", company.Ticker).Msg("Profile enrichment failed")
		} else if profile != nil {
			company.LogoURL = profile.LogoURL
			company.WebURL = profile.WebURL
			company.MarketCap = profile.MarketCap
			company.IPODate = profile.IPODate
			// Profile countries are ISO codes, better typed than the
			// search result's free-text country name.
			if profile.Country != "" {
				countryName = profile.Country
			}

			if s.analysis != nil && profile.Industry != "" {
				company.SectorCodes = s.analysis.MapIndustryToSectors(ctx, profile.Industry)
			}
		}
	}

	if s.wiki != nil {
		summary, err := s.wiki.GetSummary(ctx, company.Name)
		if err != nil {
			s.logger.Warn().Err(err).Str("name", company.Name).Msg("Encyclopedia enrichment failed")
		} else if summary != "" {
			company.Description = truncate(summary, maxDescriptionLength)
		}
	}
	if company.Description == "" {
		company.Description = fmt.Sprintf("%s is a publicly traded company listed on %s.", company.Name, company.Exchange)
	}

	company.CountryCode = s.resolveCountryCode(ctx, countryName)

	return company
}

// resolveCountryCode maps a country name or code from the external
// sources to a stored country, creating one lazily for unknown codes.
func (s *Service) resolveCountryCode(ctx context.Context, nameOrCode string) string {
	nameOrCode = strings.TrimSpace(nameOrCode)
	if nameOrCode == "" {
		return ""
	}

	code := strings.ToUpper(nameOrCode)
	if country, err := s.reference.GetCountry(ctx, code); err == nil && country != nil {
		return country.Code
	}

	if country, err := s.reference.FindCountryByName(ctx, nameOrCode); err == nil && country != nil {
		return country.Code
	}

	// Unknown two-letter codes get a lazy reference record; longer
	// free text is left unmapped rather than minting a junk code.
	if len(code) != 2 {
		return ""
	}
	country := &models.Country{Code: code, Name: nameOrCode}
	if err := s.reference.SaveCountry(ctx, country); err != nil {
		s.logger.Warn().Err(err).Str("code", code).Msg("Failed to create country")
		return ""
	}
	return code
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
