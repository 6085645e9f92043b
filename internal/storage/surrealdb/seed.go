package surrealdb

import (
	"context"
	"fmt"

	"github.com/bobmcallan/foresight/internal/models"
)

// seedSectors is the GICS-inspired sector taxonomy plus sub-sectors
// for more granular classification.
var seedSectors = []models.Sector{
	{Code: "TECH", Name: "Technology", Description: "Information technology, software, hardware, semiconductors, and IT services"},
	{Code: "HEALTHCARE", Name: "Healthcare", Description: "Pharmaceuticals, biotechnology, medical devices, and healthcare services"},
	{Code: "FINANCE", Name: "Financial Services", Description: "Banks, insurance, asset management, and financial technology"},
	{Code: "CONSUMER_DISC", Name: "Consumer Discretionary", Description: "Automobiles, retail, apparel, hotels, restaurants, and leisure"},
	{Code: "CONSUMER_STAPLES", Name: "Consumer Staples", Description: "Food, beverages, tobacco, and household products"},
	{Code: "ENERGY", Name: "Energy", Description: "Oil, gas, coal, and renewable energy companies"},
	{Code: "INDUSTRIALS", Name: "Industrials", Description: "Aerospace, defense, machinery, construction, and transportation"},
	{Code: "MATERIALS", Name: "Materials", Description: "Chemicals, metals, mining, and construction materials"},
	{Code: "REAL_ESTATE", Name: "Real Estate", Description: "REITs, real estate development, and property management"},
	{Code: "UTILITIES", Name: "Utilities", Description: "Electric, gas, water utilities, and independent power producers"},
	{Code: "TELECOM", Name: "Telecommunications", Description: "Wireless, wireline, and telecommunications services"},
	{Code: "SEMICONDUCTORS", Name: "Semiconductors", Description: "Semiconductor manufacturing, design, and equipment"},
	{Code: "SOFTWARE", Name: "Software", Description: "Enterprise software, cloud computing, and SaaS"},
	{Code: "E_COMMERCE", Name: "E-Commerce", Description: "Online retail, marketplaces, and digital commerce"},
	{Code: "SOCIAL_MEDIA", Name: "Social Media", Description: "Social networking platforms and digital advertising"},
	{Code: "AUTOMOTIVE", Name: "Automotive", Description: "Vehicle manufacturers, auto parts, and electric vehicles"},
	{Code: "AEROSPACE", Name: "Aerospace & Defense", Description: "Aircraft, defense systems, and space technology"},
	{Code: "BIOTECH", Name: "Biotechnology", Description: "Biotechnology research, drug development, and genomics"},
	{Code: "FINTECH", Name: "Financial Technology", Description: "Digital payments, blockchain, and financial software"},
	{Code: "AI_ML", Name: "Artificial Intelligence", Description: "AI, machine learning, and data analytics companies"},
	{Code: "CLEAN_ENERGY", Name: "Clean Energy", Description: "Solar, wind, and other renewable energy technologies"},
	{Code: "MEDIA", Name: "Media & Entertainment", Description: "Streaming, broadcasting, film, and gaming"},
	{Code: "CRYPTO", Name: "Cryptocurrency", Description: "Cryptocurrency exchanges, blockchain, and digital assets"},
}

// seedCountries covers the markets most news resolves to; further
// countries are created lazily during resolution.
var seedCountries = []models.Country{
	{Code: "US", Name: "United States", Region: "North America"},
	{Code: "CN", Name: "China", Region: "Asia"},
	{Code: "JP", Name: "Japan", Region: "Asia"},
	{Code: "KR", Name: "South Korea", Region: "Asia"},
	{Code: "TW", Name: "Taiwan", Region: "Asia"},
	{Code: "DE", Name: "Germany", Region: "Europe"},
	{Code: "GB", Name: "United Kingdom", Region: "Europe"},
	{Code: "FR", Name: "France", Region: "Europe"},
	{Code: "NL", Name: "Netherlands", Region: "Europe"},
	{Code: "CH", Name: "Switzerland", Region: "Europe"},
	{Code: "IE", Name: "Ireland", Region: "Europe"},
	{Code: "IN", Name: "India", Region: "Asia"},
	{Code: "CA", Name: "Canada", Region: "North America"},
	{Code: "AU", Name: "Australia", Region: "Oceania"},
	{Code: "SG", Name: "Singapore", Region: "Asia"},
	{Code: "HK", Name: "Hong Kong", Region: "Asia"},
	{Code: "IL", Name: "Israel", Region: "Middle East"},
	{Code: "SA", Name: "Saudi Arabia", Region: "Middle East"},
	{Code: "AE", Name: "United Arab Emirates", Region: "Middle East"},
	{Code: "BR", Name: "Brazil", Region: "South America"},
}

// SeedReferenceData initializes the sector and country tables on first
// start. Non-empty tables are left alone so locally added reference
// records survive restarts.
func (m *Manager) SeedReferenceData(ctx context.Context) error {
	sectorCount, err := m.referenceStore.CountSectors(ctx)
	if err != nil {
		return fmt.Errorf("failed to count sectors: %w", err)
	}
	if sectorCount == 0 {
		for i := range seedSectors {
			if err := m.referenceStore.SaveSector(ctx, &seedSectors[i]); err != nil {
				return fmt.Errorf("failed to seed sector %s: %w", seedSectors[i].Code, err)
			}
		}
		m.logger.Info().Int("sectors", len(seedSectors)).Msg("Initialized sector taxonomy")
	} else {
		m.logger.Debug().Msg("Sector taxonomy already initialized")
	}

	countryCount, err := m.referenceStore.CountCountries(ctx)
	if err != nil {
		return fmt.Errorf("failed to count countries: %w", err)
	}
	if countryCount == 0 {
		for i := range seedCountries {
			if err := m.referenceStore.SaveCountry(ctx, &seedCountries[i]); err != nil {
				return fmt.Errorf("failed to seed country %s: %w", seedCountries[i].Code, err)
			}
		}
		m.logger.Info().Int("countries", len(seedCountries)).Msg("Initialized countries")
	} else {
		m.logger.Debug().Msg("Countries already initialized")
	}

	return nil
}
