package models

import "time"

// Company is a verified, exchange-listed public company. Ticker is the
// canonical key; a company record is only ever created after symbol
// verification, never from unverified free text.
type Company struct {
	Ticker      string    `json:"ticker"`
	Name        string    `json:"name"`
	Exchange    string    `json:"exchange,omitempty"`
	Description string    `json:"description,omitempty"`
	LogoURL     string    `json:"logo_url,omitempty"`
	WebURL      string    `json:"web_url,omitempty"`
	MarketCap   float64   `json:"market_cap,omitempty"`
	IPODate     string    `json:"ipo_date,omitempty"` // YYYY-MM-DD
	CountryCode string    `json:"country_code,omitempty"`
	SectorCodes []string  `json:"sector_codes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Country is a small reference record keyed by ISO-like code.
type Country struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Region string `json:"region,omitempty"`
}

// Sector is one entry of the economy-sector taxonomy, keyed by code.
type Sector struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// SymbolMatch is one ranked candidate returned by the symbol-search API.
type SymbolMatch struct {
	Ticker         string `json:"symbol"`
	InstrumentName string `json:"instrument_name"`
	Exchange       string `json:"exchange"`
	InstrumentType string `json:"instrument_type"`
	Country        string `json:"country"`
}

// CompanyProfile is the enrichment payload from the company-profile source.
type CompanyProfile struct {
	Industry  string  `json:"industry,omitempty"`
	LogoURL   string  `json:"logo_url,omitempty"`
	WebURL    string  `json:"web_url,omitempty"`
	MarketCap float64 `json:"market_cap,omitempty"`
	IPODate   string  `json:"ipo_date,omitempty"`
	Country   string  `json:"country,omitempty"`
	Currency  string  `json:"currency,omitempty"`
}
