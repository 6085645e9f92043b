package models

import (
	"errors"
	"strings"
	"time"
)

// PredictionScope is the category of thing a prediction targets.
type PredictionScope string

const (
	ScopeCompany     PredictionScope = "COMPANY"
	ScopeMultiTicker PredictionScope = "MULTI_TICKER"
	ScopeSector      PredictionScope = "SECTOR"
	ScopeCountry     PredictionScope = "COUNTRY"
)

// ParseScope maps a raw scope string onto a PredictionScope. Legacy values
// from older prompt revisions collapse onto SECTOR; anything else defaults
// to COMPANY.
func ParseScope(raw string) PredictionScope {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(ScopeCompany):
		return ScopeCompany
	case string(ScopeMultiTicker):
		return ScopeMultiTicker
	case string(ScopeSector):
		return ScopeSector
	case string(ScopeCountry):
		return ScopeCountry
	case "ASSET_CLASS", "MACRO_THEME":
		return ScopeSector
	default:
		return ScopeCompany
	}
}

// Direction is the predicted market movement sign.
type Direction string

const (
	DirectionBullish  Direction = "BULLISH"
	DirectionBearish  Direction = "BEARISH"
	DirectionNeutral  Direction = "NEUTRAL"
	DirectionMixed    Direction = "MIXED"
	DirectionVolatile Direction = "VOLATILE"
)

// ParseDirection maps a raw string onto a Direction, defaulting to NEUTRAL.
func ParseDirection(raw string) Direction {
	switch Direction(strings.ToUpper(strings.TrimSpace(raw))) {
	case DirectionBullish:
		return DirectionBullish
	case DirectionBearish:
		return DirectionBearish
	case DirectionMixed:
		return DirectionMixed
	case DirectionVolatile:
		return DirectionVolatile
	default:
		return DirectionNeutral
	}
}

// TimeHorizon is the predicted timeframe bucket.
type TimeHorizon string

const (
	HorizonShortTerm TimeHorizon = "SHORT_TERM"
	HorizonMidTerm   TimeHorizon = "MID_TERM"
	HorizonLongTerm  TimeHorizon = "LONG_TERM"
)

// ParseTimeHorizon maps a raw string onto a TimeHorizon, defaulting to SHORT_TERM.
func ParseTimeHorizon(raw string) TimeHorizon {
	switch TimeHorizon(strings.ToUpper(strings.TrimSpace(raw))) {
	case HorizonMidTerm:
		return HorizonMidTerm
	case HorizonLongTerm:
		return HorizonLongTerm
	default:
		return HorizonShortTerm
	}
}

// PredictionTarget is the scope-dependent target set of a prediction.
// Exactly one variant exists per scope so a prediction can never carry
// target fields that its scope does not use.
type PredictionTarget interface {
	Scope() PredictionScope
}

// CompanyTarget targets a single verified company.
type CompanyTarget struct {
	Ticker string `json:"ticker"`
}

func (CompanyTarget) Scope() PredictionScope { return ScopeCompany }

// MultiTickerTarget targets several verified companies.
type MultiTickerTarget struct {
	Tickers []string `json:"tickers"`
}

func (MultiTickerTarget) Scope() PredictionScope { return ScopeMultiTicker }

// SectorTarget targets one or more sectors, in the named countries.
type SectorTarget struct {
	SectorCodes  []string `json:"sector_codes"`
	CountryCodes []string `json:"country_codes,omitempty"`
}

func (SectorTarget) Scope() PredictionScope { return ScopeSector }

// CountryTarget targets one or more country economies, optionally with
// specific affected sectors.
type CountryTarget struct {
	CountryCodes []string `json:"country_codes"`
	SectorCodes  []string `json:"sector_codes,omitempty"`
}

func (CountryTarget) Scope() PredictionScope { return ScopeCountry }

var (
	// ErrNoVerifiedTarget is returned when a company-scoped prediction
	// would end up with zero verified company references.
	ErrNoVerifiedTarget = errors.New("prediction has no verified company target")
)

// Prediction is a forward-looking market call derived from one article.
type Prediction struct {
	ID          string      `json:"id,omitempty"`
	ArticleID   string      `json:"article_id"`
	Direction   Direction   `json:"direction"`
	TimeHorizon TimeHorizon `json:"time_horizon"`
	Confidence  int         `json:"confidence"` // 0..100
	Rationale   string      `json:"rationale,omitempty"`
	Evidence    []string    `json:"evidence,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`

	Target PredictionTarget `json:"-"`
}

// Scope returns the scope carried by the prediction's target.
func (p *Prediction) Scope() PredictionScope {
	if p.Target == nil {
		return ScopeCompany
	}
	return p.Target.Scope()
}

// CompanyTickers returns the verified company references of the target,
// empty for sector/country scopes.
func (p *Prediction) CompanyTickers() []string {
	switch t := p.Target.(type) {
	case CompanyTarget:
		return []string{t.Ticker}
	case MultiTickerTarget:
		return t.Tickers
	default:
		return nil
	}
}

// SectorCodes returns the sector references of the target, if any.
func (p *Prediction) SectorCodes() []string {
	switch t := p.Target.(type) {
	case SectorTarget:
		return t.SectorCodes
	case CountryTarget:
		return t.SectorCodes
	default:
		return nil
	}
}

// CountryCodes returns the country references of the target, if any.
func (p *Prediction) CountryCodes() []string {
	switch t := p.Target.(type) {
	case SectorTarget:
		return t.CountryCodes
	case CountryTarget:
		return t.CountryCodes
	default:
		return nil
	}
}

// ClampConfidence bounds a raw confidence value to the valid 0..100 range.
func ClampConfidence(confidence int) int {
	if confidence < 0 {
		return 0
	}
	if confidence > 100 {
		return 100
	}
	return confidence
}

// NewCompanyPrediction builds a COMPANY-scoped prediction. The ticker must
// belong to an already-verified company; an empty ticker is rejected.
func NewCompanyPrediction(articleID, ticker string) (*Prediction, error) {
	if ticker == "" {
		return nil, ErrNoVerifiedTarget
	}
	return newPrediction(articleID, CompanyTarget{Ticker: ticker}), nil
}

// NewMultiTickerPrediction builds a MULTI_TICKER-scoped prediction from the
// verified subset of resolved tickers. At least one ticker is required.
func NewMultiTickerPrediction(articleID string, tickers []string) (*Prediction, error) {
	if len(tickers) == 0 {
		return nil, ErrNoVerifiedTarget
	}
	return newPrediction(articleID, MultiTickerTarget{Tickers: tickers}), nil
}

// NewSectorPrediction builds a SECTOR-scoped prediction.
func NewSectorPrediction(articleID string, sectorCodes, countryCodes []string) *Prediction {
	return newPrediction(articleID, SectorTarget{SectorCodes: sectorCodes, CountryCodes: countryCodes})
}

// NewCountryPrediction builds a COUNTRY-scoped prediction.
func NewCountryPrediction(articleID string, countryCodes, sectorCodes []string) *Prediction {
	return newPrediction(articleID, CountryTarget{CountryCodes: countryCodes, SectorCodes: sectorCodes})
}

func newPrediction(articleID string, target PredictionTarget) *Prediction {
	return &Prediction{
		ArticleID:   articleID,
		Direction:   DirectionNeutral,
		TimeHorizon: HorizonShortTerm,
		Confidence:  50,
		CreatedAt:   time.Now(),
		Target:      target,
	}
}
