package models

// ArticleAnalysis is the structured result of one LLM analysis pass over an
// article. Sentiment is normalized at parse time; the remaining fields hold
// raw model output: company names (not tickers), country names, sector
// codes. Resolution to verified entities happens later.
type ArticleAnalysis struct {
	Summary     string          `json:"summary"`
	Sentiment   Sentiment       `json:"sentiment"`
	Companies   []string        `json:"companies,omitempty"`
	Countries   []string        `json:"countries,omitempty"`
	Sectors     []string        `json:"sectors,omitempty"`
	Predictions []PredictedItem `json:"predictions,omitempty"`
}

// PredictedItem is one raw prediction entry from the analysis response,
// before entity resolution and scope-specific validation.
type PredictedItem struct {
	Scope       string   `json:"scope"`
	Targets     []string `json:"targets,omitempty"`
	Countries   []string `json:"countries,omitempty"`
	Sectors     []string `json:"sectors,omitempty"`
	Direction   string   `json:"direction"`
	TimeHorizon string   `json:"time_horizon"`
	Confidence  int      `json:"confidence"`
	Rationale   string   `json:"rationale,omitempty"`
	Evidence    []string `json:"evidence,omitempty"`
}

// ExtractedEvent is one raw calendar-event candidate from the event
// extraction pass, before date validation and deduplication.
type ExtractedEvent struct {
	Title         string `json:"title"`
	Date          string `json:"date"` // YYYY-MM-DD
	Time          string `json:"time,omitempty"`
	Type          string `json:"type,omitempty"`
	Relevance     string `json:"relevance,omitempty"`
	CompanyTicker string `json:"company_ticker,omitempty"`
	Sector        string `json:"sector,omitempty"`
}

// PipelineSummary aggregates the outcome of one batch run.
type PipelineSummary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}
