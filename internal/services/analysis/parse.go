package analysis

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/bobmcallan/foresight/internal/models"
)

// flexInt tolerates confidence values sent as numbers or strings.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var num int
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexInt(num)
		return nil
	}
	var fl float64
	if err := json.Unmarshal(data, &fl); err == nil {
		*f = flexInt(int(fl))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(s, "%"))); err == nil {
			*f = flexInt(n)
			return nil
		}
	}
	*f = flexInt(50)
	return nil
}

// analysisEnvelope mirrors the model's analysis JSON.
type analysisEnvelope struct {
	Summary     string            `json:"summary"`
	Sentiment   string            `json:"sentiment"`
	Companies   []string          `json:"companies"`
	Countries   []string          `json:"countries"`
	Sectors     []string          `json:"sectors"`
	Predictions []json.RawMessage `json:"predictions"`
}

// predictionEnvelope mirrors a single prediction entry. The time
// horizon key has appeared in both camelCase and snake_case.
type predictionEnvelope struct {
	Scope            string   `json:"scope"`
	Targets          []string `json:"targets"`
	Countries        []string `json:"countries"`
	Sectors          []string `json:"sectors"`
	Direction        string   `json:"direction"`
	TimeHorizon      string   `json:"timeHorizon"`
	TimeHorizonSnake string   `json:"time_horizon"`
	Confidence       *flexInt `json:"confidence"`
	Rationale        string   `json:"rationale"`
	Evidence         []string `json:"evidence"`
}

// fallbackAnalysis is returned when the envelope cannot be parsed at
// all; the article still gets marked analyzed to avoid reprocessing.
func fallbackAnalysis() *models.ArticleAnalysis {
	return &models.ArticleAnalysis{
		Summary:   "Analysis failed",
		Sentiment: models.SentimentNeutral,
	}
}

// parseAnalysisResponse parses the model's JSON, dropping individual
// malformed predictions rather than failing the whole analysis.
func parseAnalysisResponse(response string) *models.ArticleAnalysis {
	cleaned := stripCodeFences(response)

	var envelope analysisEnvelope
	if err := json.Unmarshal([]byte(cleaned), &envelope); err != nil {
		return fallbackAnalysis()
	}

	result := &models.ArticleAnalysis{
		Summary:   envelope.Summary,
		Sentiment: models.ParseSentiment(envelope.Sentiment),
		Companies: envelope.Companies,
		Countries: envelope.Countries,
		Sectors:   envelope.Sectors,
	}

	for _, raw := range envelope.Predictions {
		var pred predictionEnvelope
		if err := json.Unmarshal(raw, &pred); err != nil {
			continue
		}

		confidence := 50
		if pred.Confidence != nil {
			confidence = int(*pred.Confidence)
		}

		horizon := pred.TimeHorizon
		if horizon == "" {
			horizon = pred.TimeHorizonSnake
		}

		result.Predictions = append(result.Predictions, models.PredictedItem{
			Scope:       pred.Scope,
			Targets:     pred.Targets,
			Countries:   pred.Countries,
			Sectors:     pred.Sectors,
			Direction:   pred.Direction,
			TimeHorizon: horizon,
			Confidence:  models.ClampConfidence(confidence),
			Rationale:   pred.Rationale,
			Evidence:    pred.Evidence,
		})
	}

	return result
}

// eventEnvelope mirrors a single extracted calendar event.
type eventEnvelope struct {
	Title         string `json:"title"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Type          string `json:"type"`
	Relevance     string `json:"relevance"`
	CompanyTicker string `json:"companyTicker"`
	Sector        string `json:"sector"`
}

// parseEventResponse parses the model's event array; any failure
// yields an empty list.
func parseEventResponse(response string) []models.ExtractedEvent {
	cleaned := stripCodeFences(response)

	var envelopes []eventEnvelope
	if err := json.Unmarshal([]byte(cleaned), &envelopes); err != nil {
		return nil
	}

	events := make([]models.ExtractedEvent, 0, len(envelopes))
	for _, e := range envelopes {
		if e.Title == "" || e.Date == "" {
			continue
		}

		ticker := e.CompanyTicker
		if strings.EqualFold(ticker, "null") {
			ticker = ""
		}

		eventTime := e.Time
		if eventTime == "" {
			eventTime = "TBD"
		}

		events = append(events, models.ExtractedEvent{
			Title:         e.Title,
			Date:          e.Date,
			Time:          eventTime,
			Type:          e.Type,
			Relevance:     e.Relevance,
			CompanyTicker: ticker,
			Sector:        e.Sector,
		})
	}

	return events
}

// parseSectorCodes parses the industry-mapping response into codes.
func parseSectorCodes(response string) []string {
	cleaned := stripCodeFences(response)

	var codes []string
	if err := json.Unmarshal([]byte(cleaned), &codes); err != nil {
		return nil
	}

	result := make([]string, 0, len(codes))
	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code != "" {
			result = append(result, code)
		}
	}
	if len(result) > 3 {
		result = result[:3]
	}
	return result
}

// stripCodeFences removes markdown code-fence wrappers models add
// despite instructions.
func stripCodeFences(response string) string {
	cleaned := strings.TrimSpace(response)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}
