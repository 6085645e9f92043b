// Package analysis turns raw article text into structured market
// analysis via a text-generation model.
package analysis

import (
	"context"
	"time"

	"github.com/bobmcallan/foresight/internal/common"
	"github.com/bobmcallan/foresight/internal/interfaces"
	"github.com/bobmcallan/foresight/internal/models"
)

// Service implements the AnalysisService interface
type Service struct {
	genai     interfaces.GenAIClient
	reference interfaces.ReferenceStore
	logger    *common.Logger
}

// NewService creates a new analysis service
func NewService(genai interfaces.GenAIClient, reference interfaces.ReferenceStore, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		genai:     genai,
		reference: reference,
		logger:    logger,
	}
}

// ModelName returns the name of the underlying generation model.
func (s *Service) ModelName() string {
	return s.genai.ModelName()
}

// AnalyzeArticle runs the analysis prompt over an article. Generation
// or parse failures yield a neutral fallback analysis, never an error:
// the caller must still mark the article analyzed.
func (s *Service) AnalyzeArticle(ctx context.Context, title, content string) *models.ArticleAnalysis {
	s.logger.Info().Str("title", title).Msg("Analyzing article")

	sectors, err := s.reference.ListSectors(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to load sector taxonomy for prompt")
	}

	prompt := buildAnalysisPrompt(title, content, sectors)

	response, err := s.genai.GenerateContent(ctx, prompt)
	if err != nil {
		s.logger.Error().Err(err).Str("title", title).Msg("Failed to analyze article")
		return fallbackAnalysis()
	}

	result := parseAnalysisResponse(response)

	s.logger.Info().
		Str("title", title).
		Str("sentiment", string(result.Sentiment)).
		Int("companies", len(result.Companies)).
		Int("predictions", len(result.Predictions)).
		Msg("Article analyzed")

	return result
}

// ExtractEvents runs the calendar-event prompt. companyTickers maps
// resolved company names to tickers for this article; articleDate
// anchors relative date resolution.
func (s *Service) ExtractEvents(ctx context.Context, title, content string, companyTickers map[string]string, articleDate time.Time) []models.ExtractedEvent {
	prompt := buildEventExtractionPrompt(title, content, companyTickers, articleDate)

	response, err := s.genai.GenerateContent(ctx, prompt)
	if err != nil {
		s.logger.Warn().Err(err).Str("title", title).Msg("Failed to extract events")
		return nil
	}

	events := parseEventResponse(response)
	s.logger.Info().Str("title", title).Int("events", len(events)).Msg("Extracted calendar events")

	return events
}

// MapIndustryToSectors maps a free-text industry label onto the sector
// taxonomy, returning zero to three codes. Empty on any failure.
func (s *Service) MapIndustryToSectors(ctx context.Context, industry string) []string {
	if industry == "" {
		return nil
	}

	sectors, err := s.reference.ListSectors(ctx)
	if err != nil || len(sectors) == 0 {
		return nil
	}

	prompt := buildIndustryMappingPrompt(industry, sectors)

	response, err := s.genai.GenerateContent(ctx, prompt)
	if err != nil {
		s.logger.Warn().Err(err).Str("industry", industry).Msg("Failed to map industry to sectors")
		return nil
	}

	codes := parseSectorCodes(response)

	// Keep only codes that exist in the taxonomy.
	known := make(map[string]bool, len(sectors))
	for _, sector := range sectors {
		known[sector.Code] = true
	}
	valid := make([]string, 0, len(codes))
	for _, code := range codes {
		if known[code] {
			valid = append(valid, code)
		}
	}

	return valid
}

var _ interfaces.AnalysisService = (*Service)(nil)
