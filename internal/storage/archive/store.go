// Package archive writes human-readable artifacts of pipeline output
// to the local filesystem, one text file per article plus a summary
// file per run.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/bobmcallan/foresight/internal/common"
	"github.com/bobmcallan/foresight/internal/interfaces"
	"github.com/bobmcallan/foresight/internal/models"
)

const (
	timestampLayout = "2006-01-02_15-04-05"
	maxTitleLength  = 50
	dirPermissions  = 0o755
	filePermissions = 0o644
)

var titleSanitizeExpr = regexp.MustCompile(`[^a-zA-Z0-9\s-]`)

// Store writes article and run-summary files under a base directory.
type Store struct {
	basePath string
	logger   *common.Logger
}

// NewStore creates an archive store rooted at basePath, creating the
// directory if needed.
func NewStore(basePath string, logger *common.Logger) (*Store, error) {
	if err := os.MkdirAll(basePath, dirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create archive directory %s: %w", basePath, err)
	}
	return &Store{
		basePath: basePath,
		logger:   logger,
	}, nil
}

// WriteArticle writes one article, with its analysis when present, as a
// plain-text file named by scrape time and sanitized title.
func (s *Store) WriteArticle(article *models.Article, analysis *models.ArticleAnalysis) error {
	filename := fmt.Sprintf("%s_%s.txt", time.Now().Format(timestampLayout), sanitizeTitle(article.Title))
	path := filepath.Join(s.basePath, filename)

	var b strings.Builder
	separator := strings.Repeat("=", 80)

	b.WriteString(separator + "\n")
	b.WriteString("TITLE: " + article.Title + "\n")
	b.WriteString("URL: " + article.URL + "\n")
	b.WriteString("SCRAPED AT: " + time.Now().Format(time.RFC3339) + "\n")
	b.WriteString(separator + "\n\n")

	if analysis != nil {
		b.WriteString("=== LLM ANALYSIS ===\n")
		b.WriteString("SUMMARY: " + analysis.Summary + "\n")
		b.WriteString("SENTIMENT: " + string(analysis.Sentiment) + "\n")
		if len(analysis.Companies) > 0 {
			b.WriteString("COMPANIES: " + strings.Join(analysis.Companies, ", ") + "\n")
		}
		if len(analysis.Countries) > 0 {
			b.WriteString("COUNTRIES: " + strings.Join(analysis.Countries, ", ") + "\n")
		}
		if len(analysis.Sectors) > 0 {
			b.WriteString("SECTORS: " + strings.Join(analysis.Sectors, ", ") + "\n")
		}
		for i, p := range analysis.Predictions {
			b.WriteString(fmt.Sprintf("PREDICTION %d: [%s] %s %s (confidence %d)\n",
				i+1, p.Scope, strings.Join(p.Targets, ","), p.Direction, p.Confidence))
		}
		b.WriteString("\n")
	}

	b.WriteString(article.Content)

	if err := os.WriteFile(path, []byte(b.String()), filePermissions); err != nil {
		return fmt.Errorf("failed to write article archive %s: %w", path, err)
	}

	s.logger.Debug().Str("path", path).Msg("Archived article")
	return nil
}

// WriteRunSummary writes the aggregate outcome of one batch run.
func (s *Store) WriteRunSummary(runID string, summary *models.PipelineSummary) error {
	filename := fmt.Sprintf("%s_SUMMARY.txt", time.Now().Format(timestampLayout))
	path := filepath.Join(s.basePath, filename)

	rate := 0.0
	if summary.Total > 0 {
		rate = float64(summary.Succeeded) / float64(summary.Total) * 100
	}

	var b strings.Builder
	b.WriteString("RUN: " + runID + "\n")
	b.WriteString("COMPLETED AT: " + time.Now().Format(time.RFC3339) + "\n\n")
	b.WriteString(fmt.Sprintf("TOTAL:     %d\n", summary.Total))
	b.WriteString(fmt.Sprintf("SUCCEEDED: %d\n", summary.Succeeded))
	b.WriteString(fmt.Sprintf("SKIPPED:   %d\n", summary.Skipped))
	b.WriteString(fmt.Sprintf("FAILED:    %d\n", summary.Failed))
	b.WriteString(fmt.Sprintf("SUCCESS RATE: %.1f%%\n", rate))

	if err := os.WriteFile(path, []byte(b.String()), filePermissions); err != nil {
		return fmt.Errorf("failed to write run summary %s: %w", path, err)
	}

	s.logger.Debug().Str("path", path).Str("run_id", runID).Msg("Archived run summary")
	return nil
}

// sanitizeTitle converts an article title into a safe filename fragment.
func sanitizeTitle(title string) string {
	clean := titleSanitizeExpr.ReplaceAllString(title, "")
	clean = strings.Join(strings.Fields(clean), "_")
	clean = strings.ToLower(clean)
	if len(clean) > maxTitleLength {
		clean = clean[:maxTitleLength]
	}
	if clean == "" {
		clean = "untitled"
	}
	return clean
}

var _ interfaces.ArchiveStore = (*Store)(nil)
