package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/foresight/internal/models"
)

// buildAnalysisPrompt produces the single analysis prompt. The sector
// taxonomy is rendered fresh per call so newly created sectors are
// visible to the model immediately.
func buildAnalysisPrompt(title, content string, sectors []models.Sector) string {
	return fmt.Sprintf(`You are a market analyst. Analyze this article and produce predictions about future stock/market movements.

TITLE: %s
CONTENT: %s

AVAILABLE SECTOR CODES: %s

=== OUTPUT RULES ===

Return ONLY valid JSON. No text before or after.

=== SCOPE SELECTION LOGIC ===

Ask yourself: "Who is DIRECTLY affected by this news?"

1. Is a SPECIFIC COMPANY the main subject?
   → Use scope: "COMPANY", targets: ["Full Company Name"]
   → News about earnings, layoffs, products, lawsuits, management of ONE company = COMPANY scope

2. Are MULTIPLE SPECIFIC COMPANIES directly named and affected?
   → Use scope: "MULTI_TICKER", targets: ["Company Name 1", "Company Name 2", ...]

3. Is an ENTIRE INDUSTRY affected (not just one company)?
   → Use scope: "SECTOR", targets: ["SECTOR_CODE"]
   → Regulation affecting all companies in industry, industry-wide trends, commodity price changes
   → One company's problems do NOT make the whole sector bearish

4. Is a COUNTRY'S ECONOMY affected (trade policy, sanctions, political instability)?
   → Use scope: "COUNTRY", targets: ["Country Name"]
   → Optionally include sectors: ["AFFECTED_SECTOR"] if specific industries impacted

=== CRITICAL LOGIC RULES ===

RULE 1: Company news → Company prediction
- If article is primarily about ONE company (layoffs, earnings, strategy change), predict for THAT COMPANY
- Do NOT generalize to sector unless article explicitly discusses industry-wide impact

RULE 2: Distinguish company vs sector impact
- One company's internal changes (layoffs, restructuring, strategy shift) affect THAT COMPANY, not the entire sector
- Industry-wide regulation, policy changes, or commodity price shifts affect the SECTOR
- Ask: "Would competitors be affected the same way?" If no → COMPANY scope. If yes → SECTOR scope.

RULE 3: Direction must match the target
- If predicting for a company and news is bad for that company → that company BEARISH
- If predicting for a sector, ask: "Is this bad for ALL companies in this sector?" If not, use COMPANY scope instead.

RULE 4: Pivot/shift news requires nuance
- When a company shifts strategy from one area to another, consider separate predictions for each impact
- The abandoned area may face bearish pressure, the new focus area may see bullish sentiment

RULE 5: No prediction is valid
- If article is retrospective, opinion, or has no actionable forward signal → empty predictions array

=== CONFIDENCE GUIDELINES ===

- 75-85%%: Direct, clear causal link between news and expected market movement
- 60-74%%: Reasonable inference but outcome could go either way
- Below 60%%: Speculative, use sparingly

=== JSON STRUCTURE ===

{
  "summary": "2-4 sentence factual summary",
  "companies": ["Apple Inc", "Microsoft Corporation"],
  "countries": ["Country1"],
  "sectors": ["SECTOR_CODE1"],
  "sentiment": "POSITIVE | NEGATIVE | NEUTRAL | MIXED",
  "predictions": [
    {
      "scope": "COMPANY | MULTI_TICKER | SECTOR | COUNTRY",
      "targets": ["TARGET"],
      "countries": [],
      "sectors": [],
      "direction": "BULLISH | BEARISH | NEUTRAL | MIXED | VOLATILE",
      "timeHorizon": "SHORT_TERM | MID_TERM | LONG_TERM",
      "confidence": 70,
      "rationale": "Why this target will move in this direction",
      "evidence": ["Specific fact from article"]
    }
  ]
}

=== FIELD RULES ===

- companies: Full official company names mentioned in the article. Do NOT return stock tickers.
- countries: Countries mentioned by name
- sectors: Use CODES from the available sector list above, not full names
- predictions.targets:
  - COMPANY scope → single full company name (e.g. "Apple Inc", NOT "AAPL")
  - MULTI_TICKER scope → multiple full company names
  - SECTOR scope → sector codes from available list
  - COUNTRY scope → country names
- predictions.countries: REQUIRED for SECTOR scope. Always list the countries where this sector is affected. Never leave empty for SECTOR scope.
- predictions.sectors: Only for COUNTRY scope if specific sectors affected`, title, content, formatSectors(sectors))
}

// formatSectors renders the taxonomy as "CODE (Name: Description), ..."
func formatSectors(sectors []models.Sector) string {
	parts := make([]string, 0, len(sectors))
	for _, s := range sectors {
		entry := s.Code + " (" + s.Name
		if s.Description != "" {
			entry += ": " + s.Description
		}
		entry += ")"
		parts = append(parts, entry)
	}
	return strings.Join(parts, ", ")
}

// buildEventExtractionPrompt produces the focused calendar-event prompt.
func buildEventExtractionPrompt(title, content string, companyTickers map[string]string, articleDate time.Time) string {
	today := time.Now().Format("2006-01-02")
	articleDateStr := today
	if !articleDate.IsZero() {
		articleDateStr = articleDate.Format("2006-01-02")
	}

	var tickerLines strings.Builder
	if len(companyTickers) == 0 {
		tickerLines.WriteString("(none identified)")
	} else {
		for name, ticker := range companyTickers {
			tickerLines.WriteString("  " + name + " → " + ticker + "\n")
		}
	}

	return fmt.Sprintf(`You are extracting scheduled financial calendar events from a news article.

TODAY: %s
ARTICLE DATE: %s

COMPANIES IN THIS ARTICLE (Name → Ticker):
%s

EXTRACT ONLY these event types when a specific future date is mentioned:
- EARNINGS: Quarterly/annual earnings reports
- DIVIDEND: Dividend payment or ex-dividend dates
- CONFERENCE: Investor days, analyst days, shareholder meetings
- ECONOMIC: Central bank meetings, major data releases (CPI, GDP, NFP, PMI, FOMC, etc.)

RULES:
- Only include events dated AFTER today (%s)
- Resolve relative dates ("next Tuesday", "this Friday") using the ARTICLE DATE
- Skip events with no clear specific date
- relevance: HIGH = major market-moving, MEDIUM = sector-relevant, LOW = minor

Respond ONLY with a JSON array. Return [] if nothing qualifies.

[
  {
    "title": "Short descriptive name",
    "date": "YYYY-MM-DD",
    "time": "H:MM AM/PM ET or TBD",
    "type": "EARNINGS | ECONOMIC | DIVIDEND | CONFERENCE",
    "relevance": "HIGH | MEDIUM | LOW",
    "companyTicker": "TICKER or null",
    "sector": "Technology | Finance | Energy | Healthcare | Consumer | Industrial | etc"
  }
]

ARTICLE TITLE: %s
ARTICLE: %s`, today, articleDateStr, tickerLines.String(), today, title, content)
}

// buildIndustryMappingPrompt maps a free-text industry label onto the
// fixed sector-code taxonomy.
func buildIndustryMappingPrompt(industry string, sectors []models.Sector) string {
	codes := make([]string, 0, len(sectors))
	for _, s := range sectors {
		codes = append(codes, s.Code)
	}

	return fmt.Sprintf(`You are a financial data assistant. Map the industry label below onto the available sector codes.

INDUSTRY: %s

AVAILABLE SECTOR CODES: %s

Respond ONLY with a JSON array of 1-3 sector codes from the available list, best match first.
If nothing fits, return [].

Example: ["TECH", "SOFTWARE"]`, industry, strings.Join(codes, ", "))
}
