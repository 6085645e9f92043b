// Package models defines the core data types for Foresight
package models

import (
	"strings"
	"time"
)

// Sentiment is the overall tone of an analyzed article.
type Sentiment string

const (
	SentimentPositive Sentiment = "POSITIVE"
	SentimentNegative Sentiment = "NEGATIVE"
	SentimentNeutral  Sentiment = "NEUTRAL"
	SentimentMixed    Sentiment = "MIXED"
)

// ParseSentiment maps a raw string onto a Sentiment, defaulting to NEUTRAL
// for anything unrecognized.
func ParseSentiment(raw string) Sentiment {
	switch Sentiment(strings.ToUpper(strings.TrimSpace(raw))) {
	case SentimentPositive:
		return SentimentPositive
	case SentimentNegative:
		return SentimentNegative
	case SentimentMixed:
		return SentimentMixed
	default:
		return SentimentNeutral
	}
}

// Article is a single news article tracked through the pipeline.
// ExternalID is the feed's stable identifier and the primary dedup key;
// URL is also unique. Mentioned* hold resolved reference keys (tickers,
// country codes, sector codes), not free text.
type Article struct {
	ExternalID    string    `json:"external_id"`
	Title         string    `json:"title"`
	URL           string    `json:"url"`
	Description   string    `json:"description,omitempty"`
	PublishedAt   time.Time `json:"published_at,omitempty"`
	Content       string    `json:"content,omitempty"`
	Summary       string    `json:"summary,omitempty"`
	Sentiment     Sentiment `json:"sentiment,omitempty"`
	AnalyzedAt    time.Time `json:"analyzed_at,omitempty"`
	AnalysisModel string    `json:"analysis_model,omitempty"`
	Scraped       bool      `json:"scraped"`
	Analyzed      bool      `json:"analyzed"`

	MentionedCompanies []string `json:"mentioned_companies,omitempty"` // tickers
	MentionedCountries []string `json:"mentioned_countries,omitempty"` // country codes
	MentionedSectors   []string `json:"mentioned_sectors,omitempty"`   // sector codes

	CreatedAt time.Time `json:"created_at"`
}

// FeedItem is one normalized entry from a syndication feed.
type FeedItem struct {
	ExternalID  string    `json:"external_id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	PublishedAt time.Time `json:"published_at,omitempty"`
}
