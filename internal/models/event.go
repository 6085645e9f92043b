package models

import (
	"fmt"
	"strings"
	"time"
)

// EventType classifies a calendar event.
type EventType string

const (
	EventEarnings   EventType = "EARNINGS"
	EventEconomic   EventType = "ECONOMIC"
	EventDividend   EventType = "DIVIDEND"
	EventConference EventType = "CONFERENCE"
)

// ParseEventType maps a raw string onto an EventType, defaulting to ECONOMIC.
func ParseEventType(raw string) EventType {
	switch EventType(strings.ToUpper(strings.TrimSpace(raw))) {
	case EventEarnings:
		return EventEarnings
	case EventDividend:
		return EventDividend
	case EventConference:
		return EventConference
	default:
		return EventEconomic
	}
}

// EventRelevance grades expected market impact.
type EventRelevance string

const (
	RelevanceHigh   EventRelevance = "HIGH"
	RelevanceMedium EventRelevance = "MEDIUM"
	RelevanceLow    EventRelevance = "LOW"
)

// ParseRelevance maps a raw string onto an EventRelevance, defaulting to MEDIUM.
func ParseRelevance(raw string) EventRelevance {
	switch EventRelevance(strings.ToUpper(strings.TrimSpace(raw))) {
	case RelevanceHigh:
		return RelevanceHigh
	case RelevanceLow:
		return RelevanceLow
	default:
		return RelevanceMedium
	}
}

// MarketEvent is a dated calendar event extracted from an article.
// Events are deduplicated by (title, date), case-insensitive on title.
type MarketEvent struct {
	ID            string         `json:"id,omitempty"`
	Title         string         `json:"title"`
	Date          time.Time      `json:"date"`
	EventTime     string         `json:"event_time,omitempty"` // free text, e.g. "8:30 AM ET" or "TBD"
	Type          EventType      `json:"type"`
	Relevance     EventRelevance `json:"relevance"`
	Sector        string         `json:"sector,omitempty"`
	CompanyTicker string         `json:"company_ticker,omitempty"` // empty when unlinked
	ArticleID     string         `json:"article_id,omitempty"`     // source article external id
	CreatedAt     time.Time      `json:"created_at"`
}

// DedupKey is the canonical (title, date) dedup key for a market event.
func (e *MarketEvent) DedupKey() string {
	return EventDedupKey(e.Title, e.Date)
}

// EventDedupKey builds the canonical dedup key from a title and date.
func EventDedupKey(title string, date time.Time) string {
	return fmt.Sprintf("%s|%s", strings.ToLower(strings.TrimSpace(title)), date.Format("2006-01-02"))
}
