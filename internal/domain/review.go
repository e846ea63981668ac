package domain

import "time"

// SentimentLabel is the three-value sentiment enum. The external model only
// ever emits POSITIVE or NEGATIVE; NEUTRAL is the annotator's fallback
// sentinel for "scoring failed / unknown".
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "POSITIVE"
	SentimentNegative SentimentLabel = "NEGATIVE"
	SentimentNeutral  SentimentLabel = "NEUTRAL"
)

// Theme is the topical category assigned by the keyword classifier.
type Theme string

const (
	ThemeAuthentication Theme = "Authentication"
	ThemePerformance    Theme = "Performance"
	ThemeStability      Theme = "Stability"
	ThemeTransactions   Theme = "Transactions"
	ThemeUserExperience Theme = "User Experience"
	ThemeGeneral        Theme = "General"
)

// RawReview is one scraped app-store review, exactly as collected.
// Nothing is guaranteed: any field may be missing.
type RawReview struct {
	ReviewID string
	Content  *string
	Score    *int
	At       *string // timestamp-like text, unparsed
	BankName string
	Source   *string
	ThumbsUp int
	RawJSON  []byte // full store payload
}

// Review is a validated, enriched review ready for persistence.
// After CleanBatch: Content is non-empty, Score present, At parsed.
// BankID is nil exactly when the bank name could not be resolved; such rows
// are excluded from the write path but kept in the run result.
type Review struct {
	ID             int64
	BankID         *int64
	BankName       string
	Content        string
	Score          int
	At             time.Time
	Source         *string
	ThumbsUp       int
	Sentiment      SentimentLabel
	SentimentScore float64
	Theme          Theme
}

// QualityReport summarizes batch health. Read-only side artifact; it never
// feeds back into cleaning. DuplicateRows counts repeats of content alone,
// which is deliberately a different key than the (content, bank_name) pair
// the dedup step removes by — the two metrics stay separate.
type QualityReport struct {
	TotalRows     int
	DuplicateRows int
	DuplicatePct  float64
	Missing       map[string]int // column -> null/empty count; only non-zero columns present
	ShortRows     int            // content under 10 characters, spam heuristic
	Oldest        *time.Time
	Newest        *time.Time
}
