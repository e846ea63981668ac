package domain

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

type ReviewRepository interface {
	// Write paths
	SeedBanks(ctx context.Context, banks []Bank) error
	InsertRawReviews(ctx context.Context, rs []RawReview) error
	InsertReviews(ctx context.Context, rs []Review) error

	// Read paths
	ListBanks(ctx context.Context) ([]Bank, error)
	ListRawReviews(ctx context.Context) ([]RawReview, error)
	ListReviews(ctx context.Context, bankID int64, limit int) ([]Review, error)
	BankSummary(ctx context.Context, bankID int64) (BankSummary, error)
	SentimentBreakdown(ctx context.Context) ([]SentimentSlice, error)
}

// StoreClient fetches raw review payloads from the app store API.
// Payloads are loose maps; the app layer owns the field mapping.
type StoreClient interface {
	AppReviews(ctx context.Context, pkg string, count int) ([]map[string]any, error)
}

// SentimentScorer is the external model capability. It distinguishes only
// POSITIVE and NEGATIVE and may fail arbitrarily; the annotator owns
// truncation and the fallback policy.
type SentimentScorer interface {
	Score(ctx context.Context, text string) (label string, confidence float64, err error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Read models

// BankSummary aggregates one bank's reviews for reporting.
type BankSummary struct {
	BankID      int64
	BankName    string
	AppName     string
	ReviewCount int
	AvgRating   float64
	Positive    int
	Negative    int
	Neutral     int
	Themes      []ThemeCount
}

type ThemeCount struct {
	Theme Theme
	Count int
}

// SentimentSlice is one (bank, label) cell of the overall breakdown.
type SentimentSlice struct {
	BankName string
	Label    SentimentLabel
	Count    int
}
