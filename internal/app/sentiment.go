package app

import (
	"context"
	"strings"

	"bankpulse/internal/domain"
)

// DefaultMaxScoreChars bounds the text handed to the sentiment model; it only
// sees the review's prefix.
const DefaultMaxScoreChars = 512

// Annotator wraps the external sentiment capability with input truncation and
// a fallback policy. A scoring failure never aborts the batch.
type Annotator struct {
	scorer   domain.SentimentScorer
	maxChars int
}

func NewAnnotator(s domain.SentimentScorer, maxChars int) *Annotator {
	if maxChars <= 0 {
		maxChars = DefaultMaxScoreChars
	}
	return &Annotator{scorer: s, maxChars: maxChars}
}

// Annotate scores one review. On any scorer error, unknown label, or
// out-of-range confidence it returns the (NEUTRAL, 0.5) sentinel — the model
// itself never emits NEUTRAL, so that label downstream always means the
// scorer was not heard from.
func (a *Annotator) Annotate(ctx context.Context, text string) (domain.SentimentLabel, float64) {
	if rs := []rune(text); len(rs) > a.maxChars {
		text = string(rs[:a.maxChars])
	}
	label, conf, err := a.scorer.Score(ctx, text)
	if err != nil || conf < 0 || conf > 1 {
		return domain.SentimentNeutral, 0.5
	}
	switch l := domain.SentimentLabel(strings.ToUpper(label)); l {
	case domain.SentimentPositive, domain.SentimentNegative:
		return l, conf
	}
	return domain.SentimentNeutral, 0.5
}
