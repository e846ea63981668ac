package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"bankpulse/internal/app"
	"bankpulse/internal/domain"
)

// fakeScorer records the last text it was handed and replays a canned answer.
type fakeScorer struct {
	label string
	conf  float64
	err   error

	lastText string
	calls    int
}

func (f *fakeScorer) Score(_ context.Context, text string) (string, float64, error) {
	f.calls++
	f.lastText = text
	return f.label, f.conf, f.err
}

func TestAnnotate_Passthrough(t *testing.T) {
	ctx := context.Background()

	s := &fakeScorer{label: "POSITIVE", conf: 0.93}
	label, conf := app.NewAnnotator(s, 0).Annotate(ctx, "love this app")
	if label != domain.SentimentPositive || conf != 0.93 {
		t.Fatalf("got (%s, %v)", label, conf)
	}

	s = &fakeScorer{label: "negative", conf: 0.71} // casing from the model is not trusted
	label, conf = app.NewAnnotator(s, 0).Annotate(ctx, "hate this app")
	if label != domain.SentimentNegative || conf != 0.71 {
		t.Fatalf("got (%s, %v)", label, conf)
	}
}

func TestAnnotate_FallbackOnError(t *testing.T) {
	s := &fakeScorer{err: errors.New("boom")}
	label, conf := app.NewAnnotator(s, 0).Annotate(context.Background(), "whatever")
	if label != domain.SentimentNeutral || conf != 0.5 {
		t.Fatalf("expected (NEUTRAL, 0.5), got (%s, %v)", label, conf)
	}
}

func TestAnnotate_FallbackOnBadOutput(t *testing.T) {
	ctx := context.Background()
	cases := []fakeScorer{
		{label: "POSITIVE", conf: 1.5},  // out of range
		{label: "NEGATIVE", conf: -0.1}, // out of range
		{label: "MIXED", conf: 0.8},     // unknown label
		{label: "NEUTRAL", conf: 0.9},   // the model never legitimately says this
	}
	for i := range cases {
		label, conf := app.NewAnnotator(&cases[i], 0).Annotate(ctx, "text")
		if label != domain.SentimentNeutral || conf != 0.5 {
			t.Errorf("case %d: expected sentinel, got (%s, %v)", i, label, conf)
		}
	}
}

func TestAnnotate_TruncatesRuneSafe(t *testing.T) {
	s := &fakeScorer{label: "POSITIVE", conf: 0.9}
	a := app.NewAnnotator(s, 0)

	long := strings.Repeat("መ", 600) // multi-byte runes
	a.Annotate(context.Background(), long)

	if got := utf8.RuneCountInString(s.lastText); got != app.DefaultMaxScoreChars {
		t.Fatalf("expected %d runes, got %d", app.DefaultMaxScoreChars, got)
	}
	if !utf8.ValidString(s.lastText) {
		t.Fatalf("truncation split a rune")
	}

	short := "short enough"
	a.Annotate(context.Background(), short)
	if s.lastText != short {
		t.Fatalf("short text must pass through untouched, got %q", s.lastText)
	}
}

func TestAnnotate_CustomLimit(t *testing.T) {
	s := &fakeScorer{label: "NEGATIVE", conf: 0.6}
	a := app.NewAnnotator(s, 10)
	a.Annotate(context.Background(), "0123456789abcdef")
	if s.lastText != "0123456789" {
		t.Fatalf("got %q", s.lastText)
	}
}
