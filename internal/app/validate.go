package app

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"bankpulse/internal/domain"
)

// Validator gates raw reviews into clean ones. Cleaning order is fixed:
// missingness gate, dedup by (content, bank_name), date parse, then sort
// newest-first. Dedup therefore keeps the first record in import order, not
// the most recent — KeepMostRecent flips that by parsing dates before dedup.
type Validator struct {
	keepMostRecent bool
}

type ValidatorOption func(*Validator)

// KeepMostRecent makes dedup keep the newest record of each
// (content, bank_name) group instead of the first-imported one.
func KeepMostRecent() ValidatorOption {
	return func(v *Validator) { v.keepMostRecent = true }
}

func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{}
	for _, o := range opts {
		o(v)
	}
	return v
}

// DropStats counts rows removed per cleaning rule. Duplicates counts removals
// under the (content, bank_name) key; the quality report's duplicate metric
// uses content alone and is tracked separately.
type DropStats struct {
	MissingContent int
	MissingScore   int
	MissingDate    int
	Duplicates     int
	BadDates       int
}

func (s DropStats) Dropped() int {
	return s.MissingContent + s.MissingScore + s.MissingDate + s.Duplicates + s.BadDates
}

// CleanBatch applies the gate/dedup/parse/sort sequence. Per-row failures are
// counted, never returned as errors; the output is sorted newest-first.
func (v *Validator) CleanBatch(batch []domain.RawReview) ([]domain.Review, DropStats) {
	var stats DropStats

	gated := make([]domain.RawReview, 0, len(batch))
	for _, r := range batch {
		switch {
		case strings.TrimSpace(deref(r.Content)) == "":
			stats.MissingContent++
		case r.Score == nil:
			stats.MissingScore++
		case strings.TrimSpace(deref(r.At)) == "":
			stats.MissingDate++
		default:
			gated = append(gated, r)
		}
	}

	if v.keepMostRecent {
		rs := parseDates(gated, &stats)
		sortNewestFirst(rs)
		return dedupClean(rs, &stats), stats
	}

	out := parseDates(dedupRaw(gated, &stats), &stats)
	sortNewestFirst(out)
	return out, stats
}

// Report computes the batch health summary without mutating the input. Run it
// on the raw batch for intake health, on the cleaned batch (via RawOf) for
// residual health; the numbers differ and both readings are legitimate.
func (v *Validator) Report(batch []domain.RawReview) domain.QualityReport {
	rep := domain.QualityReport{TotalRows: len(batch), Missing: map[string]int{}}

	seen := make(map[string]struct{}, len(batch))
	missing := map[string]int{}
	for _, r := range batch {
		if c := deref(r.Content); c != "" {
			if _, dup := seen[c]; dup {
				rep.DuplicateRows++
			}
			seen[c] = struct{}{}
			if utf8.RuneCountInString(c) < 10 {
				rep.ShortRows++
			}
		} else {
			missing["content"]++
		}
		if r.Score == nil {
			missing["score"]++
		}
		at := strings.TrimSpace(deref(r.At))
		if at == "" {
			missing["at"]++
			continue
		}
		if t, ok := ParseWhen(at); ok {
			if rep.Oldest == nil || t.Before(*rep.Oldest) {
				tt := t
				rep.Oldest = &tt
			}
			if rep.Newest == nil || t.After(*rep.Newest) {
				tt := t
				rep.Newest = &tt
			}
		}
	}
	for col, n := range missing {
		if n > 0 {
			rep.Missing[col] = n
		}
	}
	if rep.TotalRows > 0 {
		rep.DuplicatePct = float64(rep.DuplicateRows) / float64(rep.TotalRows) * 100
	}
	return rep
}

// RawOf projects clean reviews back to the raw shape so Report can be reused
// for the residual (post-clean) reading.
func RawOf(rs []domain.Review) []domain.RawReview {
	out := make([]domain.RawReview, len(rs))
	for i, r := range rs {
		content, score, at := r.Content, r.Score, r.At.Format(whenLayout)
		out[i] = domain.RawReview{
			Content:  &content,
			Score:    &score,
			At:       &at,
			BankName: r.BankName,
			Source:   r.Source,
			ThumbsUp: r.ThumbsUp,
		}
	}
	return out
}

const whenLayout = "2006-01-02 15:04:05"

var whenLayouts = []string{
	whenLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"Jan 2, 2006",
}

// ParseWhen parses a timestamp-like string leniently. Unparseable input is
// reported as (zero, false), never as an error.
func ParseWhen(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range whenLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseDates(in []domain.RawReview, stats *DropStats) []domain.Review {
	out := make([]domain.Review, 0, len(in))
	for _, r := range in {
		t, ok := ParseWhen(deref(r.At))
		if !ok {
			// coerce-to-null-then-drop: same fate as a missing date
			stats.BadDates++
			continue
		}
		out = append(out, domain.Review{
			BankName: r.BankName,
			Content:  deref(r.Content),
			Score:    *r.Score,
			At:       t,
			Source:   r.Source,
			ThumbsUp: r.ThumbsUp,
		})
	}
	return out
}

func dedupRaw(in []domain.RawReview, stats *DropStats) []domain.RawReview {
	seen := make(map[string]struct{}, len(in))
	out := make([]domain.RawReview, 0, len(in))
	for _, r := range in {
		key := deref(r.Content) + "\x00" + r.BankName
		if _, dup := seen[key]; dup {
			stats.Duplicates++
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}

func dedupClean(in []domain.Review, stats *DropStats) []domain.Review {
	seen := make(map[string]struct{}, len(in))
	out := make([]domain.Review, 0, len(in))
	for _, r := range in {
		key := r.Content + "\x00" + r.BankName
		if _, dup := seen[key]; dup {
			stats.Duplicates++
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}

func sortNewestFirst(rs []domain.Review) {
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].At.After(rs[j].At) })
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
