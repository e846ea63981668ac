package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"bankpulse/internal/adapters/observability"
	"bankpulse/internal/domain"
)

// Pipeline sequences validate → annotate → classify → resolve over a batch
// and persists the resolved rows. Per-record failures are absorbed by the
// stage policies; only infrastructure errors (seeding, listing, inserting)
// come back from Run.
type Pipeline struct {
	repo      domain.ReviewRepository
	validator *Validator
	annotator *Annotator
	themes    *ThemeClassifier
	banks     []domain.Bank
	aliases   map[string]string
}

func NewPipeline(
	repo domain.ReviewRepository,
	v *Validator,
	a *Annotator,
	t *ThemeClassifier,
	banks []domain.Bank,
	aliases map[string]string,
) *Pipeline {
	return &Pipeline{repo: repo, validator: v, annotator: a, themes: t, banks: banks, aliases: aliases}
}

// RunResult is the audit view of one batch. Reviews holds every clean record,
// including unmapped ones; only records with a BankID were persisted.
type RunResult struct {
	RawReport     domain.QualityReport
	CleanReport   domain.QualityReport
	Drops         DropStats
	Cleaned       int
	Persisted     int
	Unmapped      int
	UnmappedNames map[string]int
	Fallbacks     int // sentiment fallback sentinels
	Reviews       []domain.Review
}

func (p *Pipeline) Run(ctx context.Context, batch []domain.RawReview) (RunResult, error) {
	res := RunResult{
		RawReport:     p.validator.Report(batch),
		UnmappedNames: map[string]int{},
	}

	clean, drops := p.validator.CleanBatch(batch)
	res.Drops = drops
	res.Cleaned = len(clean)
	res.CleanReport = p.validator.Report(RawOf(clean))
	observability.ObservePipeline("clean", "kept", len(clean))
	observability.ObservePipeline("clean", "dropped", drops.Dropped())

	if err := p.repo.SeedBanks(ctx, p.banks); err != nil {
		return res, fmt.Errorf("seed banks: %w", err)
	}
	banks, err := p.repo.ListBanks(ctx)
	if err != nil {
		return res, fmt.Errorf("list banks: %w", err)
	}
	resolver := NewBankResolver(banks, p.aliases)

	persist := make([]domain.Review, 0, len(clean))
	for i := range clean {
		r := &clean[i]
		r.Sentiment, r.SentimentScore = p.annotator.Annotate(ctx, r.Content)
		if r.Sentiment == domain.SentimentNeutral {
			res.Fallbacks++
			observability.ObservePipeline("sentiment", "fallback", 1)
		}
		r.Theme = p.themes.Classify(Normalize(r.Content))

		if id, ok := resolver.Resolve(r.BankName); ok {
			id := id
			r.BankID = &id
			persist = append(persist, *r)
			continue
		}
		// kept in memory and in the run result, excluded from the write path
		res.Unmapped++
		res.UnmappedNames[r.BankName]++
	}
	res.Reviews = clean
	observability.ObservePipeline("resolve", "unmapped", res.Unmapped)

	if len(persist) > 0 {
		if err := p.repo.InsertReviews(ctx, persist); err != nil {
			return res, fmt.Errorf("insert reviews: %w", err)
		}
	}
	res.Persisted = len(persist)
	observability.ObservePipeline("persist", "written", res.Persisted)

	for name, n := range res.UnmappedNames {
		log.Warn().Str("bank_name", name).Int("rows", n).Msg("bank name unmapped, rows skipped from write")
	}
	return res, nil
}
