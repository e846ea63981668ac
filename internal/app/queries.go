package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bankpulse/internal/domain"
)

// QueryService serves the report read models through the cache.
type QueryService struct {
	repo     domain.ReviewRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.ReviewRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *QueryService) ListBanks(ctx context.Context) ([]domain.Bank, error) {
	var out []domain.Bank
	if ok, _ := s.cache.Get(ctx, "banks", &out); ok {
		return out, nil
	}
	bs, err := s.repo.ListBanks(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, "banks", bs, int(s.cacheTTL.Seconds()))
	return bs, nil
}

func (s *QueryService) BankSummary(ctx context.Context, id int64) (domain.BankSummary, error) {
	key := fmt.Sprintf("summary:%d", id)
	var sum domain.BankSummary
	if ok, _ := s.cache.Get(ctx, key, &sum); ok {
		return sum, nil
	}
	sum, err := s.repo.BankSummary(ctx, id)
	if err != nil {
		return domain.BankSummary{}, err
	}
	_ = s.cache.Set(ctx, key, sum, int(s.cacheTTL.Seconds()))
	return sum, nil
}

func (s *QueryService) SentimentBreakdown(ctx context.Context) ([]domain.SentimentSlice, error) {
	var out []domain.SentimentSlice
	if ok, _ := s.cache.Get(ctx, "sentiment:all", &out); ok {
		return out, nil
	}
	out, err := s.repo.SentimentBreakdown(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, "sentiment:all", out, int(s.cacheTTL.Seconds()))
	return out, nil
}

func (s *QueryService) ListBankReviews(ctx context.Context, id int64, limit int) ([]domain.Review, error) {
	key := fmt.Sprintf("reviews:%d:%d", id, limit)
	var out []domain.Review
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	rs, err := s.repo.ListReviews(ctx, id, limit)
	if err != nil {
		return nil, err
	}

	// copy to avoid aliasing the repo's backing array into the cache
	cp := make([]domain.Review, len(rs))
	copy(cp, rs)

	// size guard
	if b, _ := json.Marshal(cp); len(b) < 1_000_000 {
		_ = s.cache.Set(ctx, key, cp, int(s.cacheTTL.Seconds()))
	}
	return cp, nil
}
