package main

import (
	"context"
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"bankpulse/internal/adapters/observability"
	"bankpulse/internal/adapters/sentiment"
	"bankpulse/internal/app"
	"bankpulse/internal/domain"
	"bankpulse/internal/shared"
	mysqlrepo "bankpulse/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)
	observability.Serve()

	log.Info().
		Str("sentiment", cfg.SentimentBase).
		Bool("dedup_recent", cfg.DedupRecent).
		Msg("pipeline starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	repo := mysqlrepo.New(db)

	scorer, err := sentiment.New(cfg.SentimentBase, 10, cfg.MaxScoreChars)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize sentiment client")
	}

	var vopts []app.ValidatorOption
	if cfg.DedupRecent {
		vopts = append(vopts, app.KeepMostRecent())
	}
	pipe := app.NewPipeline(
		repo,
		app.NewValidator(vopts...),
		app.NewAnnotator(scorer, cfg.MaxScoreChars),
		app.NewThemeClassifier(app.DefaultThemeRules()),
		shared.SeedBanks(),
		shared.BankAliases(),
	)

	raw, err := repo.ListRawReviews(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("load raw reviews failed")
	}
	log.Info().Int("rows", len(raw)).Msg("raw reviews loaded")

	res, err := pipe.Run(ctx, raw)
	if err != nil {
		log.Fatal().Err(err).Msg("pipeline run failed")
	}

	logReport("raw batch health", res.RawReport)
	logReport("clean batch health", res.CleanReport)
	log.Info().
		Int("cleaned", res.Cleaned).
		Int("persisted", res.Persisted).
		Int("unmapped", res.Unmapped).
		Int("sentiment_fallbacks", res.Fallbacks).
		Int("dropped_missing_content", res.Drops.MissingContent).
		Int("dropped_missing_score", res.Drops.MissingScore).
		Int("dropped_missing_date", res.Drops.MissingDate).
		Int("dropped_duplicates", res.Drops.Duplicates).
		Int("dropped_bad_dates", res.Drops.BadDates).
		Msg("pipeline completed")
}

func logReport(msg string, rep domain.QualityReport) {
	e := log.Info().
		Int("total_rows", rep.TotalRows).
		Int("duplicate_rows", rep.DuplicateRows).
		Float64("duplicate_pct", rep.DuplicatePct).
		Int("short_rows", rep.ShortRows)
	for col, n := range rep.Missing {
		e = e.Int("missing_"+col, n)
	}
	if rep.Oldest != nil {
		e = e.Time("oldest", *rep.Oldest)
	}
	if rep.Newest != nil {
		e = e.Time("newest", *rep.Newest)
	}
	e.Msg(msg)
}
