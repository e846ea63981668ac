package main

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"bankpulse/internal/adapters/observability"
	"bankpulse/internal/adapters/playstore"
	"bankpulse/internal/app"
	"bankpulse/internal/shared"
	mysqlrepo "bankpulse/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("base", cfg.PlayBase).
		Int("workers", cfg.Workers).
		Int("reviews", cfg.ReviewCount).
		Msg("ingestor starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	if err := repo.SeedBanks(ctx, shared.SeedBanks()); err != nil {
		log.Fatal().Err(err).Msg("seed banks failed")
	}

	client, err := playstore.New(cfg.PlayBase, cfg.PlayKey, 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize store client")
	}

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for _, a := range shared.Apps {
		a := a

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, int64(1)); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(a shared.App) {
			defer wg.Done()
			defer sem.Release(int64(1))

			payloads, err := client.AppReviews(ctx, a.Package, cfg.ReviewCount)
			if err != nil {
				log.Warn().Str("app", a.Package).Err(err).Msg("fetch failed")
				return
			}
			raw := app.MapRawReviews(a.Tag, "Google Play", payloads)
			if err := repo.InsertRawReviews(ctx, raw); err != nil {
				log.Warn().Str("app", a.Package).Err(err).Msg("insert raw reviews failed")
				return
			}
			log.Info().Str("app", a.Package).Int("rows", len(raw)).Msg("ingest ok")
		}(a)
	}

	wg.Wait()
	log.Info().Msg("ingestion completed")
}
