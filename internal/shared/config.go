package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv        string
	HTTPAddr      string
	MetricsAddr   string
	MySQLDSN      string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	PlayBase      string
	PlayKey       string
	SentimentBase string
	Workers       int
	ReviewCount   int
	MaxScoreChars int
	DedupRecent   bool
	CacheTTL      time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		MetricsAddr:   env("METRICS_ADDR", ":9100"),
		MySQLDSN:      env("MYSQL_DSN", "root:root@tcp(localhost:3306)/bankpulse?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisPass:     env("REDIS_PASSWORD", ""),
		RedisDB:       atoi("REDIS_DB", 0),
		PlayBase:      env("PLAY_BASE_URL", "https://play-gateway.internal/v1"),
		PlayKey:       env("PLAY_API_KEY", ""),
		SentimentBase: env("SENTIMENT_BASE_URL", "http://localhost:8501"),
		Workers:       atoi("INGEST_WORKERS", 4),
		ReviewCount:   atoi("INGEST_REVIEW_COUNT", 400),
		MaxScoreChars: atoi("SENTIMENT_MAX_CHARS", 512),
		DedupRecent:   env("DEDUP_KEEP_MOST_RECENT", "") == "true",
		CacheTTL:      time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	if c.SentimentBase == "" {
		log.Warn().Msg("SENTIMENT_BASE_URL is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
