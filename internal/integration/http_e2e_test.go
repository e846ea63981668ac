//go:build integration || !unit

package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	server "bankpulse/internal/adapters/http_server"
	"bankpulse/internal/app"
	"bankpulse/internal/domain"
	mysqlrepo "bankpulse/internal/storage/mysql"
)

// ---------- helpers ----------
func pstr(s string) *string { return &s }

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

// nopCache keeps the read path cacheless so the test always hits MySQL.
type nopCache struct{}

func (nopCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (nopCache) Set(context.Context, string, any, int) error    { return nil }
func (nopCache) Del(context.Context, string) error              { return nil }

// ---------- the test ----------
func TestHTTP_EndToEnd_BankSummary(t *testing.T) {
	// Start isolated MySQL container
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=bankpulse",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "bankpulse")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	// Apply the real migrations
	applyMigrations(t, db)

	repo := mysqlrepo.New(db)
	ctx := context.Background()

	// Seed the dimension and two processed reviews
	if err := repo.SeedBanks(ctx, []domain.Bank{
		{Name: "Commercial Bank of Ethiopia", AppName: "CBE Mobile"},
	}); err != nil {
		t.Fatalf("SeedBanks: %v", err)
	}
	banks, err := repo.ListBanks(ctx)
	if err != nil || len(banks) != 1 {
		t.Fatalf("ListBanks: %v %v", banks, err)
	}
	cbe := banks[0].ID

	at := time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC)
	if err := repo.InsertReviews(ctx, []domain.Review{
		{
			BankID:         &cbe,
			Content:        "the app keeps crashing after login",
			Score:          1,
			At:             at,
			Source:         pstr("Google Play"),
			Sentiment:      domain.SentimentNegative,
			SentimentScore: 0.9,
			Theme:          domain.ThemeAuthentication,
		},
		{
			BankID:         &cbe,
			Content:        "love the new look",
			Score:          5,
			At:             at.Add(24 * time.Hour),
			Source:         pstr("Google Play"),
			Sentiment:      domain.SentimentPositive,
			SentimentScore: 0.95,
			Theme:          domain.ThemeUserExperience,
		},
	}); err != nil {
		t.Fatalf("InsertReviews: %v", err)
	}

	// Spin up the real router over the real repo
	q := app.NewQueryService(repo, nopCache{}, time.Minute)
	srv := server.New()
	srv.MountHandlers(&server.Handlers{Q: q})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	// Summary endpoint
	res, err := http.Get(fmt.Sprintf("%s/v1/banks/%d/summary", ts.URL, cbe))
	if err != nil {
		t.Fatalf("GET summary: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
	etag := res.Header.Get("ETag")
	if etag == "" {
		t.Fatalf("expected an ETag")
	}

	var sum domain.BankSummary
	if err := json.NewDecoder(res.Body).Decode(&sum); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sum.BankID != cbe || sum.ReviewCount != 2 || sum.Positive != 1 || sum.Negative != 1 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if sum.AvgRating != 3 {
		t.Fatalf("avg rating: %v", sum.AvgRating)
	}

	// Conditional GET round-trips the ETag
	req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/v1/banks/%d/summary", ts.URL, cbe), nil)
	req.Header.Set("If-None-Match", etag)
	res2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("conditional GET: %v", err)
	}
	defer res2.Body.Close()
	if res2.StatusCode != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", res2.StatusCode)
	}

	// Reviews endpoint, newest first
	res3, err := http.Get(fmt.Sprintf("%s/v1/banks/%d/reviews?limit=10", ts.URL, cbe))
	if err != nil {
		t.Fatalf("GET reviews: %v", err)
	}
	defer res3.Body.Close()
	var reviews []domain.Review
	if err := json.NewDecoder(res3.Body).Decode(&reviews); err != nil {
		t.Fatalf("decode reviews: %v", err)
	}
	if len(reviews) != 2 || reviews[0].Content != "love the new look" {
		t.Fatalf("unexpected reviews: %+v", reviews)
	}

	// Unknown bank is a problem+json 404
	res4, err := http.Get(ts.URL + "/v1/banks/99999/summary")
	if err != nil {
		t.Fatalf("GET missing: %v", err)
	}
	defer res4.Body.Close()
	if res4.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res4.StatusCode)
	}
	if ct := res4.Header.Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("content type: %q", ct)
	}
}
