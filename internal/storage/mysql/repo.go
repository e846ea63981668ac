package mysql

import (
	"context"
	"database/sql"
	"strings"

	"bankpulse/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
func valJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) SeedBanks(ctx context.Context, banks []domain.Bank) error {
	for _, b := range banks {
		if _, err := r.db.ExecContext(ctx, seedBankSQL, b.Name, b.AppName); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) ListBanks(ctx context.Context) ([]domain.Bank, error) {
	rows, err := r.db.QueryContext(ctx, listBanksSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Bank
	for rows.Next() {
		var b domain.Bank
		var app sql.NullString
		if err := rows.Scan(&b.ID, &b.Name, &app); err != nil {
			return nil, err
		}
		b.AppName = app.String
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repo) InsertRawReviews(ctx context.Context, rs []domain.RawReview) error {
	if len(rs) == 0 {
		return nil
	}
	values := make([]string, 0, len(rs))
	args := make([]any, 0, len(rs)*8)
	for _, rv := range rs {
		values = append(values, "(?,?,?,?,?,?,?,?)")
		args = append(args,
			rv.ReviewID,
			rv.BankName,
			valStr(rv.Content),
			valInt(rv.Score),
			valStr(rv.At),
			rv.ThumbsUp,
			valStr(rv.Source),
			valJSON(rv.RawJSON),
		)
	}
	sqlStr := insertRawPrefix + strings.Join(values, ",") + insertRawOnDup
	_, err := r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *Repo) ListRawReviews(ctx context.Context) ([]domain.RawReview, error) {
	rows, err := r.db.QueryContext(ctx, listRawSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RawReview
	for rows.Next() {
		var rv domain.RawReview
		var (
			content, atRaw, source sql.NullString
			score                  sql.NullInt64
			raw                    sql.RawBytes
		)
		if err := rows.Scan(&rv.ReviewID, &rv.BankName, &content, &score, &atRaw, &rv.ThumbsUp, &source, &raw); err != nil {
			return nil, err
		}
		if content.Valid {
			s := content.String
			rv.Content = &s
		}
		if score.Valid {
			n := int(score.Int64)
			rv.Score = &n
		}
		if atRaw.Valid {
			s := atRaw.String
			rv.At = &s
		}
		if source.Valid {
			s := source.String
			rv.Source = &s
		}
		if len(raw) > 0 {
			rv.RawJSON = append([]byte(nil), raw...)
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

// InsertReviews writes the persisted projection. Rows without a resolved
// bank_id are skipped here as well: the dimension FK is not optional.
func (r *Repo) InsertReviews(ctx context.Context, rs []domain.Review) error {
	values := make([]string, 0, len(rs))
	args := make([]any, 0, len(rs)*8)
	for _, rv := range rs {
		if rv.BankID == nil {
			continue
		}
		values = append(values, "(?,?,?,?,?,?,?,?)")
		args = append(args,
			*rv.BankID,
			rv.Content,
			rv.Score,
			rv.At,
			string(rv.Sentiment),
			rv.SentimentScore,
			valStr(rv.Source),
			string(rv.Theme),
		)
	}
	if len(values) == 0 {
		return nil
	}
	sqlStr := insertReviewsPrefix + strings.Join(values, ",") + insertReviewsOnDup
	_, err := r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *Repo) ListReviews(ctx context.Context, bankID int64, limit int) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, listReviewsSQL, bankID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		var rv domain.Review
		var (
			id     int64
			source sql.NullString
		)
		if err := rows.Scan(&rv.ID, &id, &rv.BankName, &rv.Content, &rv.Score, &rv.At,
			&rv.Sentiment, &rv.SentimentScore, &source, &rv.Theme); err != nil {
			return nil, err
		}
		rv.BankID = &id
		if source.Valid {
			s := source.String
			rv.Source = &s
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *Repo) BankSummary(ctx context.Context, bankID int64) (domain.BankSummary, error) {
	row := r.db.QueryRowContext(ctx, bankSummarySQL, bankID)

	var sum domain.BankSummary
	var app sql.NullString
	if err := row.Scan(&sum.BankID, &sum.BankName, &app, &sum.ReviewCount, &sum.AvgRating,
		&sum.Positive, &sum.Negative, &sum.Neutral); err != nil {
		if err == sql.ErrNoRows {
			return domain.BankSummary{}, domain.ErrNotFound
		}
		return domain.BankSummary{}, err
	}
	sum.AppName = app.String

	rows, err := r.db.QueryContext(ctx, themeCountsSQL, bankID)
	if err != nil {
		return domain.BankSummary{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var tc domain.ThemeCount
		if err := rows.Scan(&tc.Theme, &tc.Count); err != nil {
			return domain.BankSummary{}, err
		}
		sum.Themes = append(sum.Themes, tc)
	}
	return sum, rows.Err()
}

func (r *Repo) SentimentBreakdown(ctx context.Context) ([]domain.SentimentSlice, error) {
	rows, err := r.db.QueryContext(ctx, sentimentBreakdownSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.SentimentSlice
	for rows.Next() {
		var s domain.SentimentSlice
		if err := rows.Scan(&s.BankName, &s.Label, &s.Count); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
