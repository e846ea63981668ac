package mysql

// Idempotent seed: bank_name carries a unique key, so re-seeding updates the
// app name instead of inserting a second canonical row.
const seedBankSQL = `
INSERT INTO banks (bank_name, app_name)
VALUES (?, ?)
ON DUPLICATE KEY UPDATE
  app_name = VALUES(app_name)
`

const listBanksSQL = `
SELECT bank_id, bank_name, app_name
FROM banks
ORDER BY bank_id
`

const insertRawPrefix = "INSERT INTO raw_reviews\n  (review_id, bank_name, content, score, at_raw, thumbs_up, source, raw)\nVALUES "

// Re-scrapes of the same review are a no-op apart from the freshness stamp.
const insertRawOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  thumbs_up  = VALUES(thumbs_up),\n" +
	"  raw        = VALUES(raw),\n" +
	"  fetched_at = CURRENT_TIMESTAMP\n"

// Import order for the pipeline: the order rows were ingested in.
const listRawSQL = `
SELECT review_id, bank_name, content, score, at_raw, thumbs_up, source, raw
FROM raw_reviews
ORDER BY fetched_at, review_id
`

const insertReviewsPrefix = "INSERT INTO reviews\n  (bank_id, review_text, rating, review_date, sentiment_label, sentiment_score, source, theme)\nVALUES "

// Rerunning the pipeline over the same raw input refreshes the derived
// columns rather than duplicating rows.
const insertReviewsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  rating          = VALUES(rating),\n" +
	"  sentiment_label = VALUES(sentiment_label),\n" +
	"  sentiment_score = VALUES(sentiment_score),\n" +
	"  source          = COALESCE(VALUES(source), reviews.source),\n" +
	"  theme           = VALUES(theme)\n"

const listReviewsSQL = `
SELECT r.id, r.bank_id, b.bank_name, r.review_text, r.rating, r.review_date,
       r.sentiment_label, r.sentiment_score, r.source, r.theme
FROM reviews r
JOIN banks b ON b.bank_id = r.bank_id
WHERE r.bank_id = ?
ORDER BY r.review_date DESC, r.id DESC
LIMIT ?
`

// -----------------------------------------------------------------------------
// AGGREGATES
// -----------------------------------------------------------------------------

const bankSummarySQL = `
SELECT
  b.bank_id,
  b.bank_name,
  b.app_name,
  COUNT(r.id),
  COALESCE(AVG(r.rating), 0),
  COALESCE(SUM(r.sentiment_label = 'POSITIVE'), 0),
  COALESCE(SUM(r.sentiment_label = 'NEGATIVE'), 0),
  COALESCE(SUM(r.sentiment_label = 'NEUTRAL'), 0)
FROM banks b
LEFT JOIN reviews r ON r.bank_id = b.bank_id
WHERE b.bank_id = ?
GROUP BY b.bank_id, b.bank_name, b.app_name
`

const themeCountsSQL = `
SELECT theme, COUNT(*)
FROM reviews
WHERE bank_id = ?
GROUP BY theme
ORDER BY COUNT(*) DESC, theme
`

const sentimentBreakdownSQL = `
SELECT b.bank_name, r.sentiment_label, COUNT(*)
FROM reviews r
JOIN banks b ON b.bank_id = r.bank_id
GROUP BY b.bank_name, r.sentiment_label
ORDER BY b.bank_name, r.sentiment_label
`
