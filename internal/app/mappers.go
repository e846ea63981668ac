package app

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"bankpulse/internal/domain"
)

/********** alias registry (single source of truth) **********/

// Store payloads differ between endpoint generations; every logical field has
// a list of candidate paths, first non-empty wins. Dot paths descend nested
// objects.
var reviewAliases = map[string][]string{
	"id":      {"reviewId", "review_id", "id"},
	"content": {"content", "text", "review", "body", "comment", "message"},
	"score":   {"score", "rating", "starRating", "stars", "rating.value"},
	"at":      {"at", "date", "createdAt", "created_at", "time", "timestamp"},
	"thumbs":  {"thumbsUpCount", "thumbs_up", "thumbsUp", "likes", "helpful"},
	"source":  {"source", "platform", "store", "origin"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns the string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, key string) *string {
	for _, p := range reviewAliases[key] {
		if s := lookupStr(m, p); s != "" {
			return &s
		}
	}
	return nil
}

// firstIntFlexible: int from several paths (float64/int/string like "4").
func firstIntFlexible(m map[string]any, paths ...string) *int {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			n := int(v)
			return &n
		case int:
			n := v
			return &n
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64); err == nil {
				n := int(f)
				return &n
			}
		}
	}
	return nil
}

/********** review mapper **********/

// MapRawReviews turns loose store payloads into RawReviews tagged with the
// scrape's bank name and source. No validation happens here — missing fields
// stay nil for the validator to gate.
func MapRawReviews(bankName, source string, in []map[string]any) []domain.RawReview {
	out := make([]domain.RawReview, 0, len(in))
	for _, m := range in {
		var rv domain.RawReview
		rv.BankName = bankName
		if source != "" {
			s := source
			rv.Source = &s
		} else if s := firstNonEmptyAlias(m, "source"); s != nil {
			rv.Source = s
		}

		rv.Content = firstNonEmptyAlias(m, "content")
		rv.Score = firstIntFlexible(m, reviewAliases["score"]...)
		rv.At = firstNonEmptyAlias(m, "at")
		if n := firstIntFlexible(m, reviewAliases["thumbs"]...); n != nil {
			rv.ThumbsUp = *n
		}

		// ReviewID: prefer the store's id; else synthesize a stable hash so
		// re-scrapes map to the same row.
		if s := firstNonEmptyAlias(m, "id"); s != nil {
			rv.ReviewID = *s
		} else {
			sig := strings.Join([]string{bankName, deref(rv.Content), deref(rv.At)}, "|")
			sum := sha1.Sum([]byte(sig))
			rv.ReviewID = hex.EncodeToString(sum[:])
		}

		if raw, err := json.Marshal(m); err == nil {
			rv.RawJSON = raw
		} else {
			log.Error().Err(err).Str("context", "MapRawReviews").Msg("marshal review payload failed")
		}

		out = append(out, rv)
	}
	return out
}
