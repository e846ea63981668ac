// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"bankpulse/internal/app"
)

type Handlers struct{ Q *app.QueryService }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/banks", h.listBanks)
	s.mux.Get("/v1/banks/{id}/summary", h.bankSummary)
	s.mux.Get("/v1/banks/{id}/reviews", h.listReviews)
	s.mux.Get("/v1/summary/sentiment", h.sentimentBreakdown)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeJSON answers with an ETag and honors If-None-Match.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func bankID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func (h *Handlers) listBanks(w http.ResponseWriter, r *http.Request) {
	banks, err := h.Q.ListBanks(r.Context())
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "could not list banks")
		return
	}
	writeJSON(w, r, banks)
}

func (h *Handlers) bankSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := bankID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	sum, err := h.Q.BankSummary(r.Context(), id)
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "bank not found")
		return
	}
	writeJSON(w, r, sum)
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := bankID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}

	limit := 50
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 200 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 200")
			return
		}
		limit = l
	}

	// Newest first; aligns with the DB index on (bank_id, review_date)
	out, err := h.Q.ListBankReviews(r.Context(), id, limit)
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "reviews not found")
		return
	}
	writeJSON(w, r, out)
}

func (h *Handlers) sentimentBreakdown(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.SentimentBreakdown(r.Context())
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "could not compute breakdown")
		return
	}
	writeJSON(w, r, out)
}
