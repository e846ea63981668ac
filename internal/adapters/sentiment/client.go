package sentiment

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"bankpulse/internal/adapters/observability"
)

// Client calls the sentiment model service. It reports raw model output and
// raw failures; truncation and the NEUTRAL fallback live in the app layer's
// annotator, so tests there can see real errors.
type Client struct {
	base     string
	hc       *http.Client
	rl       *rate.Limiter
	maxChars int
}

var ErrUnavailable = errors.New("sentiment: service unavailable")

func New(base string, rps, maxChars int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if rps <= 0 {
		rps = 10
	}
	return &Client{
		base:     base,
		hc:       &http.Client{Timeout: 30 * time.Second},
		rl:       rate.NewLimiter(rate.Limit(rps), rps),
		maxChars: maxChars,
	}, nil
}

type scoreRequest struct {
	Text      string `json:"text"`
	MaxLength int    `json:"max_length,omitempty"`
}

type scoreResponse struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Score sends one text to the model. Retries transient 5xx/429 twice with
// backoff, honoring Retry-After, then surfaces the failure to the caller.
func (c *Client) Score(ctx context.Context, text string) (string, float64, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return "", 0, err
	}

	body, err := json.Marshal(scoreRequest{Text: text, MaxLength: c.maxChars})
	if err != nil {
		return "", 0, err
	}

	var lastErr error
	for i := 0; i < 3; i++ {
		start := time.Now()
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/v1/sentiment", bytes.NewReader(body))
		if err != nil {
			return "", 0, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return "", 0, ctx.Err()
			}
			lastErr = err
			if i < 2 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return "", 0, ctx.Err()
			}
			return "", 0, lastErr
		}
		observability.ObserveExternal("sentiment", "/v1/sentiment", resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK:
			var out scoreResponse
			err := json.NewDecoder(resp.Body).Decode(&out)
			resp.Body.Close()
			if err != nil {
				return "", 0, fmt.Errorf("decode score: %w", err)
			}
			return out.Label, out.Score, nil

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			// Prefer server-provided Retry-After; otherwise exponential backoff.
			wait := retryAfter(resp)
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
			if i < 2 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return "", 0, ctx.Err()
			}
			return "", 0, lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return "", 0, fmt.Errorf("sentiment: bad status %d: %s", resp.StatusCode, string(b))
		}
	}
	return "", 0, lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential backoff delay with concurrency-safe jitter.
// i = retry attempt (0,1,2,...). Base doubles each attempt (200ms, 400ms, 800ms...),
// with up to +50% random jitter to avoid thundering herds.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0                  // 0..1
	j := time.Duration(0.5 * f * float64(base)) // up to +50%
	return base + j
}
