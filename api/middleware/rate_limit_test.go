package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sportiva/storefront-api/pkg/config"
)

type stubLimiter struct {
	allowed bool
	err     error
	scopes  []string
	counts  map[string]int64
	limits  map[string]int64
}

func (s *stubLimiter) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	s.scopes = append(s.scopes, scope)
	if s.err != nil {
		return false, 0, s.err
	}
	if s.counts != nil {
		s.counts[scope]++
		s.limits[scope] = limit
		return s.counts[scope] <= limit, s.counts[scope], nil
	}
	return s.allowed, 1, nil
}

func countingLimiter() *stubLimiter {
	return &stubLimiter{counts: map[string]int64{}, limits: map[string]int64{}}
}

func limitConfig() config.RateLimitConfig {
	return config.RateLimitConfig{Limit: 5, HostLimit: 20, Window: time.Minute}
}

func TestRateLimitAllowsWithinBudget(t *testing.T) {
	t.Parallel()

	limiter := &stubLimiter{allowed: true}
	handler := RateLimit(limiter, limitConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithSessionID(req.Context(), "sess-1"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if len(limiter.scopes) != 2 || limiter.scopes[0] != "host:192.0.2.1" || limiter.scopes[1] != "session:sess-1" {
		t.Fatalf("limited scopes %v, want host then session", limiter.scopes)
	}
}

func TestRateLimitRejectsOverBudget(t *testing.T) {
	t.Parallel()

	handler := RateLimit(&stubLimiter{allowed: false}, limitConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
}

// A client rotating its session id on every request still drains the same
// per-host budget, so fresh session ids do not grant a fresh allowance.
func TestRateLimitHostBudgetSurvivesSessionRotation(t *testing.T) {
	t.Parallel()

	limiter := countingLimiter()
	cfg := config.RateLimitConfig{Limit: 100, HostLimit: 3, Window: time.Minute}
	handler := RateLimit(limiter, cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithSessionID(req.Context(), "sess-"+string(rune('a'+i))))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	for i := 0; i < 3; i++ {
		if codes[i] != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, codes[i])
		}
	}
	if codes[3] != http.StatusTooManyRequests {
		t.Fatalf("rotated session escaped the host budget, status = %d", codes[3])
	}
	if limiter.counts["host:192.0.2.1"] != 4 {
		t.Fatalf("host scope counted %d, want 4", limiter.counts["host:192.0.2.1"])
	}
}

func TestRateLimitSkipsHostScopeWhenDisabled(t *testing.T) {
	t.Parallel()

	limiter := &stubLimiter{allowed: true}
	cfg := config.RateLimitConfig{Limit: 5, Window: time.Minute}
	handler := RateLimit(limiter, cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithSessionID(req.Context(), "sess-1"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if len(limiter.scopes) != 1 || limiter.scopes[0] != "session:sess-1" {
		t.Fatalf("limited scopes %v, want session only", limiter.scopes)
	}
}

func TestRateLimitFailsOpenOnLimiterOutage(t *testing.T) {
	t.Parallel()

	handler := RateLimit(&stubLimiter{err: errors.New("redis down")}, limitConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 when limiter unavailable", w.Code)
	}
}
