package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestSessionMintsIdentifierForNewVisitors(t *testing.T) {
	t.Parallel()

	var seen string
	handler := Session(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Fatal("expected a session id in context")
	}
	if err := uuid.Validate(seen); err != nil {
		t.Fatalf("session id %q is not a uuid", seen)
	}
	if got := w.Header().Get("X-Session-Id"); got != seen {
		t.Fatalf("response header %q does not echo session %q", got, seen)
	}
}

func TestSessionKeepsExistingIdentifier(t *testing.T) {
	t.Parallel()

	existing := uuid.NewString()
	var seen string
	handler := Session(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Session-Id", existing)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen != existing {
		t.Fatalf("session id = %q, want %q", seen, existing)
	}
}

func TestSessionReplacesMalformedIdentifier(t *testing.T) {
	t.Parallel()

	var seen string
	handler := Session(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Session-Id", "not-a-uuid")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen == "not-a-uuid" || seen == "" {
		t.Fatalf("expected fresh session id, got %q", seen)
	}
}
