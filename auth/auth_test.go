package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIssueAndParseToken(t *testing.T) {
	token := IssueToken("acc-123")
	id, ok := ParseToken(token)
	if !ok || id != "acc-123" {
		t.Fatalf("expected acc-123, got %q ok=%v", id, ok)
	}
}

func TestParseTokenRejectsTampering(t *testing.T) {
	token := IssueToken("acc-123")
	if _, ok := ParseToken("acc-999" + token[len("acc-123"):]); ok {
		t.Fatal("expected tampered token to be rejected")
	}
	if _, ok := ParseToken("garbage"); ok {
		t.Fatal("expected malformed token to be rejected")
	}
	if _, ok := ParseToken(""); ok {
		t.Fatal("expected empty token to be rejected")
	}
}

func TestMiddlewareAndRequireAuth(t *testing.T) {
	var gotID string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = AccountIDFromContext(r.Context())
	})
	h := Middleware(RequireAuth(inner))

	// no token -> 401
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	// valid token -> id in context
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+IssueToken("acc-7"))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotID != "acc-7" {
		t.Fatalf("expected acc-7 in context, got %q", gotID)
	}
}
