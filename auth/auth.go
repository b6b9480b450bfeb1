// Package auth issues and verifies the HMAC-signed bearer tokens used by the
// backend API. A token is the account id plus a signature; there is no
// server-side session table to keep the dev backend stateless.
package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"os"
	"strings"

	"github.com/schoolspace/schoolspace/httpx"
)

type ctxKey string

const accountIDCtxKey = ctxKey("accountID")

// Secret returns TOKEN_SECRET or a default dev value.
func Secret() string {
	if s := os.Getenv("TOKEN_SECRET"); s != "" {
		return s
	}
	return "devtokensecret"
}

func sign(accountID string) string {
	mac := hmac.New(sha256.New, []byte(Secret()))
	mac.Write([]byte(accountID))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// IssueToken returns a signed bearer token for the account id.
func IssueToken(accountID string) string {
	return accountID + "." + sign(accountID)
}

// ParseToken validates a token and returns the account id.
func ParseToken(token string) (string, bool) {
	i := strings.LastIndex(token, ".")
	if i <= 0 || i == len(token)-1 {
		return "", false
	}
	accountID, sig := token[:i], token[i+1:]
	if !hmac.Equal([]byte(sig), []byte(sign(accountID))) {
		return "", false
	}
	return accountID, true
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return "", false
	}
	return h[len(prefix):], true
}

// WithAccountID stores the account id in context.
func WithAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, accountIDCtxKey, accountID)
}

// AccountIDFromContext extracts the account id.
func AccountIDFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(accountIDCtxKey)
	if v == nil {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// Middleware attaches the account id to the request context if a valid
// bearer token is present.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token, ok := bearerToken(r); ok {
			if id, ok := ParseToken(token); ok {
				r = r.WithContext(WithAccountID(r.Context(), id))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := AccountIDFromContext(r.Context()); !ok {
			httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
