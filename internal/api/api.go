// Package api exposes the backend over HTTP for the REST client. Handlers
// speak JSON and report failures as machine-readable error codes so clients
// can localize them.
package api

import (
	"context"
	"net/http"

	"github.com/schoolspace/schoolspace/auth"
	"github.com/schoolspace/schoolspace/httpx"
	"github.com/schoolspace/schoolspace/internal/backend"
	"github.com/schoolspace/schoolspace/internal/models"
)

// Backend is the full service surface the API serves. GetPost is not part of
// the client-facing PostStore contract; the API needs it for ownership checks.
type Backend interface {
	backend.AuthService
	backend.ProfileStore
	backend.Directory
	backend.PostStore
	GetPost(ctx context.Context, id string) (models.Post, error)
}

type Server struct {
	backend Backend
}

func NewServer(b Backend) *Server {
	return &Server{backend: b}
}

// Routes mounts all endpoints. Everything except registration, login and
// password resets requires a bearer token.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/accounts", s.register)
	mux.HandleFunc("POST /v1/sessions", s.login)
	mux.Handle("DELETE /v1/sessions", auth.RequireAuth(http.HandlerFunc(s.logout)))
	mux.HandleFunc("POST /v1/password-resets", s.requestPasswordReset)

	mux.Handle("GET /v1/profiles", auth.RequireAuth(http.HandlerFunc(s.searchProfiles)))
	mux.Handle("GET /v1/profiles/{id}", auth.RequireAuth(http.HandlerFunc(s.getProfile)))
	mux.Handle("PUT /v1/profiles/{id}", auth.RequireAuth(http.HandlerFunc(s.putProfile)))

	mux.Handle("GET /v1/posts", auth.RequireAuth(http.HandlerFunc(s.listPosts)))
	mux.Handle("POST /v1/posts", auth.RequireAuth(http.HandlerFunc(s.createPost)))
	mux.Handle("DELETE /v1/posts/{id}", auth.RequireAuth(http.HandlerFunc(s.deletePost)))

	return auth.Middleware(mux)
}

// statusOf maps an auth error kind to an HTTP status.
func statusOf(kind backend.Kind) int {
	switch kind {
	case backend.KindInvalidEmail, backend.KindWeakPassword:
		return http.StatusBadRequest
	case backend.KindUserNotFound, backend.KindWrongPassword, backend.KindInvalidCredential:
		return http.StatusUnauthorized
	case backend.KindUserDisabled:
		return http.StatusForbidden
	case backend.KindEmailInUse:
		return http.StatusConflict
	case backend.KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// writeAuthError sends the kind as the error code so the client-side mapping
// back to an AuthError is lossless.
func writeAuthError(w http.ResponseWriter, err error) {
	kind := backend.KindOf(err)
	httpx.JSONError(w, statusOf(kind), string(kind), nil)
}
