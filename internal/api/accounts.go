package api

import (
	"net/http"

	"github.com/schoolspace/schoolspace/auth"
	"github.com/schoolspace/schoolspace/httpx"
	"github.com/schoolspace/schoolspace/internal/models"
	"github.com/schoolspace/schoolspace/internal/policy"
)

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	City        string `json:"city"`
	School      string `json:"school"`
	ClassLabel  string `json:"class"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token   string         `json:"token"`
	Profile models.Profile `json:"profile"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "bad_request", nil)
		return
	}

	ident, err := s.backend.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	profile := models.Profile{
		ID:          ident.ID,
		DisplayName: req.DisplayName,
		City:        req.City,
		School:      req.School,
		ClassLabel:  req.ClassLabel,
		AvatarURL:   models.PlaceholderAvatarURL,
	}
	if err := s.backend.SetProfile(r.Context(), profile); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "profile_write_failed", nil)
		return
	}

	httpx.JSON(w, http.StatusCreated, sessionResponse{
		Token:   auth.IssueToken(ident.ID),
		Profile: profile,
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "bad_request", nil)
		return
	}

	ident, err := s.backend.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	profile := policy.NewProfileResolver(s.backend).Resolve(r.Context(), ident)
	httpx.JSON(w, http.StatusOK, sessionResponse{
		Token:   auth.IssueToken(ident.ID),
		Profile: profile,
	})
}

// logout exists for symmetry; tokens are stateless, so there is nothing to
// revoke server-side.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) requestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "bad_request", nil)
		return
	}
	if err := s.backend.RequestPasswordReset(r.Context(), req.Email); err != nil {
		writeAuthError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
