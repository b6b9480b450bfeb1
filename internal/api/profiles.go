package api

import (
	"errors"
	"net/http"

	"github.com/schoolspace/schoolspace/auth"
	"github.com/schoolspace/schoolspace/httpx"
	"github.com/schoolspace/schoolspace/internal/backend"
	"github.com/schoolspace/schoolspace/internal/models"
)

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.backend.GetProfile(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, backend.ErrProfileNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "profile_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "profile_read_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, profile)
}

func (s *Server) putProfile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	callerID, _ := auth.AccountIDFromContext(r.Context())
	if callerID != id && !s.callerIsAdmin(r) {
		httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
		return
	}

	var profile models.Profile
	if err := httpx.Decode(r, &profile); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "bad_request", nil)
		return
	}
	profile.ID = id
	// only admins may grant the admin flag
	if profile.IsAdmin && !s.callerIsAdmin(r) {
		profile.IsAdmin = false
	}

	if err := s.backend.SetProfile(r.Context(), profile); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "profile_write_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, profile)
}

func (s *Server) searchProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.backend.SearchProfiles(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "search_failed", nil)
		return
	}
	if profiles == nil {
		profiles = []models.Profile{}
	}
	httpx.JSON(w, http.StatusOK, profiles)
}

// callerIsAdmin checks the caller's own profile. A missing profile means not
// an admin.
func (s *Server) callerIsAdmin(r *http.Request) bool {
	callerID, ok := auth.AccountIDFromContext(r.Context())
	if !ok {
		return false
	}
	profile, err := s.backend.GetProfile(r.Context(), callerID)
	return err == nil && profile.IsAdmin
}
