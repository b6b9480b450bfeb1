package api

import (
	"errors"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/schoolspace/schoolspace/auth"
	"github.com/schoolspace/schoolspace/httpx"
	"github.com/schoolspace/schoolspace/internal/models"
)

type createPostRequest struct {
	Text     string `json:"text"`
	ImageURL string `json:"image,omitempty"`
}

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	posts, err := s.backend.ListPosts(r.Context(), limit)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "feed_read_failed", nil)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	httpx.JSON(w, http.StatusOK, posts)
}

// createPost denormalizes the author's current name and avatar into the post,
// the same shape the feed renders without extra lookups.
func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "bad_request", nil)
		return
	}

	callerID, _ := auth.AccountIDFromContext(r.Context())
	authorName := models.PlaceholderDisplayName
	authorAvatar := models.PlaceholderAvatarURL
	if profile, err := s.backend.GetProfile(r.Context(), callerID); err == nil {
		if profile.DisplayName != "" {
			authorName = profile.DisplayName
		}
		if profile.AvatarURL != "" {
			authorAvatar = profile.AvatarURL
		}
	}

	post, err := s.backend.CreatePost(r.Context(), models.Post{
		AuthorID:        callerID,
		AuthorName:      authorName,
		AuthorAvatarURL: authorAvatar,
		Text:            req.Text,
		ImageURL:        req.ImageURL,
	})
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "post_rejected", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, post)
}

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	post, err := s.backend.GetPost(r.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "post_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "feed_read_failed", nil)
		return
	}

	callerID, _ := auth.AccountIDFromContext(r.Context())
	if post.AuthorID != callerID && !s.callerIsAdmin(r) {
		httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
		return
	}

	if err := s.backend.DeletePost(r.Context(), id); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "post_delete_failed", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
