// ABOUTME: HTTP handlers for posts, the shared gallery and species achievements
// ABOUTME: Covers adding catches, listing posts and computing unlocked species

package httpapi

import (
	"net/http"

	"github.com/anglershub/hub/internal/auth"
)

func (s *Server) handleAddPost(w http.ResponseWriter, r *http.Request) {
	claims := auth.MustFromContext(r.Context())

	var req struct {
		Img       string `json:"img"`
		Caption   string `json:"caption"`
		MediaType string `json:"mediaType"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Img == "" {
		writeError(w, http.StatusBadRequest, "img is required")
		return
	}

	post, err := s.content.AddPost(r.Context(), claims.Email, req.Img, req.Caption, req.MediaType)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

func (s *Server) handleOwnPosts(w http.ResponseWriter, r *http.Request) {
	claims := auth.MustFromContext(r.Context())
	s.writePosts(w, r, claims.Email)
}

func (s *Server) handleUserPosts(w http.ResponseWriter, r *http.Request) {
	email, err := pathEmail(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid email")
		return
	}
	s.writePosts(w, r, email)
}

func (s *Server) writePosts(w http.ResponseWriter, r *http.Request, email string) {
	posts, err := s.content.Posts(r.Context(), email)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) handleGallery(w http.ResponseWriter, r *http.Request) {
	tiles, err := s.content.Gallery(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tiles)
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	claims := auth.MustFromContext(r.Context())

	unlocked, err := s.content.Unlocked(r.Context(), claims.Email)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, unlocked)
}

func (s *Server) handleSetProfilePic(w http.ResponseWriter, r *http.Request) {
	claims := auth.MustFromContext(r.Context())

	var req struct {
		Img string `json:"img"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Img == "" {
		writeError(w, http.StatusBadRequest, "img is required")
		return
	}

	if err := s.content.SetProfilePic(r.Context(), claims.Email, req.Img); err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
