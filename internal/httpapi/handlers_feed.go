// ABOUTME: HTTP handlers for notifications and the activity feed
// ABOUTME: List, mark read, delete, clear, and recent activity

package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/anglershub/hub/internal/auth"
)

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	claims := auth.MustFromContext(r.Context())

	notifications, err := s.feed.For(r.Context(), claims.Email)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, notifications)
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.feed.MarkRead(r.Context(), id); err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

func (s *Server) handleDeleteNotification(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.feed.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleClearNotifications(w http.ResponseWriter, r *http.Request) {
	claims := auth.MustFromContext(r.Context())

	if err := s.feed.ClearFor(r.Context(), claims.Email); err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	activities, err := s.feed.RecentActivities(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, activities)
}
