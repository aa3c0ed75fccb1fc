// ABOUTME: HTTP handlers for direct messaging
// ABOUTME: Send a message and fetch a conversation thread

package httpapi

import (
	"net/http"

	"github.com/anglershub/hub/internal/auth"
)

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	claims := auth.MustFromContext(r.Context())

	var req struct {
		To   string `json:"to"`
		Text string `json:"text"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.To == "" || req.Text == "" {
		writeError(w, http.StatusBadRequest, "to and text are required")
		return
	}

	msg, err := s.chat.Send(r.Context(), claims.Email, req.To, req.Text)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	claims := auth.MustFromContext(r.Context())

	other, err := pathEmail(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid email")
		return
	}

	thread, err := s.chat.History(r.Context(), claims.Email, other)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, thread)
}
