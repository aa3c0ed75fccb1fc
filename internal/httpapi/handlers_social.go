// ABOUTME: HTTP handlers for the friend graph
// ABOUTME: Request, accept, cancel, pending list, friends list and pair state

package httpapi

import (
	"net/http"

	"github.com/anglershub/hub/internal/auth"
)

func (s *Server) handleSendRequest(w http.ResponseWriter, r *http.Request) {
	claims := auth.MustFromContext(r.Context())

	var req struct {
		To string `json:"to"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.To == "" {
		writeError(w, http.StatusBadRequest, "to is required")
		return
	}

	sent, err := s.social.SendRequest(r.Context(), claims.Email, req.To)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"sent": sent})
}

func (s *Server) handleAcceptRequest(w http.ResponseWriter, r *http.Request) {
	claims := auth.MustFromContext(r.Context())

	var req struct {
		From string `json:"from"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.From == "" {
		writeError(w, http.StatusBadRequest, "from is required")
		return
	}

	accepted, err := s.social.AcceptRequest(r.Context(), claims.Email, req.From)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"accepted": accepted})
}

func (s *Server) handleCancelRequest(w http.ResponseWriter, r *http.Request) {
	claims := auth.MustFromContext(r.Context())

	var req struct {
		To string `json:"to"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.To == "" {
		writeError(w, http.StatusBadRequest, "to is required")
		return
	}

	cancelled, err := s.social.CancelRequest(r.Context(), claims.Email, req.To)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"cancelled": cancelled})
}

// handleDeclineRequest removes an incoming pending request. Same primitive
// as cancel, with the caller as the recipient instead of the requester.
func (s *Server) handleDeclineRequest(w http.ResponseWriter, r *http.Request) {
	claims := auth.MustFromContext(r.Context())

	var req struct {
		From string `json:"from"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.From == "" {
		writeError(w, http.StatusBadRequest, "from is required")
		return
	}

	declined, err := s.social.CancelRequest(r.Context(), req.From, claims.Email)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"declined": declined})
}

func (s *Server) handleFriends(w http.ResponseWriter, r *http.Request) {
	claims := auth.MustFromContext(r.Context())

	friends, err := s.social.Friends(r.Context(), claims.Email)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if friends == nil {
		friends = []string{}
	}

	writeJSON(w, http.StatusOK, friends)
}

func (s *Server) handlePendingRequests(w http.ResponseWriter, r *http.Request) {
	claims := auth.MustFromContext(r.Context())

	pending, err := s.social.PendingRequests(r.Context(), claims.Email)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pending)
}

func (s *Server) handlePairState(w http.ResponseWriter, r *http.Request) {
	claims := auth.MustFromContext(r.Context())

	other := r.URL.Query().Get("with")
	if other == "" {
		writeError(w, http.StatusBadRequest, "with is required")
		return
	}

	state, err := s.social.State(r.Context(), claims.Email, other)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"state": state.String()})
}
