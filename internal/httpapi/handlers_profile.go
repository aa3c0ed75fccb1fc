// ABOUTME: HTTP handlers for profile export and import
// ABOUTME: Export returns the raw JSON document; import accepts one back

package httpapi

import (
	"io"
	"net/http"

	"github.com/anglershub/hub/internal/auth"
)

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	claims := auth.MustFromContext(r.Context())

	data, err := s.profile.Export(r.Context(), claims.Email)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="profile.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading body")
		return
	}

	user, err := s.profile.Import(r.Context(), payload)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, viewOf(user))
}
