// ABOUTME: HTTP handlers for signup, login, logout and user lookup
// ABOUTME: Signup and login mint a session token whose TTL reflects the remember flag

package httpapi

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/anglershub/hub/internal/auth"
	"github.com/anglershub/hub/internal/store"
)

// userView is the public shape of a user record: no password hash.
type userView struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Friends    []string `json:"friends"`
	Posts      int      `json:"posts"`
	ProfilePic string   `json:"profilePic,omitempty"`
}

func viewOf(u *store.User) userView {
	return userView{
		Name:       u.Name,
		Email:      u.Email,
		Friends:    u.Friends,
		Posts:      len(u.Posts),
		ProfilePic: u.ProfilePic,
	}
}

// sessionResponse is returned by signup and login.
type sessionResponse struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// mintToken issues a session token for the user, choosing the TTL from the
// remember flag.
func (s *Server) mintToken(session *store.Session, remember bool) (string, error) {
	ttl := s.config.SessionTTL
	if remember {
		ttl = s.config.RememberTTL
	}
	return s.verifier.Generate(auth.SessionClaims{
		Email:    session.Email,
		Name:     session.Name,
		Remember: remember,
	}, ttl)
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}

	session, err := s.identity.SignUp(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	// New accounts are remembered, matching the sign-up flow's default.
	token, err := s.mintToken(session, true)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse{Token: token, Name: session.Name, Email: session.Email})
}

func (s *Server) handleLogIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Remember bool   `json:"remember"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := s.identity.LogIn(r.Context(), req.Email, req.Password, req.Remember)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	token, err := s.mintToken(session, req.Remember)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{Token: token, Name: session.Name, Email: session.Email})
}

func (s *Server) handleLogOut(w http.ResponseWriter, r *http.Request) {
	if err := s.identity.LogOut(r.Context()); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims := auth.MustFromContext(r.Context())

	user, err := s.identity.User(r.Context(), claims.Email)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, viewOf(user))
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.identity.ListUsers(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	views := make([]userView, 0, len(users))
	for i := range users {
		views = append(views, viewOf(&users[i]))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleSearchUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	users, err := s.identity.Search(r.Context(), query)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	views := make([]userView, 0, len(users))
	for i := range users {
		views = append(views, viewOf(&users[i]))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	email, err := pathEmail(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid email")
		return
	}

	user, err := s.identity.User(r.Context(), email)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, viewOf(user))
}

// pathEmail extracts and unescapes the {email} path parameter.
func pathEmail(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "email")
	return url.PathUnescape(raw)
}
