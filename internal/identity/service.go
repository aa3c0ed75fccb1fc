// ABOUTME: Signup, login, session resolution, and the user directory
// ABOUTME: Login failure is deliberately generic to avoid account enumeration

package identity

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/anglershub/hub/internal/store"
)

// ErrDuplicateEmail is returned when signing up with an email that exists.
var ErrDuplicateEmail = errors.New("account already exists with that email")

// ErrInvalidCredentials is returned on any login failure. Unknown email and
// wrong password are indistinguishable on purpose.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service implements identity operations over the user collection and the
// two session scopes.
type Service struct {
	store    *store.Collections
	sessions *Sessions
	logger   *slog.Logger
}

// NewService creates an identity service.
func NewService(c *store.Collections, sessions *Sessions) *Service {
	return &Service{
		store:    c,
		sessions: sessions,
		logger:   slog.Default().With("component", "identity"),
	}
}

// SignUp registers a new user and opens a persistent session for them.
// Email matching is exact and case-sensitive.
func (s *Service) SignUp(ctx context.Context, name, email, password string) (*store.Session, error) {
	users, rev, err := s.store.Users(ctx)
	if err != nil {
		return nil, err
	}

	if store.FindUser(users, email) != nil {
		return nil, ErrDuplicateEmail
	}

	user := store.User{
		Name:         name,
		Email:        email,
		PasswordHash: HashPassword(password),
	}
	user.EnsureFields()
	users = append(users, user)

	if _, err := s.store.SaveUsers(ctx, users, rev); err != nil {
		return nil, err
	}

	session := store.Session{Name: name, Email: email}
	// Signup remembers by default.
	if err := s.sessions.Open(ctx, session, true); err != nil {
		return nil, err
	}

	s.logger.Info("user signed up", "email", email)
	return &session, nil
}

// LogIn authenticates by exact email and digest match, then opens a session
// in the scope selected by remember.
func (s *Service) LogIn(ctx context.Context, email, password string, remember bool) (*store.Session, error) {
	users, _, err := s.store.Users(ctx)
	if err != nil {
		return nil, err
	}

	user := store.FindUser(users, email)
	if user == nil || user.PasswordHash != HashPassword(password) {
		return nil, ErrInvalidCredentials
	}

	session := store.Session{Name: user.Name, Email: user.Email}
	if err := s.sessions.Open(ctx, session, remember); err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", "email", email, "remember", remember)
	return &session, nil
}

// CurrentSession resolves the active session, persistent scope first.
// Returns nil when nobody is logged in.
func (s *Service) CurrentSession(ctx context.Context) (*store.Session, error) {
	return s.sessions.Current(ctx)
}

// LogOut clears both session scopes unconditionally.
func (s *Service) LogOut(ctx context.Context) error {
	return s.sessions.Clear(ctx)
}

// User returns the full record for email.
func (s *Service) User(ctx context.Context, email string) (*store.User, error) {
	users, _, err := s.store.Users(ctx)
	if err != nil {
		return nil, err
	}
	user := store.FindUser(users, email)
	if user == nil {
		return nil, store.ErrUserNotFound
	}
	user.EnsureFields()
	return user, nil
}

// ListUsers returns every registered user.
func (s *Service) ListUsers(ctx context.Context) ([]store.User, error) {
	users, _, err := s.store.Users(ctx)
	for i := range users {
		users[i].EnsureFields()
	}
	return users, err
}

// Search matches users whose normalized name or email contains the
// normalized query as a substring. An empty query matches nobody.
func (s *Service) Search(ctx context.Context, query string) ([]store.User, error) {
	q := normalizeQuery(query)
	if q == "" {
		return nil, nil
	}

	users, _, err := s.store.Users(ctx)
	if err != nil {
		return nil, err
	}

	var matches []store.User
	for _, u := range users {
		name := normalizeQuery(u.Name)
		email := normalizeQuery(u.Email)
		if (name != "" && strings.Contains(name, q)) || (email != "" && strings.Contains(email, q)) {
			matches = append(matches, u)
		}
	}
	return matches, nil
}

// normalizeQuery lowercases, replaces punctuation with spaces, and collapses
// whitespace, so "juan@example.com" and "Juan Example" both match "juan".
func normalizeQuery(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// SeedDemo installs three demo users, all with password "password". Seeding
// is skipped when any users already exist. Returns the number seeded.
func (s *Service) SeedDemo(ctx context.Context) (int, error) {
	users, rev, err := s.store.Users(ctx)
	if err != nil {
		return 0, err
	}
	if len(users) > 0 {
		return 0, nil
	}

	hash := HashPassword("password")
	samples := []store.User{
		{Name: "Juan Dela Cruz", Email: "juan@example.com", PasswordHash: hash},
		{Name: "Maria Santos", Email: "maria@example.com", PasswordHash: hash},
		{Name: "Pedro Reyes", Email: "pedro@example.com", PasswordHash: hash},
	}
	for i := range samples {
		samples[i].EnsureFields()
	}

	if _, err := s.store.SaveUsers(ctx, samples, rev); err != nil {
		return 0, err
	}

	s.logger.Info("seeded demo users", "count", len(samples))
	return len(samples), nil
}
