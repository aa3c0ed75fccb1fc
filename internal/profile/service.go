// ABOUTME: Profile export/import for manual syncing between devices
// ABOUTME: Export is one user record as JSON; import upserts by email

package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/anglershub/hub/internal/identity"
	"github.com/anglershub/hub/internal/store"
)

// ErrInvalidProfile is returned when an import payload is not a profile
// document with an email field.
var ErrInvalidProfile = errors.New("invalid profile payload")

// Service implements profile export and import.
type Service struct {
	store    *store.Collections
	sessions *identity.Sessions
	logger   *slog.Logger
}

// NewService creates a profile service.
func NewService(c *store.Collections, sessions *identity.Sessions) *Service {
	return &Service{
		store:    c,
		sessions: sessions,
		logger:   slog.Default().With("component", "profile"),
	}
}

// Export serializes one user record as an indented JSON document.
func (s *Service) Export(ctx context.Context, email string) ([]byte, error) {
	users, _, err := s.store.Users(ctx)
	if err != nil {
		return nil, err
	}
	user := store.FindUser(users, email)
	if user == nil {
		return nil, store.ErrUserNotFound
	}
	return json.MarshalIndent(user, "", "  ")
}

// Import parses a profile document, upserts it into the user collection by
// email, and refreshes the persistent session projection when the imported
// email matches the active session. The round-trip with Export is lossless.
func (s *Service) Import(ctx context.Context, payload []byte) (*store.User, error) {
	var user store.User
	if err := json.Unmarshal(payload, &user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	if user.Email == "" {
		return nil, fmt.Errorf("%w: missing email", ErrInvalidProfile)
	}

	users, rev, err := s.store.Users(ctx)
	if err != nil {
		return nil, err
	}
	users = store.UpsertUser(users, user)
	if _, err := s.store.SaveUsers(ctx, users, rev); err != nil {
		return nil, err
	}

	current, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, err
	}
	if current != nil && current.Email == user.Email {
		session := store.Session{Name: user.Name, Email: user.Email}
		if err := s.sessions.Open(ctx, session, true); err != nil {
			return nil, err
		}
	}

	s.logger.Info("profile imported", "email", user.Email)
	return &user, nil
}
