// ABOUTME: Dual-scope session storage: persistent (survives restart) and ephemeral
// ABOUTME: Resolution order gives the persistent scope priority

package identity

import (
	"context"

	"github.com/anglershub/hub/internal/store"
)

// Sessions holds the session projection in one of two scopes. The persistent
// scope lives on the durable substrate; the ephemeral scope lives in process
// memory and vanishes on restart. By convention at most one scope holds a
// session at a time, but resolution tolerates both being set.
type Sessions struct {
	persistent *store.Collections
	ephemeral  *store.Collections
}

// NewSessions creates a session manager over the two scopes.
func NewSessions(persistent, ephemeral *store.Collections) *Sessions {
	return &Sessions{persistent: persistent, ephemeral: ephemeral}
}

// Open stores the session in the scope selected by remember.
func (s *Sessions) Open(ctx context.Context, session store.Session, remember bool) error {
	if remember {
		return s.persistent.SaveSession(ctx, session)
	}
	return s.ephemeral.SaveSession(ctx, session)
}

// Current resolves the active session. The persistent scope wins when both
// scopes hold one. Returns nil when no session is stored.
func (s *Sessions) Current(ctx context.Context) (*store.Session, error) {
	session, err := s.persistent.Session(ctx)
	if err != nil {
		return nil, err
	}
	if session != nil {
		return session, nil
	}
	return s.ephemeral.Session(ctx)
}

// Clear removes the session from both scopes unconditionally.
func (s *Sessions) Clear(ctx context.Context) error {
	if err := s.persistent.ClearSession(ctx); err != nil {
		return err
	}
	return s.ephemeral.ClearSession(ctx)
}
