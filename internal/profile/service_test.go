// ABOUTME: Tests for profile export/import round-trips and session refresh.

package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anglershub/hub/internal/identity"
	"github.com/anglershub/hub/internal/store"
)

type profileFixture struct {
	svc      *Service
	ids      *identity.Service
	sessions *identity.Sessions
	c        *store.Collections
}

func newProfileFixture(t *testing.T) *profileFixture {
	t.Helper()
	c := store.NewCollections(store.NewMemoryKV())
	sessions := identity.NewSessions(c, store.NewCollections(store.NewMemoryKV()))
	return &profileFixture{
		svc:      NewService(c, sessions),
		ids:      identity.NewService(c, sessions),
		sessions: sessions,
		c:        c,
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	fx := newProfileFixture(t)
	ctx := context.Background()

	_, err := fx.ids.SignUp(ctx, "Juan Dela Cruz", "juan@example.com", "secret")
	require.NoError(t, err)

	before, err := fx.ids.User(ctx, "juan@example.com")
	require.NoError(t, err)

	payload, err := fx.svc.Export(ctx, "juan@example.com")
	require.NoError(t, err)

	// Import without mutation: the stored record is field-for-field identical.
	imported, err := fx.svc.Import(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, *before, *imported)

	after, err := fx.ids.User(ctx, "juan@example.com")
	require.NoError(t, err)
	assert.Equal(t, *before, *after)
}

func TestExportUnknownUser(t *testing.T) {
	fx := newProfileFixture(t)

	_, err := fx.svc.Export(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestImportRejectsInvalidPayload(t *testing.T) {
	fx := newProfileFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Import(ctx, []byte(`{broken`))
	assert.ErrorIs(t, err, ErrInvalidProfile)

	_, err = fx.svc.Import(ctx, []byte(`{"name":"No Email"}`))
	assert.ErrorIs(t, err, ErrInvalidProfile)
}

func TestImportAddsNewUser(t *testing.T) {
	fx := newProfileFixture(t)
	ctx := context.Background()

	payload := []byte(`{"name":"Maria Santos","email":"maria@example.com","passwordHash":"abc","friends":[],"friendRequests":[],"posts":[]}`)
	_, err := fx.svc.Import(ctx, payload)
	require.NoError(t, err)

	user, err := fx.ids.User(ctx, "maria@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Maria Santos", user.Name)
}

func TestImportRefreshesMatchingSession(t *testing.T) {
	fx := newProfileFixture(t)
	ctx := context.Background()

	_, err := fx.ids.SignUp(ctx, "Juan", "juan@example.com", "secret")
	require.NoError(t, err)

	payload := []byte(`{"name":"Juan Renamed","email":"juan@example.com","passwordHash":"abc"}`)
	_, err = fx.svc.Import(ctx, payload)
	require.NoError(t, err)

	session, err := fx.sessions.Current(ctx)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "Juan Renamed", session.Name)
}

func TestImportLeavesOtherSessionAlone(t *testing.T) {
	fx := newProfileFixture(t)
	ctx := context.Background()

	_, err := fx.ids.SignUp(ctx, "Juan", "juan@example.com", "secret")
	require.NoError(t, err)

	payload := []byte(`{"name":"Maria","email":"maria@example.com","passwordHash":"abc"}`)
	_, err = fx.svc.Import(ctx, payload)
	require.NoError(t, err)

	session, err := fx.sessions.Current(ctx)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "juan@example.com", session.Email)
}
