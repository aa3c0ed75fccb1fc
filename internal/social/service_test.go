// ABOUTME: Tests for the friend request lifecycle and friendship symmetry.

package social

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anglershub/hub/internal/feed"
	"github.com/anglershub/hub/internal/identity"
	"github.com/anglershub/hub/internal/store"
)

type fixture struct {
	svc  *Service
	feed *feed.Service
	ids  *identity.Service
}

func newFixture(t *testing.T, emails ...string) *fixture {
	t.Helper()
	c := store.NewCollections(store.NewMemoryKV())
	f := feed.NewService(c)
	ids := identity.NewService(c, identity.NewSessions(c, store.NewCollections(store.NewMemoryKV())))

	ctx := context.Background()
	for _, email := range emails {
		_, err := ids.SignUp(ctx, "", email, "pw")
		require.NoError(t, err)
	}
	return &fixture{svc: NewService(c, f), feed: f, ids: ids}
}

func TestSendAndAccept(t *testing.T) {
	fx := newFixture(t, "a@example.com", "b@example.com")
	ctx := context.Background()

	ok, err := fx.svc.SendRequest(ctx, "a@example.com", "b@example.com")
	require.NoError(t, err)
	require.True(t, ok)

	state, err := fx.svc.State(ctx, "a@example.com", "b@example.com")
	require.NoError(t, err)
	assert.Equal(t, StateRequested, state)

	ok, err = fx.svc.AcceptRequest(ctx, "b@example.com", "a@example.com")
	require.NoError(t, err)
	require.True(t, ok)

	// Symmetry holds in both directions after accept.
	ab, err := fx.svc.AreFriends(ctx, "a@example.com", "b@example.com")
	require.NoError(t, err)
	ba, err := fx.svc.AreFriends(ctx, "b@example.com", "a@example.com")
	require.NoError(t, err)
	assert.True(t, ab)
	assert.True(t, ba)

	// Pending request is gone.
	pending, err := fx.svc.PendingRequests(ctx, "b@example.com")
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestSendRequestDuplicate(t *testing.T) {
	fx := newFixture(t, "a@example.com", "b@example.com")
	ctx := context.Background()

	ok, err := fx.svc.SendRequest(ctx, "a@example.com", "b@example.com")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = fx.svc.SendRequest(ctx, "a@example.com", "b@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	pending, err := fx.svc.PendingRequests(ctx, "b@example.com")
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestSendRequestMissingUser(t *testing.T) {
	fx := newFixture(t, "a@example.com")
	ctx := context.Background()

	ok, err := fx.svc.SendRequest(ctx, "a@example.com", "ghost@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = fx.svc.SendRequest(ctx, "ghost@example.com", "a@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	// Never to yourself.
	ok, err = fx.svc.SendRequest(ctx, "a@example.com", "a@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMutualRequestsStayIndependent(t *testing.T) {
	fx := newFixture(t, "a@example.com", "b@example.com")
	ctx := context.Background()

	ok, err := fx.svc.SendRequest(ctx, "a@example.com", "b@example.com")
	require.NoError(t, err)
	require.True(t, ok)

	// The reverse direction is not auto-accepted; both requests pend.
	ok, err = fx.svc.SendRequest(ctx, "b@example.com", "a@example.com")
	require.NoError(t, err)
	require.True(t, ok)

	pendingOnA, err := fx.svc.PendingRequests(ctx, "a@example.com")
	require.NoError(t, err)
	pendingOnB, err := fx.svc.PendingRequests(ctx, "b@example.com")
	require.NoError(t, err)
	assert.Len(t, pendingOnA, 1)
	assert.Len(t, pendingOnB, 1)
}

func TestCancelRequest(t *testing.T) {
	fx := newFixture(t, "a@example.com", "b@example.com")
	ctx := context.Background()

	_, err := fx.svc.SendRequest(ctx, "a@example.com", "b@example.com")
	require.NoError(t, err)

	// Withdraw the outgoing request.
	ok, err := fx.svc.CancelRequest(ctx, "a@example.com", "b@example.com")
	require.NoError(t, err)
	require.True(t, ok)

	state, err := fx.svc.State(ctx, "a@example.com", "b@example.com")
	require.NoError(t, err)
	assert.Equal(t, StateNone, state)

	ok, err = fx.svc.CancelRequest(ctx, "a@example.com", "ghost@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAcceptIsIdempotentOnFriendLists(t *testing.T) {
	fx := newFixture(t, "a@example.com", "b@example.com")
	ctx := context.Background()

	_, err := fx.svc.SendRequest(ctx, "a@example.com", "b@example.com")
	require.NoError(t, err)
	_, err = fx.svc.AcceptRequest(ctx, "b@example.com", "a@example.com")
	require.NoError(t, err)
	_, err = fx.svc.AcceptRequest(ctx, "b@example.com", "a@example.com")
	require.NoError(t, err)

	friends, err := fx.svc.Friends(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"b@example.com"}, friends)

	friends, err = fx.svc.Friends(ctx, "b@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"a@example.com"}, friends)
}

func TestAcceptRequestRefusesSelf(t *testing.T) {
	fx := newFixture(t, "a@example.com")
	ctx := context.Background()

	ok, err := fx.svc.AcceptRequest(ctx, "a@example.com", "a@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	// Friend lists never contain the own email.
	friends, err := fx.svc.Friends(ctx, "a@example.com")
	require.NoError(t, err)
	assert.NotContains(t, friends, "a@example.com")
}

func TestNotificationsEmitted(t *testing.T) {
	fx := newFixture(t, "a@example.com", "b@example.com")
	ctx := context.Background()

	_, err := fx.svc.SendRequest(ctx, "a@example.com", "b@example.com")
	require.NoError(t, err)

	got, err := fx.feed.For(ctx, "b@example.com")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, store.NotifyFriendRequest, got[0].Type)
	assert.Equal(t, "a@example.com", got[0].From)

	_, err = fx.svc.AcceptRequest(ctx, "b@example.com", "a@example.com")
	require.NoError(t, err)

	got, err = fx.feed.For(ctx, "a@example.com")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, store.NotifyFriendAccept, got[0].Type)
}

func TestComputePairState(t *testing.T) {
	a := &store.User{Email: "a@example.com", Friends: []string{"b@example.com"}}
	b := &store.User{Email: "b@example.com", Friends: []string{"a@example.com"}}

	assert.Equal(t, StateFriends, ComputePairState(a, b))
	assert.Equal(t, StateFriends, ComputePairState(b, a))

	c := &store.User{Email: "c@example.com", FriendRequests: []store.FriendRequest{{From: "a@example.com"}}}
	assert.Equal(t, StateRequested, ComputePairState(a, c))
	assert.Equal(t, StateNone, ComputePairState(c, a))

	assert.Equal(t, StateNone, ComputePairState(nil, a))
	assert.Equal(t, StateNone, ComputePairState(a, nil))
}
