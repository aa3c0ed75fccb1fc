// ABOUTME: Tests for pair-key canonicalization and conversation round-trips.

package chat

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anglershub/hub/internal/feed"
	"github.com/anglershub/hub/internal/identity"
	"github.com/anglershub/hub/internal/store"
)

func newChatFixture(t *testing.T, emails ...string) (*Service, *feed.Service) {
	t.Helper()
	c := store.NewCollections(store.NewMemoryKV())
	f := feed.NewService(c)
	ids := identity.NewService(c, identity.NewSessions(c, store.NewCollections(store.NewMemoryKV())))

	ctx := context.Background()
	for _, email := range emails {
		_, err := ids.SignUp(ctx, "", email, "pw")
		require.NoError(t, err)
	}
	return NewService(c, f), f
}

func TestPairKeyOrderIndependent(t *testing.T) {
	assert.Equal(t, PairKey("x@e.com", "y@e.com"), PairKey("y@e.com", "x@e.com"))
	assert.Equal(t, "x@e.com::y@e.com", PairKey("y@e.com", "x@e.com"))
}

func TestSendAndHistory(t *testing.T) {
	svc, _ := newChatFixture(t, "x@e.com", "y@e.com")
	ctx := context.Background()

	texts := []string{"hi", "are you fishing tomorrow?", "bring bait"}
	for i, text := range texts {
		from, to := "x@e.com", "y@e.com"
		if i%2 == 1 {
			from, to = to, from
		}
		_, err := svc.Send(ctx, from, to, text)
		require.NoError(t, err)
	}

	// Same thread regardless of argument order, insertion order preserved.
	forward, err := svc.History(ctx, "x@e.com", "y@e.com")
	require.NoError(t, err)
	reverse, err := svc.History(ctx, "y@e.com", "x@e.com")
	require.NoError(t, err)

	require.Len(t, forward, len(texts))
	assert.Equal(t, forward, reverse)
	for i, m := range forward {
		assert.Equal(t, texts[i], m.Text)
	}
}

func TestSendUnknownParticipant(t *testing.T) {
	svc, _ := newChatFixture(t, "x@e.com")
	ctx := context.Background()

	_, err := svc.Send(ctx, "x@e.com", "ghost@e.com", "hello?")
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	_, err = svc.Send(ctx, "ghost@e.com", "x@e.com", "boo")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestSendNotifiesRecipient(t *testing.T) {
	svc, f := newChatFixture(t, "x@e.com", "y@e.com")
	ctx := context.Background()

	_, err := svc.Send(ctx, "x@e.com", "y@e.com", "ping")
	require.NoError(t, err)

	got, err := f.For(ctx, "y@e.com")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, store.NotifyMessage, got[0].Type)
	assert.Equal(t, "New message from x@e.com", got[0].Text)
}

func TestHistoryEmptyThread(t *testing.T) {
	svc, _ := newChatFixture(t, "x@e.com", "y@e.com")

	history, err := svc.History(context.Background(), "x@e.com", "y@e.com")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestThreadsAreIsolated(t *testing.T) {
	svc, _ := newChatFixture(t, "a@e.com", "b@e.com", "c@e.com")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Send(ctx, "a@e.com", "b@e.com", fmt.Sprintf("ab %d", i))
		require.NoError(t, err)
	}
	_, err := svc.Send(ctx, "a@e.com", "c@e.com", "ac only")
	require.NoError(t, err)

	ab, err := svc.History(ctx, "b@e.com", "a@e.com")
	require.NoError(t, err)
	ac, err := svc.History(ctx, "c@e.com", "a@e.com")
	require.NoError(t, err)

	assert.Len(t, ab, 3)
	require.Len(t, ac, 1)
	assert.Equal(t, "ac only", ac[0].Text)
}
