// ABOUTME: Pairwise conversation storage keyed by the canonical pair-key
// ABOUTME: Full-history reads, append-only sends, no delivery state

package chat

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/anglershub/hub/internal/feed"
	"github.com/anglershub/hub/internal/store"
)

// pairSeparator joins the sorted participant emails into a pair-key.
const pairSeparator = "::"

// PairKey canonicalizes a two-party conversation identifier. (a,b) and (b,a)
// resolve to the same stored thread.
func PairKey(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return pair[0] + pairSeparator + pair[1]
}

// Service manages the global pair-key -> message-list mapping.
type Service struct {
	store  *store.Collections
	feed   *feed.Service
	logger *slog.Logger
}

// NewService creates a chat service.
func NewService(c *store.Collections, f *feed.Service) *Service {
	return &Service{
		store:  c,
		feed:   f,
		logger: slog.Default().With("component", "chat"),
	}
}

// Send appends a message to the thread for (from, to) and notifies the
// recipient. Both participants must exist.
func (s *Service) Send(ctx context.Context, from, to, text string) (*store.Message, error) {
	users, _, err := s.store.Users(ctx)
	if err != nil {
		return nil, err
	}
	if store.FindUser(users, from) == nil || store.FindUser(users, to) == nil {
		return nil, store.ErrUserNotFound
	}

	conversations, rev, err := s.store.Conversations(ctx)
	if err != nil {
		return nil, err
	}

	key := PairKey(from, to)
	msg := store.Message{
		From:      from,
		To:        to,
		Text:      text,
		Timestamp: store.NowMillis(),
	}
	conversations[key] = append(conversations[key], msg)

	if _, err := s.store.SaveConversations(ctx, conversations, rev); err != nil {
		return nil, err
	}

	body := fmt.Sprintf("New message from %s", from)
	if _, err := s.feed.Notify(ctx, to, body, from, store.NotifyMessage); err != nil {
		return nil, err
	}

	s.logger.Debug("message sent", "thread", key)
	return &msg, nil
}

// History returns the full thread between a and b in insertion order.
// There is no pagination; a missing thread is an empty history.
func (s *Service) History(ctx context.Context, a, b string) ([]store.Message, error) {
	conversations, _, err := s.store.Conversations(ctx)
	if err != nil {
		return nil, err
	}
	return conversations[PairKey(a, b)], nil
}
