// ABOUTME: Friend request lifecycle and friendship symmetry maintenance
// ABOUTME: Pair state is computed in one pure function for all callers

package social

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/anglershub/hub/internal/feed"
	"github.com/anglershub/hub/internal/store"
)

// PairState is the friendship state for an ordered (requester, recipient)
// pair. There is no stored state field; the state is inferred from the two
// user records, and this package is the single place that inference lives.
type PairState int

const (
	// StateNone: no pending request and not friends.
	StateNone PairState = iota
	// StateRequested: requester has a pending request on recipient.
	StateRequested
	// StateFriends: requester's friend list contains recipient.
	StateFriends
)

// String returns the lowercase name of the state.
func (s PairState) String() string {
	switch s {
	case StateRequested:
		return "requested"
	case StateFriends:
		return "friends"
	default:
		return "none"
	}
}

// ComputePairState derives the state for (requester, recipient) from their
// records. Either argument may be nil, which reads as StateNone.
func ComputePairState(requester, recipient *store.User) PairState {
	if requester == nil || recipient == nil {
		return StateNone
	}
	for _, f := range requester.Friends {
		if f == recipient.Email {
			return StateFriends
		}
	}
	for _, r := range recipient.FriendRequests {
		if r.From == requester.Email {
			return StateRequested
		}
	}
	return StateNone
}

// Service implements the friend graph operations. Domain-level refusals
// (missing user, duplicate request) report false with a nil error; callers
// must check the boolean.
type Service struct {
	store  *store.Collections
	feed   *feed.Service
	logger *slog.Logger
}

// NewService creates a social graph service.
func NewService(c *store.Collections, f *feed.Service) *Service {
	return &Service{
		store:  c,
		feed:   f,
		logger: slog.Default().With("component", "social"),
	}
}

// SendRequest records a pending request from -> to and notifies the
// recipient. Refused when either user is missing, the pair is the same user,
// or an identical pending request already exists. A reciprocal pending
// request in the other direction is deliberately not checked: mutual
// requests stay two independent pending entries.
func (s *Service) SendRequest(ctx context.Context, from, to string) (bool, error) {
	if from == "" || to == "" || from == to {
		return false, nil
	}

	users, rev, err := s.store.Users(ctx)
	if err != nil {
		return false, err
	}

	sender := store.FindUser(users, from)
	recipient := store.FindUser(users, to)
	if sender == nil || recipient == nil {
		return false, nil
	}
	recipient.EnsureFields()

	for _, r := range recipient.FriendRequests {
		if r.From == from {
			return false, nil
		}
	}
	recipient.FriendRequests = append(recipient.FriendRequests, store.FriendRequest{
		From:      from,
		Timestamp: store.NowMillis(),
	})

	if _, err := s.store.SaveUsers(ctx, users, rev); err != nil {
		return false, err
	}

	text := fmt.Sprintf("%s sent you a friend request.", displayName(sender))
	if _, err := s.feed.Notify(ctx, to, text, from, store.NotifyFriendRequest); err != nil {
		return false, err
	}

	s.logger.Info("friend request sent", "from", from, "to", to)
	return true, nil
}

// AcceptRequest removes the pending request from self's list, adds each
// email to the other's friend list if absent, and notifies the requester.
// Adding is idempotent, so accepting twice cannot duplicate an edge. A
// self-accept is refused; friend lists never contain the own email.
func (s *Service) AcceptRequest(ctx context.Context, self, from string) (bool, error) {
	if self == "" || from == "" || self == from {
		return false, nil
	}

	users, rev, err := s.store.Users(ctx)
	if err != nil {
		return false, err
	}

	me := store.FindUser(users, self)
	other := store.FindUser(users, from)
	if me == nil || other == nil {
		return false, nil
	}
	me.EnsureFields()
	other.EnsureFields()

	me.FriendRequests = removeRequest(me.FriendRequests, from)
	me.Friends = addFriend(me.Friends, from)
	other.Friends = addFriend(other.Friends, self)

	if _, err := s.store.SaveUsers(ctx, users, rev); err != nil {
		return false, err
	}

	text := fmt.Sprintf("%s accepted your friend request.", displayName(me))
	if _, err := s.feed.Notify(ctx, from, text, self, store.NotifyFriendAccept); err != nil {
		return false, err
	}

	s.logger.Info("friend request accepted", "self", self, "from", from)
	return true, nil
}

// CancelRequest removes the pending request from requester on recipient's
// list. The same primitive serves declining an incoming request and
// withdrawing an outgoing one; callers pick the argument order.
func (s *Service) CancelRequest(ctx context.Context, requester, recipient string) (bool, error) {
	users, rev, err := s.store.Users(ctx)
	if err != nil {
		return false, err
	}

	target := store.FindUser(users, recipient)
	if target == nil {
		return false, nil
	}
	target.FriendRequests = removeRequest(target.FriendRequests, requester)

	if _, err := s.store.SaveUsers(ctx, users, rev); err != nil {
		return false, err
	}

	s.logger.Info("friend request cancelled", "requester", requester, "recipient", recipient)
	return true, nil
}

// AreFriends reports whether a's friend list contains b. Friendship is kept
// symmetric by AcceptRequest, so the reverse check should always agree.
func (s *Service) AreFriends(ctx context.Context, a, b string) (bool, error) {
	state, err := s.State(ctx, a, b)
	if err != nil {
		return false, err
	}
	return state == StateFriends, nil
}

// State returns the pair state for (requester, recipient).
func (s *Service) State(ctx context.Context, requester, recipient string) (PairState, error) {
	users, _, err := s.store.Users(ctx)
	if err != nil {
		return StateNone, err
	}
	return ComputePairState(store.FindUser(users, requester), store.FindUser(users, recipient)), nil
}

// PendingRequests returns the requests waiting on a user.
func (s *Service) PendingRequests(ctx context.Context, email string) ([]store.FriendRequest, error) {
	users, _, err := s.store.Users(ctx)
	if err != nil {
		return nil, err
	}
	user := store.FindUser(users, email)
	if user == nil {
		return nil, store.ErrUserNotFound
	}
	return user.FriendRequests, nil
}

// Friends returns a user's friend emails.
func (s *Service) Friends(ctx context.Context, email string) ([]string, error) {
	users, _, err := s.store.Users(ctx)
	if err != nil {
		return nil, err
	}
	user := store.FindUser(users, email)
	if user == nil {
		return nil, store.ErrUserNotFound
	}
	return user.Friends, nil
}

func removeRequest(requests []store.FriendRequest, from string) []store.FriendRequest {
	out := requests[:0]
	for _, r := range requests {
		if r.From != from {
			out = append(out, r)
		}
	}
	return out
}

func addFriend(friends []string, email string) []string {
	for _, f := range friends {
		if f == email {
			return friends
		}
	}
	return append(friends, email)
}

func displayName(u *store.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
